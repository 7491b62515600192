package ostinato

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	Mo "github.com/maroda/ostinato/obvy"
	Mb "github.com/maroda/ostinato/playback"
	Ms "github.com/maroda/ostinato/server"
)

// View ties the store, the scheduler and the monitor together.
type View struct {
	MU         sync.Mutex
	Store      *Ms.Store         // composition owner
	Scheduler  *Mb.Scheduler     // playback
	Stats      *Mo.StatsInternal // Internal status for prometheus
	Hub        *Hub              // websocket clients
	Supervisor *WatchSupervisor  // change detection
	server     *http.Server      // monitor server
}

// NewView wires scheduler steps to the websocket hub.
func NewView(store *Ms.Store, sched *Mb.Scheduler, stats *Mo.StatsInternal) *View {
	v := &View{
		Store:     store,
		Scheduler: sched,
		Stats:     stats,
		Hub:       NewHub(),
	}
	if sched != nil {
		sched.SetObserver(func(timelineIndex int, patternID string, step int) {
			v.Hub.Broadcast(Event{
				Type: EventStep,
				Step: &Mb.StepRef{TimelineIndex: timelineIndex, PatternID: patternID, Step: step},
			})
		})
	}
	return v
}

// Reload hands the current document to the scheduler.
func (v *View) Reload(ctx context.Context) error {
	doc, err := v.Store.Snapshot(ctx)
	if err != nil {
		slog.Error("Could not reload composition", slog.Any("Error", err))
		return err
	}
	v.Scheduler.LoadTrack(doc)
	v.Stats.RecReload()
	return nil
}

// StartMonitor serves the monitor endpoints on addr until Shutdown.
func (v *View) StartMonitor(addr string) {
	v.MU.Lock()
	v.server = &http.Server{
		Addr:              addr,
		Handler:           v.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := v.server
	v.MU.Unlock()

	go func() {
		slog.Info("Starting Ostinato monitor...", slog.String("Port", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not start monitor", slog.Any("Error", err))
		}
	}()
}

// Shutdown stops the monitor server and change detection.
func (v *View) Shutdown(ctx context.Context) error {
	if v.Supervisor != nil {
		v.Supervisor.Stop()
	}
	v.Hub.Close()

	v.MU.Lock()
	srv := v.server
	v.MU.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}
