package ostinato

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// WatchSupervisor polls the storage revision and tells clients when the
// composition changes. The scheduler only picks up a change while it is not
// playing, so a section is never cut short.
type WatchSupervisor struct {
	View     *View
	Interval time.Duration
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup

	last    int64
	pending bool
}

// NewWatchSupervisor is a wrapper around the View that manages the polling goroutine
// They are strongly coupled, one knows about the other
func (v *View) NewWatchSupervisor(interval time.Duration) *WatchSupervisor {
	ws := &WatchSupervisor{
		View:     v,
		Interval: interval,
	}
	v.Supervisor = ws
	return ws
}

// Start the WatchSupervisor
func (p *WatchSupervisor) Start() {
	if rev, err := p.View.Store.Revision(); err == nil {
		p.last = rev
	}
	p.StopChan = make(chan struct{})
	p.Ticker = time.NewTicker(p.Interval)

	p.WG.Add(1)
	go func() {
		defer p.WG.Done()
		defer p.Ticker.Stop()

		for {
			select {
			case <-p.Ticker.C:
				p.Check(context.Background())
			case <-p.StopChan:
				return
			}
		}
	}()
}

// Stop the WatchSupervisor
func (p *WatchSupervisor) Stop() {
	if p.StopChan != nil {
		close(p.StopChan)
		p.WG.Wait()
		p.StopChan = nil
	}
}

// Restart the WatchSupervisor
func (p *WatchSupervisor) Restart() {
	p.Stop()
	p.Start()
}

// Check compares the storage revision with the last one seen.
// It reports whether the composition changed. A change seen during
// playback is loaded on the first check after playback stops.
func (p *WatchSupervisor) Check(ctx context.Context) bool {
	rev, err := p.View.Store.Revision()
	if err != nil {
		slog.Error("Could not read composition revision", slog.Any("Error", err))
		return false
	}

	changed := rev != p.last
	if changed {
		p.last = rev
		p.pending = true
		p.View.Hub.Broadcast(Event{Type: EventUpdate, Revision: rev})
	}

	if p.pending {
		if p.View.Scheduler.IsPlaying() {
			slog.Debug("Composition changed during playback, reload deferred", slog.Int64("revision", rev))
			return changed
		}
		if err := p.View.Reload(ctx); err == nil {
			p.pending = false
		}
	}
	return changed
}
