package ostinato

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsInternal is a private prometheus registry for Ostinato.
// Every recorder is safe on a nil receiver so callers can run without stats.
type StatsInternal struct {
	Registry     *prometheus.Registry
	Operations   *prometheus.CounterVec
	OpDuration   *prometheus.HistogramVec
	LockWait     prometheus.Histogram
	Ticks        prometheus.Counter
	SkippedTicks prometheus.Counter
	Reloads      prometheus.Counter
	WWW          *prometheus.CounterVec
}

func NewStatsInternal() *StatsInternal {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &StatsInternal{
		Registry: reg,
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ostinato_operations_total",
			Help: "Composition operations by name and result status",
		}, []string{"operation", "status"}),
		OpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ostinato_operation_seconds",
			Help:    "Composition operation duration including lock wait",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		LockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ostinato_lock_wait_seconds",
			Help:    "Time spent queued for the mutation lock",
			Buckets: []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5},
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ostinato_playback_ticks_total",
			Help: "Playback steps scheduled",
		}),
		SkippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ostinato_playback_skipped_ticks_total",
			Help: "Playback steps skipped because the pattern was missing",
		}),
		Reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ostinato_playback_reloads_total",
			Help: "Composition reloads pushed to the scheduler",
		}),
		WWW: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ostinato_http_requests_total",
			Help: "Monitor API requests by status code and method",
		}, []string{"code", "method"}),
	}

	reg.MustRegister(s.Operations, s.OpDuration, s.LockWait, s.Ticks, s.SkippedTicks, s.Reloads, s.WWW)
	return s
}

// Handler serves the registry for /metrics
func (s *StatsInternal) Handler() http.Handler {
	return promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})
}

func (s *StatsInternal) RecOperation(op, status string, d time.Duration) {
	if s == nil {
		return
	}
	s.Operations.WithLabelValues(op, status).Inc()
	s.OpDuration.WithLabelValues(op).Observe(d.Seconds())
}

func (s *StatsInternal) RecLockWait(d time.Duration) {
	if s == nil {
		return
	}
	s.LockWait.Observe(d.Seconds())
}

func (s *StatsInternal) RecTick(skipped bool) {
	if s == nil {
		return
	}
	s.Ticks.Inc()
	if skipped {
		s.SkippedTicks.Inc()
	}
}

func (s *StatsInternal) RecReload() {
	if s == nil {
		return
	}
	s.Reloads.Inc()
}

func (s *StatsInternal) RecWWW(code, method string) {
	if s == nil {
		return
	}
	s.WWW.WithLabelValues(code, method).Inc()
}
