package ostinato

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// MutationLock admits one operation at a time, in arrival order.
// Waiters queue on their own channel and the lock is handed
// directly to the head of the queue on release.
type MutationLock struct {
	MU       sync.Mutex
	Watchdog time.Duration                    // warn when a body runs longer, 0 disables
	OnWait   func(op string, d time.Duration) // called with the queue time of each operation

	held    bool
	waiters []chan struct{}
}

func NewMutationLock(watchdog time.Duration) *MutationLock {
	return &MutationLock{Watchdog: watchdog}
}

func (l *MutationLock) acquire() {
	l.MU.Lock()
	if !l.held {
		l.held = true
		l.MU.Unlock()
		return
	}
	ch := make(chan struct{})
	l.waiters = append(l.waiters, ch)
	l.MU.Unlock()
	<-ch
}

func (l *MutationLock) release() {
	l.MU.Lock()
	defer l.MU.Unlock()
	if len(l.waiters) > 0 {
		next := l.waiters[0]
		l.waiters = l.waiters[1:]
		close(next)
		return
	}
	l.held = false
}

// Pending is the number of operations waiting for the lock.
func (l *MutationLock) Pending() int {
	l.MU.Lock()
	defer l.MU.Unlock()
	return len(l.waiters)
}

// WithLock runs body while holding the lock.
// The lock is released however body ends, a panic is returned as an error.
// There is no timeout: a body that never returns blocks every later operation,
// the watchdog only reports it.
func (l *MutationLock) WithLock(op string, body func() error) (err error) {
	queued := time.Now()
	l.acquire()
	if l.OnWait != nil {
		l.OnWait(op, time.Since(queued))
	}

	var dog *time.Timer
	if l.Watchdog > 0 {
		started := time.Now()
		dog = time.AfterFunc(l.Watchdog, func() {
			slog.Warn("Operation is holding the mutation lock",
				slog.String("operation", op),
				slog.Duration("held", time.Since(started)),
				slog.Int("waiting", l.Pending()))
		})
	}

	defer func() {
		if dog != nil {
			dog.Stop()
		}
		if r := recover(); r != nil {
			slog.Error("Operation panicked", slog.String("operation", op), slog.Any("panic", r))
			err = fmt.Errorf("%s panicked: %v", op, r)
		}
		l.release()
	}()

	return body()
}
