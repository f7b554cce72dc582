// Package ticker runs a callback at a fixed period on its own goroutine.
//
// Time comes from an injected clockwork.Clock so the cadence can be driven
// by a fake clock in tests.
package ticker

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPeriod is the timer cadence.
const DefaultPeriod = time.Second

// Scheduler calls fn once per period between Start and Stop.
type Scheduler struct {
	clock  clockwork.Clock
	period time.Duration
	fn     func()

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// New creates a stopped Scheduler. period <= 0 selects DefaultPeriod.
func New(clock clockwork.Clock, period time.Duration, fn func()) *Scheduler {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Scheduler{clock: clock, period: period, fn: fn}
}

// Start begins ticking. Starting a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	t := s.clock.NewTicker(s.period)
	go s.loop(t, s.stop, s.done)
}

// Stop halts ticking and waits for the tick goroutine to exit, so fn is not
// running and will not run again once Stop returns. Stopping a stopped
// scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the scheduler is ticking.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

func (s *Scheduler) loop(t clockwork.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			// Prefer stop when both are ready.
			select {
			case <-stop:
				return
			default:
			}
			s.fn()
		}
	}
}
