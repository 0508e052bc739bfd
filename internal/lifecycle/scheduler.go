package lifecycle

import (
	"sync"
	"time"

	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
)

// LoadingMessages rotate while a request is outstanding.
var LoadingMessages = []string{
	"Initiating connection...",
	"Fetching HTTP headers...",
	"Analyzing security configuration...",
	"Evaluating header policies...",
	"Generating recommendations...",
}

// TickerFunc returns a tick channel and a function that releases it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Scheduler runs a recurring tick on a fixed interval until cancelled.
type Scheduler struct {
	Interval  time.Duration
	NewTicker TickerFunc
}

// NewScheduler returns a Scheduler using the loading tick interval and real time.
func NewScheduler() *Scheduler {
	return &Scheduler{Interval: consts.LoadingTickInterval, NewTicker: realTicker}
}

// Start calls tick on every interval in its own goroutine. The returned
// cancel func is idempotent and does not return until the goroutine has
// exited, so no tick runs after cancel returns. cancel must not be called
// from inside tick.
func (s *Scheduler) Start(tick func()) (cancel func()) {
	interval := s.Interval
	if interval <= 0 {
		interval = consts.LoadingTickInterval
	}
	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = realTicker
	}

	c, release := newTicker(interval)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer release()
		for {
			select {
			case <-stop:
				return
			case <-c:
				// stop wins when both are ready
				select {
				case <-stop:
					return
				default:
				}
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
		<-done
	}
}
