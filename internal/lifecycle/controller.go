package lifecycle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/headerguard/internal/analysis"
	"github.com/khanhnv2901/headerguard/internal/client"
	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
	sharederrors "github.com/khanhnv2901/headerguard/internal/shared/errors"
	"go.uber.org/zap"
)

const (
	// MsgEmptyURL is the validation error for blank input.
	MsgEmptyURL = "Please enter a URL"
	// MsgUnexpected is used when a fault carries no message of its own.
	MsgUnexpected = "An unexpected error occurred"
)

// Listener observes every state change in the order it was applied. It must
// not call Submit or Close.
type Listener func(State)

// Options tune a Controller. Zero values select defaults.
type Options struct {
	Timeout   time.Duration
	Scheduler *Scheduler
	Logger    *zap.Logger
	OnChange  Listener
}

// Controller drives one analysis request at a time through the lifecycle.
type Controller struct {
	analyzer  client.Analyzer
	scheduler *Scheduler
	timeout   time.Duration
	logger    *zap.Logger
	onChange  Listener

	mu         sync.Mutex
	state      State
	generation uint64
	cancelCall context.CancelFunc
	stopTicks  func()

	// notifyMu keeps listener calls in transition order.
	notifyMu sync.Mutex
}

// NewController returns an idle controller bound to analyzer.
func NewController(analyzer client.Analyzer, opts Options) *Controller {
	c := &Controller{
		analyzer:  analyzer,
		scheduler: opts.Scheduler,
		timeout:   opts.Timeout,
		logger:    opts.Logger,
		onChange:  opts.OnChange,
	}
	if c.scheduler == nil {
		c.scheduler = NewScheduler()
	}
	if c.timeout <= 0 {
		c.timeout = consts.DefaultRequestTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("component", "request-controller"))
	return c
}

// State returns a snapshot of the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit runs one submission to completion and returns the state it produced.
//
// Blank input fails locally with MsgEmptyURL. Otherwise the controller enters
// Loading, starts the loading ticks and issues exactly one analyzer call
// bounded by the configured timeout. Loading is left exactly once on every
// path. A Submit made while another is in flight supersedes it: the older
// call is cancelled and its caller receives ErrSuperseded with the current
// state instead of committing a stale result.
func (c *Controller) Submit(ctx context.Context, rawURL string, bypassCache bool) (result State, err error) {
	url := strings.TrimSpace(rawURL)
	gen := c.supersede()

	if url == "" {
		c.logger.Debug("rejected blank url")
		return c.commit(gen, func(s State) State {
			return s.fail(url, bypassCache, MsgEmptyURL)
		})
	}
	if c.analyzer == nil {
		return c.commit(gen, func(s State) State {
			return s.fail(url, bypassCache, sharederrors.ErrNoAnalyzer.Error())
		})
	}

	callCtx, cancelCall := context.WithTimeout(ctx, c.timeout)
	defer cancelCall()

	stopTicks, ok := c.enterLoading(gen, url, bypassCache, cancelCall)
	if !ok {
		return c.State(), sharederrors.ErrSuperseded
	}

	started := time.Now()
	next := func(s State) State { return s.fail(s.URL, s.BypassCache, MsgUnexpected) }
	defer func() {
		stopTicks()
		result, err = c.commit(gen, next)
		if err != nil {
			c.logger.Debug("discarded superseded response", zap.String("url", url))
			return
		}
		c.logger.Debug("left loading",
			zap.String("url", url),
			zap.Stringer("phase", result.Phase),
			zap.Duration("elapsed", time.Since(started)))
	}()

	resp, callErr := c.analyzer.Analyze(callCtx, analysis.AnalyzeRequest{URL: url, BypassCache: bypassCache})
	switch {
	case callErr != nil:
		msg := failureMessage(callErr)
		c.logger.Warn("analysis failed", zap.String("url", url), zap.Error(callErr))
		next = func(s State) State { return s.fail(s.URL, s.BypassCache, msg) }
	case resp == nil:
		c.logger.Warn("analysis returned no body", zap.String("url", url), zap.Error(sharederrors.ErrEmptyResponse))
	default:
		next = func(s State) State { return s.succeed(resp) }
	}
	return result, err
}

// Close cancels any in-flight submission and stops its ticks. A Loading state
// falls back to Idle.
func (c *Controller) Close() {
	gen := c.supersede()
	_, _ = c.commit(gen, func(s State) State {
		if s.Phase == PhaseLoading {
			return State{}
		}
		return s
	})
}

// supersede invalidates the current submission and releases its resources.
func (c *Controller) supersede() uint64 {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	cancelCall, stopTicks := c.cancelCall, c.stopTicks
	c.cancelCall, c.stopTicks = nil, nil
	c.mu.Unlock()

	// ticks first: nothing from the old submission may land after this
	if stopTicks != nil {
		stopTicks()
	}
	if cancelCall != nil {
		cancelCall()
	}
	return gen
}

func (c *Controller) enterLoading(gen uint64, url string, bypassCache bool, cancelCall context.CancelFunc) (func(), bool) {
	c.mu.Lock()
	if c.generation != gen {
		c.mu.Unlock()
		return nil, false
	}
	c.state = c.state.begin(url, bypassCache)
	stopTicks := c.scheduler.Start(func() { c.advance(gen) })
	c.cancelCall, c.stopTicks = cancelCall, stopTicks
	c.publishLocked()

	c.logger.Debug("entered loading", zap.String("url", url), zap.Bool("bypass_cache", bypassCache))
	return stopTicks, true
}

// advance is the scheduler tick for submission gen.
func (c *Controller) advance(gen uint64) {
	c.mu.Lock()
	if c.generation != gen || c.state.Phase != PhaseLoading {
		c.mu.Unlock()
		return
	}
	c.state = c.state.tick()
	c.publishLocked()
}

// commit applies fn if gen is still current. Otherwise it returns the
// current state with ErrSuperseded.
func (c *Controller) commit(gen uint64, fn func(State) State) (State, error) {
	c.mu.Lock()
	if c.generation != gen {
		snap := c.state
		c.mu.Unlock()
		return snap, sharederrors.ErrSuperseded
	}
	c.state = fn(c.state)
	c.cancelCall, c.stopTicks = nil, nil
	snap := c.state
	c.publishLocked()
	return snap, nil
}

// publishLocked hands the current state to the listener. It must be called
// with mu held and releases it.
func (c *Controller) publishLocked() {
	snap := c.state
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	if c.onChange != nil {
		c.onChange(snap)
	}
}

func failureMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnexpected
}
