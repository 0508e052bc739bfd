package lifecycle

import "github.com/khanhnv2901/headerguard/internal/analysis"

// Phase is the lifecycle phase of the current submission.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is the single lifecycle record. Result is set only in
// PhaseSucceeded, Error only in PhaseFailed, and TickIndex is non-zero only
// in PhaseLoading. It is only ever changed through the transition methods
// below, which return a new value.
type State struct {
	Phase       Phase
	URL         string
	BypassCache bool
	Result      *analysis.AnalyzeResponse
	Error       string
	TickIndex   int
}

// Message returns the loading message for the current tick, or "" outside Loading.
func (s State) Message() string {
	if s.Phase != PhaseLoading {
		return ""
	}
	return LoadingMessages[s.TickIndex%len(LoadingMessages)]
}

// Outcome classifies the result of a succeeded submission.
func (s State) Outcome() (analysis.Outcome, bool) {
	if s.Phase != PhaseSucceeded || s.Result == nil {
		return analysis.Outcome{}, false
	}
	return analysis.Resolve(s.URL, s.Result), true
}

func (s State) begin(url string, bypassCache bool) State {
	return State{Phase: PhaseLoading, URL: url, BypassCache: bypassCache}
}

func (s State) tick() State {
	if s.Phase != PhaseLoading {
		return s
	}
	s.TickIndex = (s.TickIndex + 1) % len(LoadingMessages)
	return s
}

func (s State) succeed(resp *analysis.AnalyzeResponse) State {
	return State{Phase: PhaseSucceeded, URL: s.URL, BypassCache: s.BypassCache, Result: resp}
}

func (s State) fail(url string, bypassCache bool, msg string) State {
	return State{Phase: PhaseFailed, URL: url, BypassCache: bypassCache, Error: msg}
}
