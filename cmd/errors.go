package cmd

import "fmt"

// AnalysisFailedError reports how many submissions of a batch ended in Failed.
type AnalysisFailedError struct {
	Failed int
	Total  int
}

func (e *AnalysisFailedError) Error() string {
	if e.Total <= 1 {
		return "analysis failed"
	}
	return fmt.Sprintf("%d of %d analyses failed", e.Failed, e.Total)
}

// InvalidFlagError signals a flag value outside its accepted range.
type InvalidFlagError struct {
	Flag   string
	Value  string
	Reason string
}

func (e *InvalidFlagError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid value %q for --%s", e.Value, e.Flag)
	}
	return fmt.Sprintf("invalid value %q for --%s: %s", e.Value, e.Flag, e.Reason)
}
