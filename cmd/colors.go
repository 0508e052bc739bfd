package cmd

import (
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

// formatOutcomeWithColor colors a history outcome or tier label.
func formatOutcomeWithColor(outcome string) string {
	switch strings.ToLower(outcome) {
	case "scored", "excellent", "good":
		return colorSuccess(outcome)
	case "warning", "fair":
		return colorWarn(outcome)
	case "failed", "poor":
		return colorError(outcome)
	default:
		return outcome
	}
}
