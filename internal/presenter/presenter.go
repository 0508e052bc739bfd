package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/khanhnv2901/headerguard/internal/analysis"
	"github.com/khanhnv2901/headerguard/internal/lifecycle"
)

var (
	colorHeading = color.New(color.Bold).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorWarnHdr = color.New(color.FgYellow, color.Bold).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorMuted   = color.New(color.FgHiBlack).SprintFunc()
	colorGood    = color.New(color.FgGreen).SprintFunc()
	colorCode    = color.New(color.FgCyan).SprintFunc()
)

var tierColors = map[analysis.Tier]func(a ...interface{}) string{
	analysis.TierExcellent: color.New(color.FgGreen, color.Bold).SprintFunc(),
	analysis.TierGood:      color.New(color.FgBlue, color.Bold).SprintFunc(),
	analysis.TierFair:      color.New(color.FgHiYellow, color.Bold).SprintFunc(),
	analysis.TierPoor:      color.New(color.FgRed, color.Bold).SprintFunc(),
}

var severityColors = map[analysis.Severity]func(a ...interface{}) string{
	analysis.SeverityHigh:   color.New(color.FgRed, color.Bold).SprintFunc(),
	analysis.SeverityMedium: color.New(color.FgHiYellow).SprintFunc(),
	analysis.SeverityLow:    color.New(color.FgYellow).SprintFunc(),
}

// NotSetLabel is shown for issues whose header has no current value.
const NotSetLabel = "(not set)"

// Presenter writes classified outcomes as terminal panels.
type Presenter struct {
	out io.Writer
}

// New returns a Presenter writing to w.
func New(w io.Writer) *Presenter {
	return &Presenter{out: w}
}

// Render writes the panel for a finished state. Idle and Loading states
// render nothing; the loading line is owned by the progress display.
func (p *Presenter) Render(s lifecycle.State) {
	switch s.Phase {
	case lifecycle.PhaseFailed:
		p.RenderError(s.Error)
	case lifecycle.PhaseSucceeded:
		if out, ok := s.Outcome(); ok {
			p.RenderOutcome(out)
		}
	}
}

// RenderError writes the error panel.
func (p *Presenter) RenderError(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", colorError("Error:"), msg)
}

// RenderOutcome writes either the warning panel or the score panel, followed
// by the issue list when the analyzer returned any issues.
func (p *Presenter) RenderOutcome(out analysis.Outcome) {
	switch out.Kind {
	case analysis.OutcomeWarning:
		p.renderWarning(out)
	default:
		p.renderScore(out)
	}
	if len(out.Issues) > 0 {
		fmt.Fprintln(p.out)
		p.renderIssues(out.Issues)
	}
}

func (p *Presenter) renderWarning(out analysis.Outcome) {
	w := out.Warning
	fmt.Fprintf(p.out, "%s %s\n", colorWarn("⚠"), colorWarnHdr(w.Heading))
	if w.Message != "" {
		fmt.Fprintf(p.out, "  %s\n", w.Message)
	}
	for _, d := range w.Details {
		fmt.Fprintf(p.out, "  %s %s\n", colorHeading(d.Label+":"), d.Value)
	}
	if out.Hint != "" {
		fmt.Fprintf(p.out, "  %s\n", colorWarn(out.Hint))
	}
}

func (p *Presenter) renderScore(out analysis.Outcome) {
	score := 0
	if out.Score != nil {
		score = *out.Score
	}
	paint := tierColors[out.Tier]
	if paint == nil {
		paint = fmt.Sprint
	}
	fmt.Fprintf(p.out, "%s %s %s\n",
		paint(fmt.Sprintf("%d", score)),
		colorMuted("/ 100"),
		colorMuted("("+string(out.Tier)+")"))
	if out.Summary != "" {
		fmt.Fprintf(p.out, "%s\n", out.Summary)
	}
}

func (p *Presenter) renderIssues(issues []analysis.SecurityIssue) {
	fmt.Fprintln(p.out, colorHeading(fmt.Sprintf("Security Issues (%d)", len(issues))))
	for i, issue := range issues {
		fmt.Fprintln(p.out)
		fmt.Fprintf(p.out, "%d. %s %s\n", i+1, colorHeading(issue.Name), SeverityBadge(issue.Severity))
		if issue.Explanation != "" {
			fmt.Fprintf(p.out, "   %s\n", issue.Explanation)
		}
		fmt.Fprintf(p.out, "   Header: %s\n", colorCode(issue.Header))
		current := issue.Current()
		if current == "" {
			current = NotSetLabel
		}
		fmt.Fprintf(p.out, "   Current Value: %s\n", current)
		fmt.Fprintf(p.out, "   Recommended Value: %s\n", colorGood(issue.RecommendedValue))
	}
}

// SeverityBadge returns the uppercase, colored severity label.
func SeverityBadge(s analysis.Severity) string {
	label := "[" + strings.ToUpper(string(s)) + "]"
	if paint, ok := severityColors[s]; ok {
		return paint(label)
	}
	return label
}

// TierLabel returns the tier name colored for its tier.
func TierLabel(t analysis.Tier) string {
	if paint, ok := tierColors[t]; ok {
		return paint(string(t))
	}
	return string(t)
}
