package analysis

// OutcomeKind is the presentation path chosen for a successful response.
type OutcomeKind string

const (
	OutcomeScored  OutcomeKind = "scored"
	OutcomeWarning OutcomeKind = "warning"
)

// Outcome is a response after warning and score classification. Warning and
// Score are mutually exclusive: Kind says which one is set.
type Outcome struct {
	Kind    OutcomeKind     `json:"kind"`
	URL     string          `json:"url"`
	Warning *WarningOutcome `json:"warning,omitempty"`
	Hint    string          `json:"hint,omitempty"`
	Score   *int            `json:"score,omitempty"`
	Tier    Tier            `json:"tier,omitempty"`
	Summary string          `json:"summary,omitempty"`
	Issues  []SecurityIssue `json:"issues"`
}

// Resolve classifies resp for the URL it was submitted with.
func Resolve(url string, resp *AnalyzeResponse) Outcome {
	out := Outcome{URL: url, Issues: []SecurityIssue{}}
	if resp == nil {
		out.Kind = OutcomeScored
		score := MinScore
		out.Score = &score
		out.Tier = TierOf(score)
		return out
	}
	if resp.Issues != nil {
		out.Issues = resp.Issues
	}

	if w := Classify(resp); w != nil {
		out.Kind = OutcomeWarning
		out.Warning = w
		out.Hint = w.RemediationHint(url)
		return out
	}

	score := ClampScore(resp.Score)
	out.Kind = OutcomeScored
	out.Score = &score
	out.Tier = TierOf(score)
	out.Summary = resp.Summary
	return out
}
