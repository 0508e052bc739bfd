package analysis

// AnalyzeRequest is the body sent to the analyzer endpoint.
type AnalyzeRequest struct {
	URL         string `json:"url"`
	BypassCache bool   `json:"bypass_cache"`
}

// Severity ranks a single security issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SecurityIssue is one header misconfiguration reported by the analyzer.
type SecurityIssue struct {
	Name             string   `json:"name"`
	Severity         Severity `json:"severity"`
	Header           string   `json:"header"`
	Explanation      string   `json:"explanation"`
	CurrentValue     *string  `json:"current_value,omitempty"`
	RecommendedValue string   `json:"recommended_value"`
}

// Current returns the observed header value, or "" when the header was not set.
func (i SecurityIssue) Current() string {
	if i.CurrentValue == nil {
		return ""
	}
	return *i.CurrentValue
}

// WarningType discriminates the typed warning variants.
type WarningType string

const (
	WarningCDN           WarningType = "cdn"
	WarningAsset         WarningType = "asset"
	WarningNon200        WarningType = "non-200"
	WarningBotProtection WarningType = "bot-protection"
	WarningHTTPOnly      WarningType = "http-only"
)

// WarningDetails carries optional diagnostics; each field is independently optional.
type WarningDetails struct {
	DetectedServer string `json:"detectedServer,omitempty"`
	HeaderCount    *int   `json:"headerCount,omitempty"`
	StatusCode     *int   `json:"statusCode,omitempty"`
	Extension      string `json:"extension,omitempty"`
}

// Warning is the typed warning shape.
type Warning struct {
	Type    WarningType     `json:"type"`
	Message string          `json:"message"`
	Details *WarningDetails `json:"details,omitempty"`
}

// CDNWarning is the legacy warning shape kept for older analyzer deployments.
type CDNWarning struct {
	DetectedServer string `json:"detectedServer,omitempty"`
	HeaderCount    int    `json:"headerCount"`
	Message        string `json:"message"`
}

// AnalyzeResponse is the union-shaped analyzer payload. Exactly one of the
// warning shapes or the scored fields is meaningful; see Classify.
type AnalyzeResponse struct {
	Warning    *Warning        `json:"warning,omitempty"`
	CDNWarning *CDNWarning     `json:"cdnWarning,omitempty"`
	Score      int             `json:"score"`
	Summary    string          `json:"summary"`
	Issues     []SecurityIssue `json:"issues"`
}

// APIError is the body returned with a non-success status.
type APIError struct {
	Error string `json:"error"`
}
