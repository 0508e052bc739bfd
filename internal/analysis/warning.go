package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// warningHeadings maps each typed warning to its fixed panel heading.
var warningHeadings = map[WarningType]string{
	WarningCDN:           "CDN Edge Response Detected",
	WarningAsset:         "Asset File Detected",
	WarningNon200:        "Non-Success Response",
	WarningBotProtection: "Bot Protection Detected",
	WarningHTTPOnly:      "HTTP Only (No HTTPS)",
}

// genericWarningHeading is used for warning types this client does not know yet.
const genericWarningHeading = "Analysis Warning"

// Detail is a single labelled diagnostic line of a warning panel.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// WarningOutcome is a response resolved to a disqualifying warning.
type WarningOutcome struct {
	Type    WarningType `json:"type"`
	Heading string      `json:"heading"`
	Message string      `json:"message"`
	Details []Detail    `json:"details,omitempty"`
	// Legacy is true when the outcome came from the cdnWarning field.
	Legacy bool `json:"legacy,omitempty"`
}

// Heading returns the fixed heading for a warning type.
func Heading(t WarningType) string {
	if h, ok := warningHeadings[t]; ok {
		return h
	}
	return genericWarningHeading
}

// Classify resolves a response to a warning outcome, or nil when the
// response must be treated as a scored result. The typed warning field takes
// precedence over the legacy cdnWarning field.
func Classify(resp *AnalyzeResponse) *WarningOutcome {
	if resp == nil {
		return nil
	}
	switch w := resolveWarning(resp).(type) {
	case *Warning:
		return fromTyped(w)
	case *CDNWarning:
		return fromLegacy(w)
	default:
		return nil
	}
}

// resolveWarning applies the precedence rule between the two warning shapes.
// Dropping legacy support means deleting the CDNWarning branch.
func resolveWarning(resp *AnalyzeResponse) any {
	if resp.Warning != nil {
		return resp.Warning
	}
	if resp.CDNWarning != nil {
		return resp.CDNWarning
	}
	return nil
}

func fromTyped(w *Warning) *WarningOutcome {
	out := &WarningOutcome{
		Type:    w.Type,
		Heading: Heading(w.Type),
		Message: w.Message,
	}
	if d := w.Details; d != nil {
		if d.DetectedServer != "" {
			out.Details = append(out.Details, Detail{Label: "Detected", Value: d.DetectedServer})
		}
		if d.HeaderCount != nil {
			out.Details = append(out.Details, Detail{Label: "Headers Found", Value: strconv.Itoa(*d.HeaderCount)})
		}
		// a zero status code carries no information
		if d.StatusCode != nil && *d.StatusCode != 0 {
			out.Details = append(out.Details, Detail{Label: "Status Code", Value: strconv.Itoa(*d.StatusCode)})
		}
		if d.Extension != "" {
			out.Details = append(out.Details, Detail{Label: "File Type", Value: d.Extension})
		}
	}
	return out
}

func fromLegacy(w *CDNWarning) *WarningOutcome {
	server := w.DetectedServer
	if server == "" {
		server = "unknown"
	}
	return &WarningOutcome{
		Type:    WarningCDN,
		Heading: Heading(WarningCDN),
		Message: w.Message,
		Details: []Detail{
			{Label: "Detected Server", Value: server},
			{Label: "Headers Found", Value: strconv.Itoa(w.HeaderCount)},
		},
		Legacy: true,
	}
}

// RemediationHint suggests retrying against path-qualified URLs when the
// warning is a CDN edge response. It returns "" for every other type and
// never alters the classification.
func (w *WarningOutcome) RemediationHint(url string) string {
	if w == nil || w.Type != WarningCDN {
		return ""
	}
	base := strings.TrimRight(strings.TrimSpace(url), "/")
	return fmt.Sprintf("Tip: Try analyzing a specific page like %s/home or %s/about to get more accurate results.", base, base)
}
