// Package analysis models the analyzer wire types and the pure classification
// rules applied to a response.
//
//   - Classify resolves a response to exactly one of "no warning" (a scored
//     result) or a WarningOutcome. The typed `warning` field wins over the
//     legacy `cdnWarning` field when both are present.
//   - TierOf buckets a score into excellent/good/fair/poor.
//
// Neither function has state; cmd/ and internal/presenter build on them.
package analysis
