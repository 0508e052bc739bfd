package analysis

// Tier is a coarse score bucket used for presentation emphasis.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierFair      Tier = "fair"
	TierPoor      Tier = "poor"
)

const (
	MinScore = 0
	MaxScore = 100
)

// ClampScore forces a score into [MinScore, MaxScore].
func ClampScore(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	}
	return score
}

// TierOf maps a score to its tier. Thresholds are inclusive lower bounds;
// out-of-range scores are clamped first.
func TierOf(score int) Tier {
	score = ClampScore(score)
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 50:
		return TierFair
	default:
		return TierPoor
	}
}
