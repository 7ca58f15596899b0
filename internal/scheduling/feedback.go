package scheduling

import "github.com/lumawake/lumawake-backend/internal/types"

// RecentFeedbackWindow is how many trailing feedback entries define
// "recent" for satisfaction and effectiveness updates.
const RecentFeedbackWindow = 30

// FeelingScore maps the ordinal feeling scale onto [0,1].
func FeelingScore(feeling string) (float64, bool) {
	switch feeling {
	case types.FeelingTerrible:
		return 0, true
	case types.FeelingTired:
		return 0.25, true
	case types.FeelingOkay:
		return 0.5, true
	case types.FeelingGood:
		return 0.75, true
	case types.FeelingExcellent:
		return 1.0, true
	}
	return 0, false
}

// Satisfaction averages the feeling scores of a feedback window. The second
// return is false when the window holds no scorable entries: that is the
// valid zero-signal state, not an error, and scores must not move on it.
func Satisfaction(feelings []string) (float64, bool) {
	sum := 0.0
	n := 0
	for _, f := range feelings {
		score, ok := FeelingScore(f)
		if !ok {
			continue
		}
		sum += score
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// NudgeScore moves an effectiveness score toward the observed outcome by
// the learning factor (exponential moving average), clamped to [0,1].
func NudgeScore(score, outcome, learningFactor float64) float64 {
	next := score + learningFactor*(outcome-score)
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}
