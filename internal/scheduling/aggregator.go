package scheduling

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// conservativeScale applies when real-time adaptation is off: unverified
// conditions only ever contribute half their weighted shift.
const conservativeScale = 0.5

// AggregationParams carries the alarm settings the aggregator reads.
type AggregationParams struct {
	SleepPatternWeight float64
	RealTimeAdaptation bool
	// CeilingMinutes caps the absolute final shift no matter how many
	// conditions fire. Per-alarm policy, default 60.
	CeilingMinutes int
}

// FinalAdjustment is the single bounded wake-time shift for one cycle.
type FinalAdjustment struct {
	Minutes                  int         `json:"minutes"`
	ContributingConditionIDs []uuid.UUID `json:"contributing_condition_ids"`
	AppliedAt                time.Time   `json:"applied_at"`
}

// Aggregate folds all active candidates into one shift. Each candidate's
// minutes are weighted by its effectiveness score; the weighted sum is
// scaled by (1 - sleepPatternWeight) under real-time adaptation, or by the
// conservative factor otherwise. When candidates pull in opposite
// directions the highest-priority candidate's sign wins while the magnitude
// stays the weighted sum. The result is clamped to the smaller of the
// candidates' summed max adjustments and the ceiling.
func Aggregate(candidates []AdjustmentCandidate, params AggregationParams, now time.Time) FinalAdjustment {
	out := FinalAdjustment{AppliedAt: now}
	if len(candidates) == 0 {
		return out
	}

	weighted := 0.0
	capSum := 0
	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		weighted += float64(c.TimeMinutes) * c.Effectiveness
		capSum += c.MaxAdjustment
		ids = append(ids, c.ConditionID)
	}

	scale := conservativeScale
	if params.RealTimeAdaptation {
		scale = 1 - params.SleepPatternWeight
	}
	net := weighted * scale

	if sign, decided := dominantSign(candidates); decided {
		net = sign * math.Abs(net)
	}

	ceiling := params.CeilingMinutes
	if ceiling <= 0 {
		ceiling = 60
	}
	bound := capSum
	if bound > ceiling {
		bound = ceiling
	}

	minutes := int(math.Round(net))
	minutes = clampInt(minutes, -bound, bound)

	out.Minutes = minutes
	out.ContributingConditionIDs = ids
	return out
}

// dominantSign resolves contradictory directions: when both positive and
// negative candidates are present, the highest-priority one fixes the net
// direction. Equal top priorities on both sides leave the weighted sum's
// own sign in place.
func dominantSign(candidates []AdjustmentCandidate) (float64, bool) {
	hasPos, hasNeg := false, false
	for _, c := range candidates {
		if c.TimeMinutes > 0 {
			hasPos = true
		}
		if c.TimeMinutes < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return 0, false
	}

	best := candidates[0]
	tied := false
	for _, c := range candidates[1:] {
		if c.TimeMinutes == 0 {
			continue
		}
		switch {
		case c.Priority > best.Priority:
			best = c
			tied = false
		case c.Priority == best.Priority && signOf(c.TimeMinutes) != signOf(best.TimeMinutes):
			tied = true
		}
	}
	if tied || best.TimeMinutes == 0 {
		return 0, false
	}
	return signOf(best.TimeMinutes), true
}

func signOf(v int) float64 {
	if v < 0 {
		return -1
	}
	if v > 0 {
		return 1
	}
	return 0
}
