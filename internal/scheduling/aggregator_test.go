package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func candidate(minutes, maxAdj, priority int, eff float64) AdjustmentCandidate {
	return AdjustmentCandidate{
		ConditionID:   uuid.New(),
		TimeMinutes:   minutes,
		MaxAdjustment: maxAdj,
		Priority:      priority,
		Effectiveness: eff,
	}
}

func TestAggregate_EmptyIsZero(t *testing.T) {
	got := Aggregate(nil, AggregationParams{CeilingMinutes: 60}, time.Now())
	if got.Minutes != 0 || len(got.ContributingConditionIDs) != 0 {
		t.Fatalf("expected zero adjustment, got %+v", got)
	}
}

func TestAggregate_WeightedSumWithRealTimeAdaptation(t *testing.T) {
	// -20*0.8 + -10*0.5 = -21, scaled by (1-0.3) = -14.7 -> -15
	cands := []AdjustmentCandidate{
		candidate(-20, 40, 9, 0.8),
		candidate(-10, 20, 4, 0.5),
	}
	params := AggregationParams{SleepPatternWeight: 0.3, RealTimeAdaptation: true, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes != -15 {
		t.Fatalf("expected -15, got %d", got.Minutes)
	}
	if len(got.ContributingConditionIDs) != 2 {
		t.Fatalf("expected both conditions to contribute")
	}
}

func TestAggregate_ConservativeScaleWithoutRealTime(t *testing.T) {
	// -20*0.8 = -16, scaled by 0.5 -> -8
	cands := []AdjustmentCandidate{candidate(-20, 40, 9, 0.8)}
	params := AggregationParams{SleepPatternWeight: 0.3, RealTimeAdaptation: false, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes != -8 {
		t.Fatalf("expected -8, got %d", got.Minutes)
	}
}

func TestAggregate_CeilingHoldsUnderManyLargeCandidates(t *testing.T) {
	var cands []AdjustmentCandidate
	for i := 0; i < 20; i++ {
		cands = append(cands, candidate(-45, 45, 5, 1.0))
	}
	params := AggregationParams{SleepPatternWeight: 0, RealTimeAdaptation: true, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes != -60 {
		t.Fatalf("expected ceiling clamp to -60, got %d", got.Minutes)
	}
}

func TestAggregate_CapSumTighterThanCeiling(t *testing.T) {
	// Single candidate with a small cap: |final| must not exceed 10.
	cands := []AdjustmentCandidate{candidate(-10, 10, 5, 1.0)}
	params := AggregationParams{SleepPatternWeight: 0, RealTimeAdaptation: true, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes != -10 {
		t.Fatalf("expected -10, got %d", got.Minutes)
	}
}

func TestAggregate_PrioritySignDominatesConflicts(t *testing.T) {
	// Sleep debt pushes later (+20, priority 6), weather pushes earlier
	// (-15, priority 5). Net direction follows the higher priority.
	cands := []AdjustmentCandidate{
		candidate(20, 30, 6, 1.0),
		candidate(-15, 30, 5, 1.0),
	}
	params := AggregationParams{SleepPatternWeight: 0, RealTimeAdaptation: true, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes <= 0 {
		t.Fatalf("expected positive shift from priority dominance, got %d", got.Minutes)
	}
	// Magnitude stays the weighted sum: |20 - 15| = 5.
	if got.Minutes != 5 {
		t.Fatalf("expected magnitude 5, got %d", got.Minutes)
	}
}

func TestAggregate_EqualPriorityConflictKeepsWeightedSign(t *testing.T) {
	cands := []AdjustmentCandidate{
		candidate(30, 40, 5, 1.0),
		candidate(-10, 20, 5, 1.0),
	}
	params := AggregationParams{SleepPatternWeight: 0, RealTimeAdaptation: true, CeilingMinutes: 60}
	got := Aggregate(cands, params, time.Now())
	if got.Minutes != 20 {
		t.Fatalf("expected weighted-sum sign to hold, got %d", got.Minutes)
	}
}
