package scheduling

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/types"
)

// Condition is the evaluator's input: one alarm's binding merged with its
// definition. The adjustment magnitudes come from the binding (the
// optimizer damps those per alarm), the predicate from the definition.
type Condition struct {
	BindingID     uuid.UUID
	DefinitionID  uuid.UUID
	Key           string
	Type          string
	Predicate     Predicate
	TimeMinutes   int
	MaxAdjustment int
	Reason        string
	Priority      int
	Enabled       bool
	Effectiveness float64
}

// AdjustmentCandidate is one active condition's proposed shift.
type AdjustmentCandidate struct {
	ConditionID   uuid.UUID `json:"condition_id"`
	Key           string    `json:"key"`
	TimeMinutes   int       `json:"time_minutes"`
	MaxAdjustment int       `json:"max_adjustment"`
	Priority      int       `json:"priority"`
	Effectiveness float64   `json:"effectiveness"`
	Reason        string    `json:"reason"`
}

// Evaluate decides whether one condition is active for the snapshot.
// Disabled conditions and non-matches return (nil, nil). A malformed
// predicate returns an error; the caller skips the condition and keeps
// evaluating the rest of the alarm's set.
func Evaluate(cond Condition, snap ContextSnapshot) (*AdjustmentCandidate, error) {
	if !cond.Enabled {
		return nil, nil
	}
	if err := cond.Predicate.Validate(); err != nil {
		return nil, fmt.Errorf("condition %s: %w", cond.Key, err)
	}

	if !conditionMatches(cond, snap) {
		return nil, nil
	}

	minutes := clampInt(cond.TimeMinutes, -cond.MaxAdjustment, cond.MaxAdjustment)
	return &AdjustmentCandidate{
		ConditionID:   cond.DefinitionID,
		Key:           cond.Key,
		TimeMinutes:   minutes,
		MaxAdjustment: cond.MaxAdjustment,
		Priority:      cond.Priority,
		Effectiveness: cond.Effectiveness,
		Reason:        cond.Reason,
	}, nil
}

func conditionMatches(cond Condition, snap ContextSnapshot) bool {
	switch cond.Type {
	case types.ConditionTypeWeather:
		return cond.Predicate.MatchesText(snap.Weather)
	case types.ConditionTypeCalendar:
		return cond.Predicate.MatchesText(strings.Join(snap.CalendarTitles, "\n"))
	case types.ConditionTypeSleepDebt:
		return cond.Predicate.MatchesNumber(snap.SleepDebtMinutes)
	case types.ConditionTypeExercise:
		return cond.Predicate.MatchesText(strings.Join(snap.ActivityTags, "\n"))
	case types.ConditionTypeCustom:
		// Custom conditions match numerically against sleep debt or
		// textually against the whole snapshot, depending on the operator.
		switch cond.Predicate.Operator {
		case types.OperatorGreaterThan, types.OperatorLessThan:
			return cond.Predicate.MatchesNumber(snap.SleepDebtMinutes)
		default:
			all := strings.Join(append(append([]string{snap.Weather}, snap.CalendarTitles...), snap.ActivityTags...), "\n")
			return cond.Predicate.MatchesText(all)
		}
	default:
		return false
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
