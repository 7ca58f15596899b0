package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/types"
)

func weatherCondition(t *testing.T, enabled bool) Condition {
	t.Helper()
	p, err := ParsePredicate(types.OperatorContains, []byte(`"rain|drizzle"`))
	if err != nil {
		t.Fatalf("parse predicate: %v", err)
	}
	return Condition{
		BindingID:     uuid.New(),
		DefinitionID:  uuid.New(),
		Key:           "weather_rain_light",
		Type:          types.ConditionTypeWeather,
		Predicate:     p,
		TimeMinutes:   -15,
		MaxAdjustment: 30,
		Reason:        "Rainy commute needs extra time",
		Priority:      5,
		Enabled:       enabled,
		Effectiveness: 0.7,
	}
}

func snapshot() ContextSnapshot {
	return ContextSnapshot{
		TakenAt:          time.Now(),
		Weather:          "light rain through the morning",
		CalendarTitles:   []string{"Team standup", "Interview: staff engineer"},
		SleepDebtMinutes: 140,
		ActivityTags:     []string{"morning-run"},
	}
}

func TestEvaluate_MatchProducesCandidate(t *testing.T) {
	cond := weatherCondition(t, true)
	got, err := Evaluate(cond, snapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got == nil {
		t.Fatalf("expected candidate")
	}
	if got.TimeMinutes != -15 || got.Priority != 5 || got.Effectiveness != 0.7 {
		t.Fatalf("unexpected candidate: %+v", got)
	}
	if got.ConditionID != cond.DefinitionID {
		t.Fatalf("candidate must carry the definition id")
	}
}

func TestEvaluate_DisabledBindingProducesNothing(t *testing.T) {
	got, err := Evaluate(weatherCondition(t, false), snapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != nil {
		t.Fatalf("disabled condition must not produce a candidate, got %+v", got)
	}
}

func TestEvaluate_ClampsToMaxAdjustment(t *testing.T) {
	cond := weatherCondition(t, true)
	cond.TimeMinutes = -90
	cond.MaxAdjustment = 30
	got, err := Evaluate(cond, snapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got == nil || got.TimeMinutes != -30 {
		t.Fatalf("expected clamp to -30, got %+v", got)
	}
}

func TestEvaluate_MalformedPredicateErrors(t *testing.T) {
	cond := weatherCondition(t, true)
	cond.Predicate = Predicate{Operator: "between", Text: "a"}
	if _, err := Evaluate(cond, snapshot()); err == nil {
		t.Fatalf("expected error for malformed predicate")
	}
}

func TestEvaluate_SleepDebtNumeric(t *testing.T) {
	p, err := ParsePredicate(types.OperatorGreaterThan, []byte(`120`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cond := Condition{
		DefinitionID: uuid.New(), Key: "sleep_debt_high",
		Type: types.ConditionTypeSleepDebt, Predicate: p,
		TimeMinutes: 20, MaxAdjustment: 30, Priority: 6,
		Enabled: true, Effectiveness: 0.5,
	}

	got, err := Evaluate(cond, snapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got == nil || got.TimeMinutes != 20 {
		t.Fatalf("expected sleep debt candidate, got %+v", got)
	}

	low := snapshot()
	low.SleepDebtMinutes = 30
	got, err = Evaluate(cond, low)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no candidate below threshold, got %+v", got)
	}
}

func TestEvaluate_CalendarMatchesAnyTitle(t *testing.T) {
	p, err := ParsePredicate(types.OperatorContains, []byte(`"interview|flight"`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cond := Condition{
		DefinitionID: uuid.New(), Key: "calendar_important",
		Type: types.ConditionTypeCalendar, Predicate: p,
		TimeMinutes: -20, MaxAdjustment: 40, Priority: 9,
		Enabled: true, Effectiveness: 0.8,
	}
	got, err := Evaluate(cond, snapshot())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got == nil {
		t.Fatalf("expected calendar title match")
	}
}
