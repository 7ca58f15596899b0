package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/platform/apierr"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

func newCondition(e *env) ConditionService {
	return NewConditionService(e.alarms, e.defs, e.bindings, e.log)
}

func TestSeedBuiltins_PopulatesAndIsIdempotent(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)

	if err := svc.SeedBuiltins(context.Background(), ""); err != nil {
		t.Fatalf("seed: %v", err)
	}
	defs, err := svc.ListDefinitions(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := len(scheduling.BuiltinTemplates())
	if len(defs) != want {
		t.Fatalf("expected %d definitions, got %d", want, len(defs))
	}
	for _, d := range defs {
		if !d.BuiltIn {
			t.Fatalf("seeded definition %q not marked built-in", d.Key)
		}
		if _, err := scheduling.ParsePredicate(d.Operator, d.Value); err != nil {
			t.Fatalf("seeded definition %q does not round-trip: %v", d.Key, err)
		}
	}

	// Second seed changes nothing.
	if err := svc.SeedBuiltins(context.Background(), ""); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	again, _ := svc.ListDefinitions(context.Background())
	if len(again) != want {
		t.Fatalf("reseed grew the catalog: %d", len(again))
	}
}

func TestCreateDefinition_RejectsDuplicateKeyAndBadTemplate(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)

	tpl := scheduling.Template{
		Key:           "weather_fog",
		Type:          types.ConditionTypeWeather,
		Operator:      types.OperatorContains,
		Value:         "fog",
		TimeMinutes:   -10,
		MaxAdjustment: 20,
		Reason:        "fog slows the commute",
		Priority:      3,
	}
	if _, err := svc.CreateDefinition(context.Background(), tpl); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateDefinition(context.Background(), tpl)
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected conflict on duplicate key, got %v", err)
	}

	bad := tpl
	bad.Key = "weather_bad"
	bad.Operator = "matches"
	_, err = svc.CreateDefinition(context.Background(), bad)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected bad request on unknown operator, got %v", err)
	}
}

func TestAttach_CopiesMagnitudes(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)
	alarm := e.addAlarm(t, nil)
	def := e.addDefinition(t, "weather_snow", types.ConditionTypeWeather, types.OperatorContains, "snow", -30, 45, 8)

	binding, err := svc.Attach(context.Background(), alarm.ID, def.ID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if binding.TimeMinutes != -30 || binding.MaxAdjustment != 45 {
		t.Fatalf("magnitudes not copied: %+v", binding)
	}
	if binding.EffectivenessScore != 0.5 {
		t.Fatalf("expected neutral starting score, got %v", binding.EffectivenessScore)
	}
	if !binding.IsEnabled {
		t.Fatalf("new binding should start enabled")
	}
}

func TestAttach_Rejections(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)
	alarm := e.addAlarm(t, nil)
	def := e.addDefinition(t, "weather_snow", types.ConditionTypeWeather, types.OperatorContains, "snow", -30, 45, 8)

	if _, err := svc.Attach(context.Background(), uuid.New(), def.ID); !errors.Is(err, ErrAlarmNotFound) {
		t.Fatalf("expected ErrAlarmNotFound, got %v", err)
	}
	if _, err := svc.Attach(context.Background(), alarm.ID, uuid.New()); !errors.Is(err, ErrDefinitionNotFound) {
		t.Fatalf("expected ErrDefinitionNotFound, got %v", err)
	}
	if _, err := svc.Attach(context.Background(), alarm.ID, def.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, err := svc.Attach(context.Background(), alarm.ID, def.ID); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
}

func TestSetEnabled_Toggles(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)
	alarm := e.addAlarm(t, nil)
	def := e.addDefinition(t, "weather_snow", types.ConditionTypeWeather, types.OperatorContains, "snow", -30, 45, 8)
	if _, err := svc.Attach(context.Background(), alarm.ID, def.ID); err != nil {
		t.Fatalf("attach: %v", err)
	}

	binding, err := svc.SetEnabled(context.Background(), alarm.ID, def.ID, false)
	if err != nil {
		t.Fatalf("disable: %v", err)
	}
	if binding.IsEnabled {
		t.Fatalf("binding still enabled")
	}
	binding, err = svc.SetEnabled(context.Background(), alarm.ID, def.ID, true)
	if err != nil {
		t.Fatalf("enable: %v", err)
	}
	if !binding.IsEnabled {
		t.Fatalf("binding still disabled")
	}
}

func TestDetach_MissingBinding(t *testing.T) {
	e := newEnv()
	svc := newCondition(e)
	alarm := e.addAlarm(t, nil)

	if err := svc.Detach(context.Background(), alarm.ID, uuid.New()); !errors.Is(err, ErrBindingNotFound) {
		t.Fatalf("expected ErrBindingNotFound, got %v", err)
	}
}
