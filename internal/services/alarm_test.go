package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/types"
)

func newAlarm(e *env) AlarmService {
	return NewAlarmService(e.alarms, e.events, e.log)
}

func TestAlarmCreate_AppliesDefaults(t *testing.T) {
	e := newEnv()
	created, err := newAlarm(e).Create(context.Background(), &types.SmartAlarm{
		UserID:     uuid.New(),
		Label:      "weekday",
		WakeMinute: 6 * 60,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.LearningFactor != types.DefaultLearningFactor {
		t.Fatalf("expected default learning factor, got %v", created.LearningFactor)
	}
	if created.SleepPatternWeight != types.DefaultSleepPatternWeight {
		t.Fatalf("expected default sleep pattern weight, got %v", created.SleepPatternWeight)
	}
	if created.MaxShiftMinutes != types.DefaultMaxShiftMinutes {
		t.Fatalf("expected default max shift, got %v", created.MaxShiftMinutes)
	}
}

func TestAlarmUpdate_PartialAndClamped(t *testing.T) {
	e := newEnv()
	svc := newAlarm(e)
	alarm := e.addAlarm(t, nil)

	lf := 0.9 // above the allowed ceiling
	label := "early shift"
	updated, err := svc.Update(context.Background(), alarm.ID, AlarmUpdate{
		Label:          &label,
		LearningFactor: &lf,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Label != "early shift" {
		t.Fatalf("label not updated: %q", updated.Label)
	}
	if updated.LearningFactor != types.MaxLearningFactor {
		t.Fatalf("learning factor not clamped: %v", updated.LearningFactor)
	}
	// Untouched fields keep their values.
	if updated.WakeMinute != alarm.WakeMinute {
		t.Fatalf("wake minute changed unexpectedly")
	}

	stored, _ := e.alarms.GetByID(context.Background(), nil, alarm.ID)
	if stored.LearningFactor != types.MaxLearningFactor || stored.Label != "early shift" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestAlarmDelete_ThenMissing(t *testing.T) {
	e := newEnv()
	svc := newAlarm(e)
	alarm := e.addAlarm(t, nil)

	if err := svc.Delete(context.Background(), alarm.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), alarm.ID); !errors.Is(err, ErrAlarmNotFound) {
		t.Fatalf("expected ErrAlarmNotFound after delete, got %v", err)
	}
}
