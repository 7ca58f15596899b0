package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lumawake/lumawake-backend/internal/platform/keylock"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type env struct {
	alarms   *fakeAlarmRepo
	bindings *fakeBindingRepo
	defs     *fakeDefRepo
	feedback *fakeFeedbackRepo
	events   *fakeEventRepo
	jobs     *fakeJobRepo
	locks    *keylock.KeyLock
	log      *logger.Logger
}

func newEnv() *env {
	return &env{
		alarms:   newFakeAlarmRepo(),
		bindings: newFakeBindingRepo(),
		defs:     newFakeDefRepo(),
		feedback: &fakeFeedbackRepo{},
		events:   &fakeEventRepo{},
		jobs:     &fakeJobRepo{},
		locks:    keylock.New(),
		log:      logger.NewNop(),
	}
}

func (e *env) addAlarm(t *testing.T, mutate func(*types.SmartAlarm)) *types.SmartAlarm {
	t.Helper()
	alarm := &types.SmartAlarm{
		UserID:             uuid.New(),
		Label:              "weekday",
		WakeMinute:         7 * 60,
		LearningFactor:     types.DefaultLearningFactor,
		SleepPatternWeight: types.DefaultSleepPatternWeight,
		MaxShiftMinutes:    types.DefaultMaxShiftMinutes,
		IsEnabled:          true,
	}
	if mutate != nil {
		mutate(alarm)
	}
	created, err := e.alarms.Create(context.Background(), nil, alarm)
	if err != nil {
		t.Fatalf("create alarm: %v", err)
	}
	return created
}

func (e *env) addDefinition(t *testing.T, key, condType, operator string, value any, timeMinutes, maxAdjustment, priority int) *types.ConditionDefinition {
	t.Helper()
	raw, err := scheduling.EncodeValue(value)
	if err != nil {
		t.Fatalf("encode value: %v", err)
	}
	def := &types.ConditionDefinition{
		Key:           key,
		Type:          condType,
		Operator:      operator,
		Value:         datatypes.JSON(raw),
		TimeMinutes:   timeMinutes,
		MaxAdjustment: maxAdjustment,
		Reason:        "test condition " + key,
		Priority:      priority,
	}
	created, err := e.defs.Create(context.Background(), nil, def)
	if err != nil {
		t.Fatalf("create definition: %v", err)
	}
	return created
}

func (e *env) bind(t *testing.T, alarmID, definitionID uuid.UUID, enabled bool, score float64, timeMinutes, maxAdjustment int) *types.ConditionBinding {
	t.Helper()
	binding := &types.ConditionBinding{
		AlarmID:            alarmID,
		DefinitionID:       definitionID,
		IsEnabled:          enabled,
		EffectivenessScore: score,
		TimeMinutes:        timeMinutes,
		MaxAdjustment:      maxAdjustment,
		CreatedAt:          time.Now(),
	}
	created, err := e.bindings.Create(context.Background(), nil, binding)
	if err != nil {
		t.Fatalf("create binding: %v", err)
	}
	return created
}

func (e *env) addFeedback(t *testing.T, alarmID uuid.UUID, feeling string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := e.feedback.Create(context.Background(), nil, []*types.WakeFeedback{{
			AlarmID: alarmID,
			Feeling: feeling,
			WokeAt:  time.Now(),
		}})
		if err != nil {
			t.Fatalf("create feedback: %v", err)
		}
	}
}
