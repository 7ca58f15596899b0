package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/jobs/runtime"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type stubEffectiveness struct {
	mu     sync.Mutex
	called []uuid.UUID
	err    error
}

func (s *stubEffectiveness) UpdateEffectiveness(_ context.Context, alarmID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, alarmID)
	return s.err
}

type stubValidation struct {
	mu     sync.Mutex
	called []uuid.UUID
	errFor map[uuid.UUID]error
}

func (s *stubValidation) Validate(_ context.Context, alarmID uuid.UUID) (*services.ValidationReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, alarmID)
	if err, ok := s.errFor[alarmID]; ok {
		return nil, err
	}
	return &services.ValidationReport{AlarmID: alarmID, Score: 80, Grade: services.GradeGood}, nil
}

type stubOptimizer struct {
	mu     sync.Mutex
	called []uuid.UUID
}

func (s *stubOptimizer) Optimize(_ context.Context, alarmID uuid.UUID) (*services.OptimizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.called = append(s.called, alarmID)
	return &services.OptimizeResult{AlarmID: alarmID}, nil
}

func (s *stubOptimizer) Suggest(_ context.Context, _ uuid.UUID) ([]services.Suggestion, error) {
	return nil, nil
}

type stubAlarmRepo struct {
	alarms map[uuid.UUID]*types.SmartAlarm
}

func (r *stubAlarmRepo) Create(_ context.Context, _ *gorm.DB, alarm *types.SmartAlarm) (*types.SmartAlarm, error) {
	return alarm, nil
}

func (r *stubAlarmRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.SmartAlarm, error) {
	return r.alarms[id], nil
}

func (r *stubAlarmRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.SmartAlarm, error) {
	var out []*types.SmartAlarm
	for _, a := range r.alarms {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAlarmRepo) ListEnabled(_ context.Context, _ *gorm.DB) ([]*types.SmartAlarm, error) {
	return nil, nil
}

func (r *stubAlarmRepo) UpdateFields(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ map[string]interface{}) error {
	return nil
}

func (r *stubAlarmRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, _ uuid.UUID) error { return nil }

func testEnv(eff *stubEffectiveness, val *stubValidation, opt *stubOptimizer, alarms *stubAlarmRepo) *runtime.Env {
	if alarms == nil {
		alarms = &stubAlarmRepo{alarms: map[uuid.UUID]*types.SmartAlarm{}}
	}
	return &runtime.Env{
		Log:           logger.NewNop(),
		AlarmRepo:     alarms,
		Effectiveness: eff,
		Validation:    val,
		Optimizer:     opt,
		Notifier:      services.NopNotifier{},
	}
}

func payload(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return datatypes.JSON(raw)
}

func TestEffectivenessUpdate_RunsForPayloadAlarm(t *testing.T) {
	eff := &stubEffectiveness{}
	env := testEnv(eff, &stubValidation{}, &stubOptimizer{}, nil)
	alarmID := uuid.New()

	job := &types.JobRun{
		JobType: types.JobTypeEffectivenessUpdate,
		Payload: payload(t, map[string]any{"alarm_id": alarmID}),
	}
	if _, err := (EffectivenessUpdateHandler{}).Run(context.Background(), env, job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eff.called) != 1 || eff.called[0] != alarmID {
		t.Fatalf("expected one update for %s, got %v", alarmID, eff.called)
	}
}

func TestEffectivenessUpdate_FallsBackToEntityID(t *testing.T) {
	eff := &stubEffectiveness{}
	env := testEnv(eff, &stubValidation{}, &stubOptimizer{}, nil)
	alarmID := uuid.New()

	job := &types.JobRun{
		JobType:  types.JobTypeEffectivenessUpdate,
		EntityID: alarmID,
		Payload:  payload(t, map[string]any{}),
	}
	if _, err := (EffectivenessUpdateHandler{}).Run(context.Background(), env, job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(eff.called) != 1 || eff.called[0] != alarmID {
		t.Fatalf("expected entity fallback, got %v", eff.called)
	}
}

func TestConfigReview_SingleAlarm(t *testing.T) {
	val := &stubValidation{}
	opt := &stubOptimizer{}
	env := testEnv(&stubEffectiveness{}, val, opt, nil)
	alarmID := uuid.New()

	job := &types.JobRun{
		JobType: types.JobTypeConfigReview,
		Payload: payload(t, map[string]any{"alarm_id": alarmID}),
	}
	if _, err := (ConfigReviewHandler{}).Run(context.Background(), env, job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(val.called) != 1 || len(opt.called) != 1 {
		t.Fatalf("expected one validate and one optimize, got %d/%d", len(val.called), len(opt.called))
	}
}

func TestConfigReview_AllUserAlarms(t *testing.T) {
	userID := uuid.New()
	alarms := &stubAlarmRepo{alarms: map[uuid.UUID]*types.SmartAlarm{}}
	for i := 0; i < 5; i++ {
		id := uuid.New()
		alarms.alarms[id] = &types.SmartAlarm{ID: id, UserID: userID}
	}
	val := &stubValidation{}
	opt := &stubOptimizer{}
	env := testEnv(&stubEffectiveness{}, val, opt, alarms)

	job := &types.JobRun{
		JobType: types.JobTypeConfigReview,
		Payload: payload(t, map[string]any{"user_id": userID}),
	}
	if _, err := (ConfigReviewHandler{}).Run(context.Background(), env, job); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(val.called) != 5 || len(opt.called) != 5 {
		t.Fatalf("expected 5 reviews, got %d/%d", len(val.called), len(opt.called))
	}
}

func TestConfigReview_MissingAlarmIsSkipped(t *testing.T) {
	alarmID := uuid.New()
	val := &stubValidation{errFor: map[uuid.UUID]error{alarmID: services.ErrAlarmNotFound}}
	env := testEnv(&stubEffectiveness{}, val, &stubOptimizer{}, nil)

	job := &types.JobRun{
		JobType: types.JobTypeConfigReview,
		Payload: payload(t, map[string]any{"alarm_id": alarmID}),
	}
	if _, err := (ConfigReviewHandler{}).Run(context.Background(), env, job); err != nil {
		t.Fatalf("vanished alarm should not fail the job: %v", err)
	}
}

func TestConfigReview_EmptyPayloadErrors(t *testing.T) {
	env := testEnv(&stubEffectiveness{}, &stubValidation{}, &stubOptimizer{}, nil)
	job := &types.JobRun{
		JobType: types.JobTypeConfigReview,
		Payload: payload(t, map[string]any{}),
	}
	if _, err := (ConfigReviewHandler{}).Run(context.Background(), env, job); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
