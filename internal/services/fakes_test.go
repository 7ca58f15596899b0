package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/types"
)

// In-memory repo fakes. UpdateFields mirrors the column names the real
// repos use so the services can be exercised without a database.

type fakeAlarmRepo struct {
	alarms map[uuid.UUID]*types.SmartAlarm
}

func newFakeAlarmRepo() *fakeAlarmRepo {
	return &fakeAlarmRepo{alarms: make(map[uuid.UUID]*types.SmartAlarm)}
}

func (r *fakeAlarmRepo) Create(_ context.Context, _ *gorm.DB, alarm *types.SmartAlarm) (*types.SmartAlarm, error) {
	if alarm.ID == uuid.Nil {
		alarm.ID = uuid.New()
	}
	alarm.ClampTuning()
	r.alarms[alarm.ID] = alarm
	return alarm, nil
}

func (r *fakeAlarmRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.SmartAlarm, error) {
	a, ok := r.alarms[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAlarmRepo) GetByUserID(_ context.Context, _ *gorm.DB, userID uuid.UUID) ([]*types.SmartAlarm, error) {
	var out []*types.SmartAlarm
	for _, a := range r.alarms {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAlarmRepo) ListEnabled(_ context.Context, _ *gorm.DB) ([]*types.SmartAlarm, error) {
	var out []*types.SmartAlarm
	for _, a := range r.alarms {
		if a.IsEnabled {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAlarmRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	a, ok := r.alarms[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "label":
			a.Label = v.(string)
		case "wake_minute":
			a.WakeMinute = v.(int)
		case "learning_factor":
			a.LearningFactor = v.(float64)
		case "sleep_pattern_weight":
			a.SleepPatternWeight = v.(float64)
		case "real_time_adaptation":
			a.RealTimeAdaptation = v.(bool)
		case "dynamic_wake_window":
			a.DynamicWakeWindow = v.(bool)
		case "max_shift_minutes":
			a.MaxShiftMinutes = v.(int)
		case "is_enabled":
			a.IsEnabled = v.(bool)
		}
	}
	return nil
}

func (r *fakeAlarmRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.alarms, id)
	return nil
}

type fakeBindingRepo struct {
	bindings map[uuid.UUID]*types.ConditionBinding
}

func newFakeBindingRepo() *fakeBindingRepo {
	return &fakeBindingRepo{bindings: make(map[uuid.UUID]*types.ConditionBinding)}
}

func (r *fakeBindingRepo) Create(_ context.Context, _ *gorm.DB, binding *types.ConditionBinding) (*types.ConditionBinding, error) {
	if binding.ID == uuid.Nil {
		binding.ID = uuid.New()
	}
	r.bindings[binding.ID] = binding
	return binding, nil
}

func (r *fakeBindingRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.ConditionBinding, error) {
	b, ok := r.bindings[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBindingRepo) GetByAlarmID(_ context.Context, _ *gorm.DB, alarmID uuid.UUID) ([]*types.ConditionBinding, error) {
	var out []*types.ConditionBinding
	for _, b := range r.bindings {
		if b.AlarmID == alarmID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBindingRepo) GetByAlarmAndDefinition(_ context.Context, _ *gorm.DB, alarmID, definitionID uuid.UUID) (*types.ConditionBinding, error) {
	for _, b := range r.bindings {
		if b.AlarmID == alarmID && b.DefinitionID == definitionID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBindingRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	b, ok := r.bindings[id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		switch k {
		case "is_enabled":
			b.IsEnabled = v.(bool)
		case "effectiveness_score":
			b.EffectivenessScore = v.(float64)
		case "time_minutes":
			b.TimeMinutes = v.(int)
		case "max_adjustment":
			b.MaxAdjustment = v.(int)
		}
	}
	return nil
}

func (r *fakeBindingRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.bindings, id)
	return nil
}

type fakeDefRepo struct {
	defs map[uuid.UUID]*types.ConditionDefinition
}

func newFakeDefRepo() *fakeDefRepo {
	return &fakeDefRepo{defs: make(map[uuid.UUID]*types.ConditionDefinition)}
}

func (r *fakeDefRepo) Create(_ context.Context, _ *gorm.DB, def *types.ConditionDefinition) (*types.ConditionDefinition, error) {
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	r.defs[def.ID] = def
	return def, nil
}

func (r *fakeDefRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.ConditionDefinition, error) {
	d, ok := r.defs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDefRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.ConditionDefinition, error) {
	var out []*types.ConditionDefinition
	for _, id := range ids {
		if d, ok := r.defs[id]; ok {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeDefRepo) GetByKey(_ context.Context, _ *gorm.DB, key string) (*types.ConditionDefinition, error) {
	for _, d := range r.defs {
		if d.Key == key {
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDefRepo) List(_ context.Context, _ *gorm.DB) ([]*types.ConditionDefinition, error) {
	var out []*types.ConditionDefinition
	for _, d := range r.defs {
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (r *fakeDefRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.defs, id)
	return nil
}

type fakeFeedbackRepo struct {
	entries []*types.WakeFeedback
}

func (r *fakeFeedbackRepo) Create(_ context.Context, _ *gorm.DB, entries []*types.WakeFeedback) ([]*types.WakeFeedback, error) {
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		r.entries = append(r.entries, e)
	}
	return entries, nil
}

func (r *fakeFeedbackRepo) GetRecentByAlarmID(_ context.Context, _ *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.WakeFeedback, error) {
	var matched []*types.WakeFeedback
	for _, e := range r.entries {
		if e.AlarmID == alarmID {
			matched = append(matched, e)
		}
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

type fakeEventRepo struct {
	events []*types.AdaptationEvent
}

func (r *fakeEventRepo) Create(_ context.Context, _ *gorm.DB, events []*types.AdaptationEvent) ([]*types.AdaptationEvent, error) {
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now()
		}
		r.events = append(r.events, e)
	}
	return events, nil
}

func (r *fakeEventRepo) GetRecentByAlarmID(_ context.Context, _ *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.AdaptationEvent, error) {
	var out []*types.AdaptationEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].AlarmID == alarmID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *fakeEventRepo) CountSince(_ context.Context, _ *gorm.DB, alarmID uuid.UUID, since time.Time) (int64, error) {
	var n int64
	for _, e := range r.events {
		if e.AlarmID == alarmID && !e.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeJobRepo struct {
	jobs []*types.JobRun
}

func (r *fakeJobRepo) Create(_ context.Context, _ *gorm.DB, jobs []*types.JobRun) ([]*types.JobRun, error) {
	for _, j := range jobs {
		if j.ID == uuid.Nil {
			j.ID = uuid.New()
		}
		r.jobs = append(r.jobs, j)
	}
	return jobs, nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*types.JobRun, error) {
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) GetLatestByEntity(_ context.Context, _ *gorm.DB, entityType string, entityID uuid.UUID, jobType string) (*types.JobRun, error) {
	for i := len(r.jobs) - 1; i >= 0; i-- {
		j := r.jobs[i]
		if j.EntityType == entityType && j.EntityID == entityID && j.JobType == jobType {
			return j, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) ClaimNextRunnable(_ context.Context, _ *gorm.DB, _ int, _ time.Duration, _ time.Duration) (*types.JobRun, error) {
	for _, j := range r.jobs {
		if j.Status == types.JobStatusQueued {
			j.Status = types.JobStatusRunning
			j.Attempts++
			return j, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	for _, j := range r.jobs {
		if j.ID == id {
			if v, ok := updates["status"]; ok {
				j.Status = v.(string)
			}
			if v, ok := updates["last_error"]; ok {
				j.LastError = v.(string)
			}
		}
	}
	return nil
}

func (r *fakeJobRepo) Heartbeat(_ context.Context, _ *gorm.DB, _ uuid.UUID) error { return nil }

// fakeTxRunner runs the function directly; the fakes ignore the tx handle.
type fakeTxRunner struct{}

func (fakeTxRunner) Transaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
