package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// AlarmUpdate carries a partial update. Nil fields are left untouched.
type AlarmUpdate struct {
	Label              *string  `json:"label,omitempty"`
	WakeMinute         *int     `json:"wake_minute,omitempty"`
	LearningFactor     *float64 `json:"learning_factor,omitempty"`
	SleepPatternWeight *float64 `json:"sleep_pattern_weight,omitempty"`
	RealTimeAdaptation *bool    `json:"real_time_adaptation,omitempty"`
	DynamicWakeWindow  *bool    `json:"dynamic_wake_window,omitempty"`
	MaxShiftMinutes    *int     `json:"max_shift_minutes,omitempty"`
	IsEnabled          *bool    `json:"is_enabled,omitempty"`
}

type AlarmService interface {
	Create(ctx context.Context, alarm *types.SmartAlarm) (*types.SmartAlarm, error)
	Get(ctx context.Context, id uuid.UUID) (*types.SmartAlarm, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.SmartAlarm, error)
	Update(ctx context.Context, id uuid.UUID, update AlarmUpdate) (*types.SmartAlarm, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListAdaptations(ctx context.Context, id uuid.UUID, limit int) ([]*types.AdaptationEvent, error)
}

type alarmService struct {
	alarmRepo repos.AlarmRepo
	eventRepo repos.AdaptationEventRepo
	log       *logger.Logger
}

func NewAlarmService(alarmRepo repos.AlarmRepo, eventRepo repos.AdaptationEventRepo, baseLog *logger.Logger) AlarmService {
	return &alarmService{
		alarmRepo: alarmRepo,
		eventRepo: eventRepo,
		log:       baseLog.With("service", "alarm"),
	}
}

func (s *alarmService) Create(ctx context.Context, alarm *types.SmartAlarm) (*types.SmartAlarm, error) {
	if alarm.LearningFactor == 0 {
		alarm.LearningFactor = types.DefaultLearningFactor
	}
	if alarm.SleepPatternWeight == 0 {
		alarm.SleepPatternWeight = types.DefaultSleepPatternWeight
	}
	created, err := s.alarmRepo.Create(ctx, nil, alarm)
	if err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}
	s.log.Info("alarm created", "alarm_id", created.ID, "user_id", created.UserID)
	return created, nil
}

func (s *alarmService) Get(ctx context.Context, id uuid.UUID) (*types.SmartAlarm, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}
	return alarm, nil
}

func (s *alarmService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.SmartAlarm, error) {
	return s.alarmRepo.GetByUserID(ctx, nil, userID)
}

func (s *alarmService) Update(ctx context.Context, id uuid.UUID, update AlarmUpdate) (*types.SmartAlarm, error) {
	alarm, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Label != nil {
		alarm.Label = *update.Label
	}
	if update.WakeMinute != nil {
		alarm.WakeMinute = *update.WakeMinute
	}
	if update.LearningFactor != nil {
		alarm.LearningFactor = *update.LearningFactor
	}
	if update.SleepPatternWeight != nil {
		alarm.SleepPatternWeight = *update.SleepPatternWeight
	}
	if update.RealTimeAdaptation != nil {
		alarm.RealTimeAdaptation = *update.RealTimeAdaptation
	}
	if update.DynamicWakeWindow != nil {
		alarm.DynamicWakeWindow = *update.DynamicWakeWindow
	}
	if update.MaxShiftMinutes != nil {
		alarm.MaxShiftMinutes = *update.MaxShiftMinutes
	}
	if update.IsEnabled != nil {
		alarm.IsEnabled = *update.IsEnabled
	}
	alarm.ClampTuning()

	err = s.alarmRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"label":                alarm.Label,
		"wake_minute":          alarm.WakeMinute,
		"learning_factor":      alarm.LearningFactor,
		"sleep_pattern_weight": alarm.SleepPatternWeight,
		"real_time_adaptation": alarm.RealTimeAdaptation,
		"dynamic_wake_window":  alarm.DynamicWakeWindow,
		"max_shift_minutes":    alarm.MaxShiftMinutes,
		"is_enabled":           alarm.IsEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}
	return alarm, nil
}

func (s *alarmService) Delete(ctx context.Context, id uuid.UUID) error {
	alarm, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.alarmRepo.SoftDeleteByID(ctx, nil, alarm.ID); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}
	s.log.Info("alarm deleted", "alarm_id", id)
	return nil
}

func (s *alarmService) ListAdaptations(ctx context.Context, id uuid.UUID, limit int) ([]*types.AdaptationEvent, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.eventRepo.GetRecentByAlarmID(ctx, nil, id, limit)
}
