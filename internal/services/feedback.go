package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// FeedbackService ingests wake feedback and queues the effectiveness update
// that learns from it.
type FeedbackService interface {
	Record(ctx context.Context, alarmID uuid.UUID, feeling string, wokeAt time.Time) (*types.WakeFeedback, error)
	ListRecent(ctx context.Context, alarmID uuid.UUID) ([]*types.WakeFeedback, error)
}

type feedbackService struct {
	alarmRepo    repos.AlarmRepo
	feedbackRepo repos.WakeFeedbackRepo
	jobRepo      repos.JobRunRepo
	log          *logger.Logger
}

func NewFeedbackService(
	alarmRepo repos.AlarmRepo,
	feedbackRepo repos.WakeFeedbackRepo,
	jobRepo repos.JobRunRepo,
	baseLog *logger.Logger,
) FeedbackService {
	return &feedbackService{
		alarmRepo:    alarmRepo,
		feedbackRepo: feedbackRepo,
		jobRepo:      jobRepo,
		log:          baseLog.With("service", "feedback"),
	}
}

func (s *feedbackService) Record(ctx context.Context, alarmID uuid.UUID, feeling string, wokeAt time.Time) (*types.WakeFeedback, error) {
	if !types.ValidFeeling(feeling) {
		return nil, ErrInvalidFeeling
	}
	alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}
	if wokeAt.IsZero() {
		wokeAt = time.Now()
	}

	created, err := s.feedbackRepo.Create(ctx, nil, []*types.WakeFeedback{{
		AlarmID: alarmID,
		Feeling: feeling,
		WokeAt:  wokeAt,
	}})
	if err != nil {
		return nil, fmt.Errorf("record feedback: %w", err)
	}

	payload, _ := json.Marshal(map[string]any{"alarm_id": alarmID})
	if _, err := s.jobRepo.Create(ctx, nil, []*types.JobRun{{
		JobType:    types.JobTypeEffectivenessUpdate,
		EntityType: "smart_alarm",
		EntityID:   alarmID,
		Status:     types.JobStatusQueued,
		Payload:    datatypes.JSON(payload),
	}}); err != nil {
		// Feedback is already stored; the next review pass picks it up.
		s.log.Error("enqueue effectiveness update failed", "alarm_id", alarmID, "error", err)
	}

	return created[0], nil
}

func (s *feedbackService) ListRecent(ctx context.Context, alarmID uuid.UUID) ([]*types.WakeFeedback, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}
	return s.feedbackRepo.GetRecentByAlarmID(ctx, nil, alarmID, scheduling.RecentFeedbackWindow)
}
