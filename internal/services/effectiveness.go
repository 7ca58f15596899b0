package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/keylock"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

const (
	// scoreEpsilon is the smallest movement worth persisting.
	scoreEpsilon = 1e-9
	// eventEpsilon is the smallest movement worth an audit event.
	eventEpsilon = 0.001
)

// EffectivenessService moves each enabled binding's effectiveness score
// toward the satisfaction signal derived from recent wake feedback.
type EffectivenessService interface {
	UpdateEffectiveness(ctx context.Context, alarmID uuid.UUID) error
}

type effectivenessService struct {
	alarmRepo    repos.AlarmRepo
	bindingRepo  repos.ConditionBindingRepo
	feedbackRepo repos.WakeFeedbackRepo
	eventRepo    repos.AdaptationEventRepo
	txRunner     TxRunner
	notifier     AdjustmentNotifier
	locks        *keylock.KeyLock
	log          *logger.Logger
}

func NewEffectivenessService(
	alarmRepo repos.AlarmRepo,
	bindingRepo repos.ConditionBindingRepo,
	feedbackRepo repos.WakeFeedbackRepo,
	eventRepo repos.AdaptationEventRepo,
	txRunner TxRunner,
	notifier AdjustmentNotifier,
	locks *keylock.KeyLock,
	baseLog *logger.Logger,
) EffectivenessService {
	return &effectivenessService{
		alarmRepo:    alarmRepo,
		bindingRepo:  bindingRepo,
		feedbackRepo: feedbackRepo,
		eventRepo:    eventRepo,
		txRunner:     txRunner,
		notifier:     notifier,
		locks:        locks,
		log:          baseLog.With("service", "effectiveness"),
	}
}

func (s *effectivenessService) UpdateEffectiveness(ctx context.Context, alarmID uuid.UUID) error {
	return s.locks.Do(alarmID, func() error {
		alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
		if err != nil {
			return fmt.Errorf("load alarm: %w", err)
		}
		if alarm == nil {
			return ErrAlarmNotFound
		}

		satisfaction, ok, err := loadSatisfaction(ctx, s.feedbackRepo, alarmID)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Info("no feedback yet, scores unchanged", "alarm_id", alarmID)
			return nil
		}

		moved := 0
		err = s.txRunner.Transaction(ctx, func(tx *gorm.DB) error {
			bindings, err := s.bindingRepo.GetByAlarmID(ctx, tx, alarmID)
			if err != nil {
				return fmt.Errorf("load bindings: %w", err)
			}

			events := make([]*types.AdaptationEvent, 0, len(bindings))
			for _, b := range bindings {
				if !b.IsEnabled {
					continue
				}
				next := scheduling.NudgeScore(b.EffectivenessScore, satisfaction, alarm.LearningFactor)
				if math.Abs(next-b.EffectivenessScore) <= scoreEpsilon {
					continue
				}
				if err := s.bindingRepo.UpdateFields(ctx, tx, b.ID, map[string]interface{}{
					"effectiveness_score": next,
				}); err != nil {
					return fmt.Errorf("update binding %s: %w", b.ID, err)
				}
				moved++
				if math.Abs(next-b.EffectivenessScore) > eventEpsilon {
					bindingID := b.ID
					detail, _ := json.Marshal(map[string]any{
						"from":         b.EffectivenessScore,
						"to":           next,
						"satisfaction": satisfaction,
					})
					events = append(events, &types.AdaptationEvent{
						AlarmID:   alarmID,
						BindingID: &bindingID,
						Change:    "effectiveness_updated",
						Detail:    datatypes.JSON(detail),
					})
				}
			}
			if len(events) > 0 {
				if _, err := s.eventRepo.Create(ctx, tx, events); err != nil {
					return fmt.Errorf("record adaptation events: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if moved > 0 {
			s.notifier.AdaptationRecorded(ctx, alarm.UserID, alarm.ID, "effectiveness_updated")
		}
		return nil
	})
}
