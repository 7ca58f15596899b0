package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/platform/keylock"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// EvaluationService computes the wake-time adjustment for an alarm from its
// bound conditions and the current context snapshot. It never mutates the
// alarm; the caller decides whether to apply the result.
type EvaluationService interface {
	ComputeAdjustment(ctx context.Context, alarmID uuid.UUID) (*scheduling.FinalAdjustment, error)
}

type evaluationService struct {
	alarmRepo   repos.AlarmRepo
	bindingRepo repos.ConditionBindingRepo
	defRepo     repos.ConditionDefinitionRepo
	provider    ContextProvider
	notifier    AdjustmentNotifier
	locks       *keylock.KeyLock
	log         *logger.Logger
}

func NewEvaluationService(
	alarmRepo repos.AlarmRepo,
	bindingRepo repos.ConditionBindingRepo,
	defRepo repos.ConditionDefinitionRepo,
	provider ContextProvider,
	notifier AdjustmentNotifier,
	locks *keylock.KeyLock,
	baseLog *logger.Logger,
) EvaluationService {
	return &evaluationService{
		alarmRepo:   alarmRepo,
		bindingRepo: bindingRepo,
		defRepo:     defRepo,
		provider:    provider,
		notifier:    notifier,
		locks:       locks,
		log:         baseLog.With("service", "evaluation"),
	}
}

func (s *evaluationService) ComputeAdjustment(ctx context.Context, alarmID uuid.UUID) (*scheduling.FinalAdjustment, error) {
	var result *scheduling.FinalAdjustment
	err := s.locks.Do(alarmID, func() error {
		alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
		if err != nil {
			return fmt.Errorf("load alarm: %w", err)
		}
		if alarm == nil {
			return ErrAlarmNotFound
		}

		conditions, err := s.loadConditions(ctx, alarmID)
		if err != nil {
			return err
		}

		snap, err := s.provider.Snapshot(ctx, alarmID)
		if err != nil {
			return fmt.Errorf("context snapshot: %w", err)
		}

		candidates := make([]scheduling.AdjustmentCandidate, 0, len(conditions))
		for _, cond := range conditions {
			candidate, err := scheduling.Evaluate(cond, snap)
			if err != nil {
				s.log.Warn("skipping condition", "alarm_id", alarmID, "key", cond.Key, "error", err)
				continue
			}
			if candidate != nil {
				candidates = append(candidates, *candidate)
			}
		}

		adj := scheduling.Aggregate(candidates, scheduling.AggregationParams{
			SleepPatternWeight: alarm.SleepPatternWeight,
			RealTimeAdaptation: alarm.RealTimeAdaptation,
			CeilingMinutes:     alarm.MaxShiftMinutes,
		}, time.Now())

		s.notifier.AdjustmentComputed(ctx, alarm.UserID, alarm.ID, &adj)
		result = &adj
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadConditions joins an alarm's enabled bindings with their definitions.
// Bindings whose definition fails to parse are skipped with a warning; one
// bad row must not stall the whole alarm.
func (s *evaluationService) loadConditions(ctx context.Context, alarmID uuid.UUID) ([]scheduling.Condition, error) {
	bindings, err := s.bindingRepo.GetByAlarmID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load bindings: %w", err)
	}

	defIDs := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		defIDs = append(defIDs, b.DefinitionID)
	}
	defs, err := s.defRepo.GetByIDs(ctx, nil, defIDs)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	defByID := make(map[uuid.UUID]*types.ConditionDefinition, len(defs))
	for _, d := range defs {
		defByID[d.ID] = d
	}

	conditions := make([]scheduling.Condition, 0, len(bindings))
	for _, b := range bindings {
		if !b.IsEnabled {
			continue
		}
		def, ok := defByID[b.DefinitionID]
		if !ok {
			s.log.Warn("binding references missing definition", "alarm_id", alarmID, "binding_id", b.ID)
			continue
		}
		pred, err := scheduling.ParsePredicate(def.Operator, def.Value)
		if err != nil {
			s.log.Warn("skipping unparseable condition", "alarm_id", alarmID, "key", def.Key, "error", err)
			continue
		}
		conditions = append(conditions, scheduling.Condition{
			BindingID:     b.ID,
			DefinitionID:  def.ID,
			Key:           def.Key,
			Type:          def.Type,
			Predicate:     pred,
			TimeMinutes:   b.TimeMinutes,
			MaxAdjustment: b.MaxAdjustment,
			Reason:        def.Reason,
			Priority:      def.Priority,
			Enabled:       b.IsEnabled,
			Effectiveness: b.EffectivenessScore,
		})
	}
	return conditions, nil
}
