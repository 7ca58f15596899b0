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
	"github.com/lumawake/lumawake-backend/internal/types"
)

const (
	// weakScoreThreshold marks a binding as underperforming.
	weakScoreThreshold = 0.5

	timeDampFactor = 0.7
	capDampFactor  = 0.8

	lowSatisfaction    = 0.5
	highSatisfaction   = 0.8
	learningFactorStep = 0.1
)

// canonicalTypes are the condition types every well-rounded setup should
// cover. Suggest proposes adding the ones an alarm is missing.
var canonicalTypes = []string{
	types.ConditionTypeWeather,
	types.ConditionTypeCalendar,
	types.ConditionTypeSleepDebt,
}

type OptimizeResult struct {
	AlarmID               uuid.UUID   `json:"alarm_id"`
	DampedBindingIDs      []uuid.UUID `json:"damped_binding_ids"`
	LearningFactor        float64     `json:"learning_factor"`
	LearningFactorChanged bool        `json:"learning_factor_changed"`
}

type Suggestion struct {
	Action string `json:"action"` // "remove" or "add"
	Key    string `json:"key,omitempty"`
	Type   string `json:"type,omitempty"`
	Reason string `json:"reason"`
}

// OptimizerService damps underperforming bindings and retunes the alarm's
// learning factor from recent satisfaction. Suggest is the read-only
// advisory counterpart.
type OptimizerService interface {
	Optimize(ctx context.Context, alarmID uuid.UUID) (*OptimizeResult, error)
	Suggest(ctx context.Context, alarmID uuid.UUID) ([]Suggestion, error)
}

type optimizerService struct {
	alarmRepo    repos.AlarmRepo
	bindingRepo  repos.ConditionBindingRepo
	defRepo      repos.ConditionDefinitionRepo
	feedbackRepo repos.WakeFeedbackRepo
	eventRepo    repos.AdaptationEventRepo
	txRunner     TxRunner
	notifier     AdjustmentNotifier
	locks        *keylock.KeyLock
	log          *logger.Logger
}

func NewOptimizerService(
	alarmRepo repos.AlarmRepo,
	bindingRepo repos.ConditionBindingRepo,
	defRepo repos.ConditionDefinitionRepo,
	feedbackRepo repos.WakeFeedbackRepo,
	eventRepo repos.AdaptationEventRepo,
	txRunner TxRunner,
	notifier AdjustmentNotifier,
	locks *keylock.KeyLock,
	baseLog *logger.Logger,
) OptimizerService {
	return &optimizerService{
		alarmRepo:    alarmRepo,
		bindingRepo:  bindingRepo,
		defRepo:      defRepo,
		feedbackRepo: feedbackRepo,
		eventRepo:    eventRepo,
		txRunner:     txRunner,
		notifier:     notifier,
		locks:        locks,
		log:          baseLog.With("service", "optimizer"),
	}
}

func (s *optimizerService) Optimize(ctx context.Context, alarmID uuid.UUID) (*OptimizeResult, error) {
	var result *OptimizeResult
	err := s.locks.Do(alarmID, func() error {
		alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
		if err != nil {
			return fmt.Errorf("load alarm: %w", err)
		}
		if alarm == nil {
			return ErrAlarmNotFound
		}

		satisfaction, haveSignal, err := loadSatisfaction(ctx, s.feedbackRepo, alarmID)
		if err != nil {
			return err
		}

		res := &OptimizeResult{
			AlarmID:          alarmID,
			DampedBindingIDs: []uuid.UUID{},
			LearningFactor:   alarm.LearningFactor,
		}

		err = s.txRunner.Transaction(ctx, func(tx *gorm.DB) error {
			bindings, err := s.bindingRepo.GetByAlarmID(ctx, tx, alarmID)
			if err != nil {
				return fmt.Errorf("load bindings: %w", err)
			}

			events := make([]*types.AdaptationEvent, 0, len(bindings)+1)
			for _, b := range bindings {
				if !b.IsEnabled || b.EffectivenessScore >= weakScoreThreshold {
					continue
				}
				dampedTime := roundToInt(float64(b.TimeMinutes) * timeDampFactor)
				dampedCap := roundToInt(float64(b.MaxAdjustment) * capDampFactor)
				if dampedTime == b.TimeMinutes && dampedCap == b.MaxAdjustment {
					continue
				}
				if err := s.bindingRepo.UpdateFields(ctx, tx, b.ID, map[string]interface{}{
					"time_minutes":   dampedTime,
					"max_adjustment": dampedCap,
				}); err != nil {
					return fmt.Errorf("damp binding %s: %w", b.ID, err)
				}
				bindingID := b.ID
				detail, _ := json.Marshal(map[string]any{
					"time_minutes":   map[string]int{"from": b.TimeMinutes, "to": dampedTime},
					"max_adjustment": map[string]int{"from": b.MaxAdjustment, "to": dampedCap},
					"score":          b.EffectivenessScore,
				})
				events = append(events, &types.AdaptationEvent{
					AlarmID:   alarmID,
					BindingID: &bindingID,
					Change:    "magnitudes_damped",
					Detail:    datatypes.JSON(detail),
				})
				res.DampedBindingIDs = append(res.DampedBindingIDs, b.ID)
			}

			if haveSignal {
				next := alarm.LearningFactor
				switch {
				case satisfaction < lowSatisfaction:
					next = math.Max(types.MinLearningFactor, alarm.LearningFactor-learningFactorStep)
				case satisfaction > highSatisfaction:
					next = math.Min(types.MaxLearningFactor, alarm.LearningFactor+learningFactorStep)
				}
				if next != alarm.LearningFactor {
					if err := s.alarmRepo.UpdateFields(ctx, tx, alarmID, map[string]interface{}{
						"learning_factor": next,
					}); err != nil {
						return fmt.Errorf("update learning factor: %w", err)
					}
					detail, _ := json.Marshal(map[string]any{
						"from":         alarm.LearningFactor,
						"to":           next,
						"satisfaction": satisfaction,
					})
					events = append(events, &types.AdaptationEvent{
						AlarmID: alarmID,
						Change:  "learning_factor_adjusted",
						Detail:  datatypes.JSON(detail),
					})
					res.LearningFactor = next
					res.LearningFactorChanged = true
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

		if len(res.DampedBindingIDs) > 0 || res.LearningFactorChanged {
			s.notifier.AdaptationRecorded(ctx, alarm.UserID, alarm.ID, "optimized")
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *optimizerService) Suggest(ctx context.Context, alarmID uuid.UUID) ([]Suggestion, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}

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

	suggestions := []Suggestion{}
	coveredTypes := make(map[string]bool)
	for _, b := range bindings {
		def, ok := defByID[b.DefinitionID]
		if !ok {
			continue
		}
		if !b.IsEnabled {
			continue
		}
		coveredTypes[def.Type] = true
		if b.EffectivenessScore < weakScoreThreshold {
			suggestions = append(suggestions, Suggestion{
				Action: "remove",
				Key:    def.Key,
				Type:   def.Type,
				Reason: fmt.Sprintf("effectiveness %.2f is below %.1f", b.EffectivenessScore, weakScoreThreshold),
			})
		}
	}
	for _, t := range canonicalTypes {
		if !coveredTypes[t] {
			suggestions = append(suggestions, Suggestion{
				Action: "add",
				Type:   t,
				Reason: fmt.Sprintf("no enabled %s condition", t),
			})
		}
	}
	return suggestions, nil
}

// roundToInt rounds half away from zero.
func roundToInt(v float64) int {
	return int(math.Round(v))
}
