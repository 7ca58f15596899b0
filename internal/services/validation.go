package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/types"
)

const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeFair      = "Fair"
	GradePoor      = "Poor"
)

// ValidationReport scores how well an alarm's condition setup is likely to
// perform. It is recomputed from current state on every call and never
// persisted.
type ValidationReport struct {
	AlarmID         uuid.UUID `json:"alarm_id"`
	Score           int       `json:"score"`
	Grade           string    `json:"grade"`
	Issues          []string  `json:"issues"`
	Recommendations []string  `json:"recommendations"`
}

type ValidationService interface {
	Validate(ctx context.Context, alarmID uuid.UUID) (*ValidationReport, error)
}

type validationService struct {
	alarmRepo   repos.AlarmRepo
	bindingRepo repos.ConditionBindingRepo
	defRepo     repos.ConditionDefinitionRepo
	log         *logger.Logger
}

func NewValidationService(
	alarmRepo repos.AlarmRepo,
	bindingRepo repos.ConditionBindingRepo,
	defRepo repos.ConditionDefinitionRepo,
	baseLog *logger.Logger,
) ValidationService {
	return &validationService{
		alarmRepo:   alarmRepo,
		bindingRepo: bindingRepo,
		defRepo:     defRepo,
		log:         baseLog.With("service", "validation"),
	}
}

func (s *validationService) Validate(ctx context.Context, alarmID uuid.UUID) (*ValidationReport, error) {
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

	enabled := make([]*types.ConditionBinding, 0, len(bindings))
	for _, b := range bindings {
		if b.IsEnabled {
			enabled = append(enabled, b)
		}
	}

	report := &ValidationReport{
		AlarmID:         alarmID,
		Issues:          []string{},
		Recommendations: []string{},
	}

	if len(enabled) > 0 {
		report.Score += 30
	} else {
		report.Issues = append(report.Issues, "no enabled conditions: the alarm never adapts")
		report.Recommendations = append(report.Recommendations, "attach at least one condition, e.g. weather or calendar")
	}

	typeCount, err := s.distinctTypes(ctx, enabled)
	if err != nil {
		return nil, err
	}
	switch {
	case len(typeCount) >= 3:
		report.Score += 25
	case len(typeCount) == 2:
		report.Score += 15
		report.Recommendations = append(report.Recommendations, "add a third condition type for broader coverage")
	default:
		report.Issues = append(report.Issues, "little condition variety")
		report.Recommendations = append(report.Recommendations, "mix condition types: weather, calendar and sleep_debt complement each other")
	}

	// The effectiveness band averages every binding, disabled ones included.
	// A disabled low scorer still drags the grade down until it is detached.
	if len(bindings) > 0 {
		var sum float64
		for _, b := range bindings {
			sum += b.EffectivenessScore
		}
		mean := sum / float64(len(bindings))
		switch {
		case mean >= 0.8:
			report.Score += 25
		case mean >= 0.6:
			report.Score += 15
		default:
			report.Issues = append(report.Issues, "low average effectiveness: conditions rarely help")
			report.Recommendations = append(report.Recommendations, "run the optimizer or remove conditions scoring below 0.5")
		}
	}

	if alarm.HasCustomTuning() {
		report.Score += 10
	} else {
		report.Recommendations = append(report.Recommendations, "tune learning_factor or sleep_pattern_weight to your habits")
	}

	if alarm.RealTimeAdaptation {
		report.Score += 10
	} else {
		report.Recommendations = append(report.Recommendations, "enable real_time_adaptation for full-strength adjustments")
	}

	if report.Score > 100 {
		report.Score = 100
	}
	report.Grade = gradeFor(report.Score)
	return report, nil
}

func (s *validationService) distinctTypes(ctx context.Context, enabled []*types.ConditionBinding) (map[string]int, error) {
	ids := make([]uuid.UUID, 0, len(enabled))
	for _, b := range enabled {
		ids = append(ids, b.DefinitionID)
	}
	defs, err := s.defRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("load definitions: %w", err)
	}
	counts := make(map[string]int)
	for _, d := range defs {
		counts[d.Type]++
	}
	return counts, nil
}

func gradeFor(score int) string {
	switch {
	case score >= 90:
		return GradeExcellent
	case score >= 75:
		return GradeGood
	case score >= 60:
		return GradeFair
	default:
		return GradePoor
	}
}
