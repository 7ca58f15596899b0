package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/lumawake/lumawake-backend/internal/platform/apierr"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// ConditionService owns the condition catalog and the per-alarm bindings.
// Definitions are immutable once created; attaching copies the definition's
// magnitudes onto the binding so the optimizer can damp them per alarm.
type ConditionService interface {
	SeedBuiltins(ctx context.Context, overridesPath string) error
	ListDefinitions(ctx context.Context) ([]*types.ConditionDefinition, error)
	CreateDefinition(ctx context.Context, tpl scheduling.Template) (*types.ConditionDefinition, error)
	Attach(ctx context.Context, alarmID, definitionID uuid.UUID) (*types.ConditionBinding, error)
	Detach(ctx context.Context, alarmID, definitionID uuid.UUID) error
	SetEnabled(ctx context.Context, alarmID, definitionID uuid.UUID, enabled bool) (*types.ConditionBinding, error)
	ListBindings(ctx context.Context, alarmID uuid.UUID) ([]*types.ConditionBinding, error)
}

type conditionService struct {
	alarmRepo   repos.AlarmRepo
	defRepo     repos.ConditionDefinitionRepo
	bindingRepo repos.ConditionBindingRepo
	log         *logger.Logger
}

func NewConditionService(
	alarmRepo repos.AlarmRepo,
	defRepo repos.ConditionDefinitionRepo,
	bindingRepo repos.ConditionBindingRepo,
	baseLog *logger.Logger,
) ConditionService {
	return &conditionService{
		alarmRepo:   alarmRepo,
		defRepo:     defRepo,
		bindingRepo: bindingRepo,
		log:         baseLog.With("service", "condition"),
	}
}

// SeedBuiltins writes the built-in catalog, merged with optional YAML
// overrides, into storage. Existing keys are left alone so learned state
// survives restarts.
func (s *conditionService) SeedBuiltins(ctx context.Context, overridesPath string) error {
	templates := scheduling.BuiltinTemplates()
	if overridesPath != "" {
		overrides, err := scheduling.LoadTemplates(overridesPath)
		if err != nil {
			return fmt.Errorf("load catalog overrides: %w", err)
		}
		templates = scheduling.MergeTemplates(templates, overrides)
	}

	seeded := 0
	for _, tpl := range templates {
		existing, err := s.defRepo.GetByKey(ctx, nil, tpl.Key)
		if err != nil {
			return fmt.Errorf("check key %q: %w", tpl.Key, err)
		}
		if existing != nil {
			continue
		}
		def, err := definitionFromTemplate(tpl, true)
		if err != nil {
			return fmt.Errorf("template %q: %w", tpl.Key, err)
		}
		if _, err := s.defRepo.Create(ctx, nil, def); err != nil {
			return fmt.Errorf("seed %q: %w", tpl.Key, err)
		}
		seeded++
	}
	if seeded > 0 {
		s.log.Info("seeded condition catalog", "count", seeded)
	}
	return nil
}

func (s *conditionService) ListDefinitions(ctx context.Context) ([]*types.ConditionDefinition, error) {
	return s.defRepo.List(ctx, nil)
}

func (s *conditionService) CreateDefinition(ctx context.Context, tpl scheduling.Template) (*types.ConditionDefinition, error) {
	existing, err := s.defRepo.GetByKey(ctx, nil, tpl.Key)
	if err != nil {
		return nil, fmt.Errorf("check key %q: %w", tpl.Key, err)
	}
	if existing != nil {
		return nil, apierr.New(http.StatusConflict, "duplicate_key",
			fmt.Errorf("definition key %q already exists", tpl.Key))
	}
	def, err := definitionFromTemplate(tpl, false)
	if err != nil {
		return nil, apierr.BadRequest("invalid_condition", err)
	}
	created, err := s.defRepo.Create(ctx, nil, def)
	if err != nil {
		return nil, fmt.Errorf("create definition: %w", err)
	}
	s.log.Info("custom condition created", "key", created.Key, "type", created.Type)
	return created, nil
}

func (s *conditionService) Attach(ctx context.Context, alarmID, definitionID uuid.UUID) (*types.ConditionBinding, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}
	def, err := s.defRepo.GetByID(ctx, nil, definitionID)
	if err != nil {
		return nil, fmt.Errorf("load definition: %w", err)
	}
	if def == nil {
		return nil, ErrDefinitionNotFound
	}
	existing, err := s.bindingRepo.GetByAlarmAndDefinition(ctx, nil, alarmID, definitionID)
	if err != nil {
		return nil, fmt.Errorf("check binding: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyBound
	}

	binding := &types.ConditionBinding{
		AlarmID:            alarmID,
		DefinitionID:       definitionID,
		IsEnabled:          true,
		EffectivenessScore: 0.5,
		TimeMinutes:        def.TimeMinutes,
		MaxAdjustment:      def.MaxAdjustment,
	}
	created, err := s.bindingRepo.Create(ctx, nil, binding)
	if err != nil {
		return nil, fmt.Errorf("attach condition: %w", err)
	}
	s.log.Info("condition attached", "alarm_id", alarmID, "key", def.Key)
	return created, nil
}

// Detach soft-deletes the binding. The row survives so adaptation history
// keeps resolving.
func (s *conditionService) Detach(ctx context.Context, alarmID, definitionID uuid.UUID) error {
	binding, err := s.bindingRepo.GetByAlarmAndDefinition(ctx, nil, alarmID, definitionID)
	if err != nil {
		return fmt.Errorf("load binding: %w", err)
	}
	if binding == nil {
		return ErrBindingNotFound
	}
	if err := s.bindingRepo.SoftDeleteByID(ctx, nil, binding.ID); err != nil {
		return fmt.Errorf("detach condition: %w", err)
	}
	s.log.Info("condition detached", "alarm_id", alarmID, "binding_id", binding.ID)
	return nil
}

func (s *conditionService) SetEnabled(ctx context.Context, alarmID, definitionID uuid.UUID, enabled bool) (*types.ConditionBinding, error) {
	binding, err := s.bindingRepo.GetByAlarmAndDefinition(ctx, nil, alarmID, definitionID)
	if err != nil {
		return nil, fmt.Errorf("load binding: %w", err)
	}
	if binding == nil {
		return nil, ErrBindingNotFound
	}
	if binding.IsEnabled == enabled {
		return binding, nil
	}
	if err := s.bindingRepo.UpdateFields(ctx, nil, binding.ID, map[string]interface{}{
		"is_enabled": enabled,
	}); err != nil {
		return nil, fmt.Errorf("toggle binding: %w", err)
	}
	binding.IsEnabled = enabled
	return binding, nil
}

func (s *conditionService) ListBindings(ctx context.Context, alarmID uuid.UUID) ([]*types.ConditionBinding, error) {
	alarm, err := s.alarmRepo.GetByID(ctx, nil, alarmID)
	if err != nil {
		return nil, fmt.Errorf("load alarm: %w", err)
	}
	if alarm == nil {
		return nil, ErrAlarmNotFound
	}
	return s.bindingRepo.GetByAlarmID(ctx, nil, alarmID)
}

func definitionFromTemplate(tpl scheduling.Template, builtIn bool) (*types.ConditionDefinition, error) {
	if err := scheduling.ValidateTemplate(tpl); err != nil {
		return nil, err
	}
	raw, err := scheduling.EncodeValue(tpl.Value)
	if err != nil {
		return nil, fmt.Errorf("encode value for %q: %w", tpl.Key, err)
	}
	return &types.ConditionDefinition{
		Key:           tpl.Key,
		Type:          tpl.Type,
		Operator:      tpl.Operator,
		Value:         datatypes.JSON(raw),
		TimeMinutes:   tpl.TimeMinutes,
		MaxAdjustment: tpl.MaxAdjustment,
		Reason:        tpl.Reason,
		Priority:      tpl.Priority,
		BuiltIn:       builtIn,
	}, nil
}
