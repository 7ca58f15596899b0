package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type ConditionBindingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, binding *types.ConditionBinding) (*types.ConditionBinding, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConditionBinding, error)
	GetByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID) ([]*types.ConditionBinding, error)
	GetByAlarmAndDefinition(ctx context.Context, tx *gorm.DB, alarmID, definitionID uuid.UUID) (*types.ConditionBinding, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type conditionBindingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConditionBindingRepo(db *gorm.DB, baseLog *logger.Logger) ConditionBindingRepo {
	return &conditionBindingRepo{db: db, log: baseLog.With("repo", "ConditionBindingRepo")}
}

func (r *conditionBindingRepo) Create(ctx context.Context, tx *gorm.DB, binding *types.ConditionBinding) (*types.ConditionBinding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if binding == nil || binding.AlarmID == uuid.Nil || binding.DefinitionID == uuid.Nil {
		return nil, nil
	}
	if binding.ID == uuid.Nil {
		binding.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(binding).Error; err != nil {
		return nil, err
	}
	return binding, nil
}

func (r *conditionBindingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConditionBinding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ConditionBinding
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *conditionBindingRepo) GetByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID) ([]*types.ConditionBinding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ConditionBinding
	if alarmID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("alarm_id = ?", alarmID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conditionBindingRepo) GetByAlarmAndDefinition(ctx context.Context, tx *gorm.DB, alarmID, definitionID uuid.UUID) (*types.ConditionBinding, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if alarmID == uuid.Nil || definitionID == uuid.Nil {
		return nil, nil
	}
	var row types.ConditionBinding
	err := transaction.WithContext(ctx).
		Where("alarm_id = ? AND definition_id = ?", alarmID, definitionID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *conditionBindingRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.ConditionBinding{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SoftDeleteByID detaches a binding. The row is soft-deleted so the learned
// effectiveness history stays queryable through the adaptation log.
func (r *conditionBindingRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ConditionBinding{}).Error
}
