package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type ConditionDefinitionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, def *types.ConditionDefinition) (*types.ConditionDefinition, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConditionDefinition, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConditionDefinition, error)
	GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.ConditionDefinition, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ConditionDefinition, error)
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type conditionDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConditionDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ConditionDefinitionRepo {
	return &conditionDefinitionRepo{db: db, log: baseLog.With("repo", "ConditionDefinitionRepo")}
}

func (r *conditionDefinitionRepo) Create(ctx context.Context, tx *gorm.DB, def *types.ConditionDefinition) (*types.ConditionDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if def == nil {
		return nil, nil
	}
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	if err := transaction.WithContext(ctx).Create(def).Error; err != nil {
		return nil, err
	}
	return def, nil
}

func (r *conditionDefinitionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ConditionDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.ConditionDefinition
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

func (r *conditionDefinitionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ConditionDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ConditionDefinition
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conditionDefinitionRepo) GetByKey(ctx context.Context, tx *gorm.DB, key string) (*types.ConditionDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if key == "" {
		return nil, nil
	}
	var row types.ConditionDefinition
	err := transaction.WithContext(ctx).
		Where("key = ?", key).
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

func (r *conditionDefinitionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ConditionDefinition, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.ConditionDefinition
	if err := transaction.WithContext(ctx).
		Order("priority DESC, key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conditionDefinitionRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ConditionDefinition{}).Error
}
