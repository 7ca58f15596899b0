package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type AlarmRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alarm *types.SmartAlarm) (*types.SmartAlarm, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SmartAlarm, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SmartAlarm, error)
	ListEnabled(ctx context.Context, tx *gorm.DB) ([]*types.SmartAlarm, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type alarmRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlarmRepo(db *gorm.DB, baseLog *logger.Logger) AlarmRepo {
	return &alarmRepo{db: db, log: baseLog.With("repo", "AlarmRepo")}
}

func (r *alarmRepo) Create(ctx context.Context, tx *gorm.DB, alarm *types.SmartAlarm) (*types.SmartAlarm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if alarm == nil {
		return nil, nil
	}
	if alarm.ID == uuid.Nil {
		alarm.ID = uuid.New()
	}
	alarm.ClampTuning()
	if err := transaction.WithContext(ctx).Create(alarm).Error; err != nil {
		return nil, err
	}
	return alarm, nil
}

func (r *alarmRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SmartAlarm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.SmartAlarm
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

func (r *alarmRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SmartAlarm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SmartAlarm
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *alarmRepo) ListEnabled(ctx context.Context, tx *gorm.DB) ([]*types.SmartAlarm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.SmartAlarm
	if err := transaction.WithContext(ctx).
		Where("is_enabled = ?", true).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFields applies a partial update. Unlisted columns are untouched, so
// concurrent writers never clobber unrelated fields.
func (r *alarmRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.SmartAlarm{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *alarmRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SmartAlarm{}).Error
}
