package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type AdaptationEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.AdaptationEvent) ([]*types.AdaptationEvent, error)
	GetRecentByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.AdaptationEvent, error)
	CountSince(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, since time.Time) (int64, error)
}

type adaptationEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdaptationEventRepo(db *gorm.DB, baseLog *logger.Logger) AdaptationEventRepo {
	return &adaptationEventRepo{db: db, log: baseLog.With("repo", "AdaptationEventRepo")}
}

func (r *adaptationEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.AdaptationEvent) ([]*types.AdaptationEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(events) == 0 {
		return []*types.AdaptationEvent{}, nil
	}
	for _, e := range events {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *adaptationEventRepo) GetRecentByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.AdaptationEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.AdaptationEvent
	if alarmID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("alarm_id = ?", alarmID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *adaptationEventRepo) CountSince(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if alarmID == uuid.Nil {
		return 0, nil
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.AdaptationEvent{}).
		Where("alarm_id = ? AND created_at >= ?", alarmID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
