package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type WakeFeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entries []*types.WakeFeedback) ([]*types.WakeFeedback, error)
	GetRecentByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.WakeFeedback, error)
}

type wakeFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWakeFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) WakeFeedbackRepo {
	return &wakeFeedbackRepo{db: db, log: baseLog.With("repo", "WakeFeedbackRepo")}
}

func (r *wakeFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.WakeFeedback) ([]*types.WakeFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*types.WakeFeedback{}, nil
	}
	for _, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetRecentByAlarmID returns up to limit entries ordered oldest first
// (newest-last), matching the append order of the log.
func (r *wakeFeedbackRepo) GetRecentByAlarmID(ctx context.Context, tx *gorm.DB, alarmID uuid.UUID, limit int) ([]*types.WakeFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.WakeFeedback
	if alarmID == uuid.Nil || limit <= 0 {
		return out, nil
	}
	// Newest N selected first, then flipped back to chronological order.
	if err := transaction.WithContext(ctx).
		Where("alarm_id = ?", alarmID).
		Order("woke_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
