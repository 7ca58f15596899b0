package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/lumawake/lumawake-backend/internal/jobs/runtime"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// reviewConcurrency bounds how many alarms one review job touches at once.
const reviewConcurrency = 4

type configReviewPayload struct {
	AlarmID uuid.UUID `json:"alarm_id,omitempty"`
	UserID  uuid.UUID `json:"user_id,omitempty"`
}

type reviewOutcome struct {
	AlarmID uuid.UUID `json:"alarm_id"`
	Score   int       `json:"score"`
	Grade   string    `json:"grade"`
	Damped  int       `json:"damped"`
}

// ConfigReviewHandler validates and then optimizes one alarm, or every alarm
// a user owns. Alarms that disappear mid-review are skipped, not failed.
type ConfigReviewHandler struct{}

func (ConfigReviewHandler) Type() string { return types.JobTypeConfigReview }

func (ConfigReviewHandler) Run(ctx context.Context, env *runtime.Env, job *types.JobRun) (any, error) {
	var payload configReviewPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}

	var alarmIDs []uuid.UUID
	switch {
	case payload.AlarmID != uuid.Nil:
		alarmIDs = []uuid.UUID{payload.AlarmID}
	case payload.UserID != uuid.Nil:
		alarms, err := env.AlarmRepo.GetByUserID(ctx, nil, payload.UserID)
		if err != nil {
			return nil, fmt.Errorf("list alarms: %w", err)
		}
		for _, a := range alarms {
			alarmIDs = append(alarmIDs, a.ID)
		}
	default:
		return nil, fmt.Errorf("payload names neither alarm nor user")
	}

	var (
		mu       sync.Mutex
		outcomes []reviewOutcome
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reviewConcurrency)
	for _, alarmID := range alarmIDs {
		alarmID := alarmID
		g.Go(func() error {
			outcome, err := reviewAlarm(gctx, env, alarmID)
			if err != nil {
				if errors.Is(err, services.ErrAlarmNotFound) {
					env.Log.Warn("alarm vanished during review", "alarm_id", alarmID)
					return nil
				}
				return err
			}
			mu.Lock()
			outcomes = append(outcomes, *outcome)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return map[string]any{"reviewed": outcomes}, nil
}

func reviewAlarm(ctx context.Context, env *runtime.Env, alarmID uuid.UUID) (*reviewOutcome, error) {
	report, err := env.Validation.Validate(ctx, alarmID)
	if err != nil {
		return nil, err
	}
	optimized, err := env.Optimizer.Optimize(ctx, alarmID)
	if err != nil {
		return nil, err
	}

	alarm, err := env.AlarmRepo.GetByID(ctx, nil, alarmID)
	if err == nil && alarm != nil {
		env.Notifier.ConfigReviewed(ctx, alarm.UserID, alarmID, report.Score, report.Grade)
	}

	return &reviewOutcome{
		AlarmID: alarmID,
		Score:   report.Score,
		Grade:   report.Grade,
		Damped:  len(optimized.DampedBindingIDs),
	}, nil
}
