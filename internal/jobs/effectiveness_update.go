package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/jobs/runtime"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type effectivenessPayload struct {
	AlarmID uuid.UUID `json:"alarm_id"`
}

// EffectivenessUpdateHandler learns from a single alarm's recent feedback.
// Enqueued every time feedback is recorded.
type EffectivenessUpdateHandler struct{}

func (EffectivenessUpdateHandler) Type() string { return types.JobTypeEffectivenessUpdate }

func (EffectivenessUpdateHandler) Run(ctx context.Context, env *runtime.Env, job *types.JobRun) (any, error) {
	var payload effectivenessPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if payload.AlarmID == uuid.Nil {
		payload.AlarmID = job.EntityID
	}
	if payload.AlarmID == uuid.Nil {
		return nil, fmt.Errorf("no alarm id in payload")
	}
	if err := env.Effectiveness.UpdateEffectiveness(ctx, payload.AlarmID); err != nil {
		return nil, err
	}
	return map[string]any{"alarm_id": payload.AlarmID}, nil
}
