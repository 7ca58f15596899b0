package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/realtime"
	"github.com/lumawake/lumawake-backend/internal/realtime/bus"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
)

// AdjustmentNotifier pushes scheduling outcomes to interested clients.
// Delivery is best-effort; a failed push never fails the computation.
type AdjustmentNotifier interface {
	AdjustmentComputed(ctx context.Context, userID, alarmID uuid.UUID, adj *scheduling.FinalAdjustment)
	AdaptationRecorded(ctx context.Context, userID, alarmID uuid.UUID, change string)
	ConfigReviewed(ctx context.Context, userID, alarmID uuid.UUID, score int, grade string)
}

type busNotifier struct {
	bus bus.Bus
	log *logger.Logger
}

func NewBusNotifier(b bus.Bus, baseLog *logger.Logger) AdjustmentNotifier {
	return &busNotifier{bus: b, log: baseLog.With("component", "notifier")}
}

func (n *busNotifier) publish(ctx context.Context, msg realtime.SSEMessage) {
	if err := n.bus.Publish(ctx, msg); err != nil {
		n.log.Warn("realtime publish failed", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}

func (n *busNotifier) AdjustmentComputed(ctx context.Context, userID, alarmID uuid.UUID, adj *scheduling.FinalAdjustment) {
	data := map[string]any{
		"alarmId":      alarmID,
		"minutes":      adj.Minutes,
		"conditionIds": adj.ContributingConditionIDs,
		"appliedAt":    adj.AppliedAt,
	}
	n.publish(ctx, realtime.SSEMessage{
		Channel: "user:" + userID.String(),
		Event:   realtime.EventAdjustmentComputed,
		Data:    data,
	})
	n.publish(ctx, realtime.SSEMessage{
		Channel: "alarm:" + alarmID.String(),
		Event:   realtime.EventAdjustmentComputed,
		Data:    data,
	})
}

func (n *busNotifier) AdaptationRecorded(ctx context.Context, userID, alarmID uuid.UUID, change string) {
	n.publish(ctx, realtime.SSEMessage{
		Channel: "user:" + userID.String(),
		Event:   realtime.EventAdaptationRecorded,
		Data:    map[string]any{"alarmId": alarmID, "change": change},
	})
}

func (n *busNotifier) ConfigReviewed(ctx context.Context, userID, alarmID uuid.UUID, score int, grade string) {
	n.publish(ctx, realtime.SSEMessage{
		Channel: "user:" + userID.String(),
		Event:   realtime.EventConfigReviewed,
		Data:    map[string]any{"alarmId": alarmID, "score": score, "grade": grade},
	})
}

// NopNotifier is used in tests and in pipelines that only persist.
type NopNotifier struct{}

func (NopNotifier) AdjustmentComputed(context.Context, uuid.UUID, uuid.UUID, *scheduling.FinalAdjustment) {
}
func (NopNotifier) AdaptationRecorded(context.Context, uuid.UUID, uuid.UUID, string) {}
func (NopNotifier) ConfigReviewed(context.Context, uuid.UUID, uuid.UUID, int, string) {}
