package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/scheduling"
)

// loadSatisfaction averages the feeling scores of the alarm's most recent
// feedback window. ok is false when there is no usable feedback.
func loadSatisfaction(ctx context.Context, feedbackRepo repos.WakeFeedbackRepo, alarmID uuid.UUID) (sat float64, ok bool, err error) {
	entries, err := feedbackRepo.GetRecentByAlarmID(ctx, nil, alarmID, scheduling.RecentFeedbackWindow)
	if err != nil {
		return 0, false, fmt.Errorf("load feedback: %w", err)
	}
	feelings := make([]string, 0, len(entries))
	for _, e := range entries {
		feelings = append(feelings, e.Feeling)
	}
	sat, ok = scheduling.Satisfaction(feelings)
	return sat, ok, nil
}
