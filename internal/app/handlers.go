package app

import (
	httpH "github.com/lumawake/lumawake-backend/internal/http/handlers"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/sse"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Alarms     *httpH.AlarmHandler
	Conditions *httpH.ConditionHandler
	Schedule   *httpH.ScheduleHandler
	Feedback   *httpH.FeedbackHandler
	Jobs       *httpH.JobHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, s Services, r Repos, hub *sse.Hub) Handlers {
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Alarms:     httpH.NewAlarmHandler(s.Alarms),
		Conditions: httpH.NewConditionHandler(s.Alarms, s.Conditions),
		Schedule:   httpH.NewScheduleHandler(s.Alarms, s.Evaluation, s.Validation, s.Optimizer),
		Feedback:   httpH.NewFeedbackHandler(s.Alarms, s.Feedback),
		Jobs:       httpH.NewJobHandler(s.Alarms, r.Jobs),
		Realtime:   httpH.NewRealtimeHandler(hub, log),
	}
}
