package app

import (
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/keylock"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/realtime/bus"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/sse"
)

type Services struct {
	Alarms        services.AlarmService
	Conditions    services.ConditionService
	Feedback      services.FeedbackService
	Evaluation    services.EvaluationService
	Effectiveness services.EffectivenessService
	Validation    services.ValidationService
	Optimizer     services.OptimizerService
	Notifier      services.AdjustmentNotifier
	Provider      services.ContextProvider
	Bus           bus.Bus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, hub *sse.Hub) (Services, error) {
	var realtimeBus bus.Bus
	if cfg.RedisEnabled {
		redisBus, err := bus.NewRedisBus(hub, log)
		if err != nil {
			return Services{}, err
		}
		realtimeBus = redisBus
	} else {
		realtimeBus = bus.NewLocalBus(hub)
	}

	notifier := services.NewBusNotifier(realtimeBus, log)
	locks := keylock.New()
	txRunner := services.NewGormTxRunner(db)

	provider := &services.StaticContextProvider{}

	return Services{
		Alarms:     services.NewAlarmService(r.Alarms, r.Events, log),
		Conditions: services.NewConditionService(r.Alarms, r.Definitions, r.Bindings, log),
		Feedback:   services.NewFeedbackService(r.Alarms, r.Feedback, r.Jobs, log),
		Evaluation: services.NewEvaluationService(r.Alarms, r.Bindings, r.Definitions, provider, notifier, locks, log),
		Effectiveness: services.NewEffectivenessService(
			r.Alarms, r.Bindings, r.Feedback, r.Events, txRunner, notifier, locks, log),
		Validation: services.NewValidationService(r.Alarms, r.Bindings, r.Definitions, log),
		Optimizer: services.NewOptimizerService(
			r.Alarms, r.Bindings, r.Definitions, r.Feedback, r.Events, txRunner, notifier, locks, log),
		Notifier: notifier,
		Provider: provider,
		Bus:      realtimeBus,
	}, nil
}
