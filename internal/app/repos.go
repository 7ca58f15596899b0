package app

import (
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
)

type Repos struct {
	Alarms      repos.AlarmRepo
	Definitions repos.ConditionDefinitionRepo
	Bindings    repos.ConditionBindingRepo
	Feedback    repos.WakeFeedbackRepo
	Events      repos.AdaptationEventRepo
	Jobs        repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Alarms:      repos.NewAlarmRepo(db, log),
		Definitions: repos.NewConditionDefinitionRepo(db, log),
		Bindings:    repos.NewConditionBindingRepo(db, log),
		Feedback:    repos.NewWakeFeedbackRepo(db, log),
		Events:      repos.NewAdaptationEventRepo(db, log),
		Jobs:        repos.NewJobRunRepo(db, log),
	}
}
