package runtime

import (
	"context"
	"fmt"

	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/services"
	"github.com/lumawake/lumawake-backend/internal/types"
)

// Env bundles the collaborators job handlers may touch. Handlers are
// stateless; everything they need arrives through Env and the job row.
type Env struct {
	Log           *logger.Logger
	AlarmRepo     repos.AlarmRepo
	Effectiveness services.EffectivenessService
	Validation    services.ValidationService
	Optimizer     services.OptimizerService
	Notifier      services.AdjustmentNotifier
}

// Handler runs one job type. The returned result is stored on the job row.
type Handler interface {
	Type() string
	Run(ctx context.Context, env *Env, job *types.JobRun) (any, error)
}

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

func (r *Registry) Get(jobType string) (Handler, error) {
	h, ok := r.handlers[jobType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for job type %q", jobType)
	}
	return h, nil
}
