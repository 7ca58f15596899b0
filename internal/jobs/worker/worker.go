package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lumawake/lumawake-backend/internal/jobs/runtime"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/repos"
	"github.com/lumawake/lumawake-backend/internal/types"
)

type Config struct {
	Workers           int
	PollInterval      time.Duration
	MaxAttempts       int
	RetryDelay        time.Duration
	StaleRunning      time.Duration
	HeartbeatInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:           2,
		PollInterval:      2 * time.Second,
		MaxAttempts:       3,
		RetryDelay:        30 * time.Second,
		StaleRunning:      5 * time.Minute,
		HeartbeatInterval: 15 * time.Second,
	}
}

// Pool polls the job queue and dispatches claimed rows to registered
// handlers. Multiple pools on separate processes share one queue safely;
// claiming uses SKIP LOCKED.
type Pool struct {
	cfg      Config
	jobRepo  repos.JobRunRepo
	registry *runtime.Registry
	env      *runtime.Env
	log      *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(cfg Config, jobRepo repos.JobRunRepo, registry *runtime.Registry, env *runtime.Env, baseLog *logger.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Pool{
		cfg:      cfg,
		jobRepo:  jobRepo,
		registry: registry,
		env:      env,
		log:      baseLog.With("component", "job_pool"),
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	p.log.Info("job pool started", "workers", p.cfg.Workers)
}

// Stop waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.log.Info("job pool stopped")
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	workerLog := p.log.With("worker", id)

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// Drain the queue before sleeping again.
		for {
			job, err := p.jobRepo.ClaimNextRunnable(ctx, nil, p.cfg.MaxAttempts, p.cfg.RetryDelay, p.cfg.StaleRunning)
			if err != nil {
				workerLog.Error("claim failed", "error", err)
				break
			}
			if job == nil {
				break
			}
			p.execute(ctx, workerLog, job)
			if ctx.Err() != nil {
				return
			}
		}
	}
}

func (p *Pool) execute(ctx context.Context, workerLog *logger.Logger, job *types.JobRun) {
	jobLog := workerLog.With("job_id", job.ID, "job_type", job.JobType)
	jobLog.Info("job started", "attempt", job.Attempts)

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	go p.heartbeat(hbCtx, job)
	defer stopHeartbeat()

	handler, err := p.registry.Get(job.JobType)
	if err != nil {
		p.fail(ctx, jobLog, job, err)
		return
	}
	result, err := handler.Run(ctx, p.env, job)
	if err != nil {
		p.fail(ctx, jobLog, job, err)
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      types.JobStatusSucceeded,
		"finished_at": now,
	}
	if result != nil {
		if raw, err := json.Marshal(result); err == nil {
			updates["result"] = raw
		}
	}
	if err := p.jobRepo.UpdateFields(ctx, nil, job.ID, updates); err != nil {
		jobLog.Error("mark succeeded failed", "error", err)
		return
	}
	jobLog.Info("job succeeded")
}

func (p *Pool) fail(ctx context.Context, jobLog *logger.Logger, job *types.JobRun, jobErr error) {
	now := time.Now()
	if err := p.jobRepo.UpdateFields(ctx, nil, job.ID, map[string]interface{}{
		"status":        types.JobStatusFailed,
		"last_error":    jobErr.Error(),
		"last_error_at": now,
		"finished_at":   now,
	}); err != nil {
		jobLog.Error("mark failed failed", "error", err)
	}
	jobLog.Error("job failed", "attempt", job.Attempts, "error", jobErr)
}

func (p *Pool) heartbeat(ctx context.Context, job *types.JobRun) {
	ticker := time.NewTicker(p.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.jobRepo.Heartbeat(context.Background(), nil, job.ID); err != nil {
				p.log.Warn("heartbeat failed", "job_id", job.ID, "error", err)
			}
		}
	}
}
