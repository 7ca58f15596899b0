package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lumawake/lumawake-backend/internal/db"
	httpMW "github.com/lumawake/lumawake-backend/internal/http/middleware"
	"github.com/lumawake/lumawake-backend/internal/jobs"
	jobruntime "github.com/lumawake/lumawake-backend/internal/jobs/runtime"
	"github.com/lumawake/lumawake-backend/internal/jobs/worker"
	"github.com/lumawake/lumawake-backend/internal/observability"
	"github.com/lumawake/lumawake-backend/internal/platform/logger"
	"github.com/lumawake/lumawake-backend/internal/sse"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *sse.Hub

	pool         *worker.Pool
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New() (*App, error) {
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "lumawake-backend",
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	database, err := db.New(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	gdb := database.DB()

	hub := sse.NewHub(log)
	reposet := wireRepos(gdb, log)
	serviceset, err := wireServices(gdb, log, cfg, reposet, hub)
	if err != nil {
		log.Sync()
		return nil, err
	}

	if err := serviceset.Conditions.SeedBuiltins(context.Background(), cfg.CatalogOverride); err != nil {
		log.Sync()
		return nil, fmt.Errorf("seed condition catalog: %w", err)
	}

	handlerset := wireHandlers(log, serviceset, reposet, hub)
	auth := httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)
	router := wireRouter(log, cfg, handlerset, auth)

	registry := jobruntime.NewRegistry()
	registry.Register(jobs.EffectivenessUpdateHandler{})
	registry.Register(jobs.ConfigReviewHandler{})
	env := &jobruntime.Env{
		Log:           log,
		AlarmRepo:     reposet.Alarms,
		Effectiveness: serviceset.Effectiveness,
		Validation:    serviceset.Validation,
		Optimizer:     serviceset.Optimizer,
		Notifier:      serviceset.Notifier,
	}
	poolCfg := worker.DefaultConfig()
	poolCfg.Workers = cfg.Workers
	pool := worker.NewPool(poolCfg, reposet.Jobs, registry, env, log)

	return &App{
		Log:          log,
		DB:           gdb,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		pool:         pool,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background workers. Safe to call once.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.pool.Start(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = a.Cfg.Addr
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.Services.Bus != nil {
		_ = a.Services.Bus.Close()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
