package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"normatlas/internal/adapters/ai"
	"normatlas/internal/adapters/config"
	"normatlas/internal/adapters/dataset"
	"normatlas/internal/adapters/errors/noop"
	"normatlas/internal/adapters/errors/sentry"
	"normatlas/internal/adapters/postgres"
	"normatlas/internal/adapters/redis"
	"normatlas/internal/agents"
	"normatlas/internal/analysis"
	"normatlas/internal/api"
	analysisapi "normatlas/internal/api/analysis"
	"normatlas/internal/api/health"
	llmapi "normatlas/internal/api/llm"
	"normatlas/internal/domain/chat"
	"normatlas/internal/router"
	pgrepo "normatlas/internal/repository/postgres"
	chatservice "normatlas/internal/services/chat"
	"normatlas/internal/tools"
	"normatlas/internal/tools/shared"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Source tables are loaded once; every analysis reads the same snapshot.
	tables, err := dataset.Load(cfg.Dataset, log)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	engine := analysis.NewEngine(tables)
	comparator := analysis.NewComparator(engine)

	registry := tools.NewRegistry()
	tools.RegisterAllTools(registry, shared.Deps{
		Tables:     tables,
		Engine:     engine,
		Comparator: comparator,
		Log:        log,
	})

	queryRouter := router.New(registry, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthHandler := health.New(log, cfg.App.Name, version)

	history := initHistory(cfg, healthHandler, log)
	cooldown := initCooldown(cfg, healthHandler, log)
	agent := initAgent(ctx, cfg, registry, log)

	service := chatservice.NewService(agent, queryRouter, history, cooldown, cfg.Agent.UserCooldown)

	server := api.NewServer(api.ServerConfig{
		Port:        cfg.Server.Port,
		ServiceName: cfg.App.Name,
		Version:     version,
	}, healthHandler, llmapi.New(service, log), analysisapi.New(engine, comparator, log), log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(server, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initHistory wires the chat history repository when PostgreSQL is enabled.
// A nil repository disables history; queries still work.
func initHistory(cfg *config.Config, healthHandler *health.Handler, log *logger.Logger) chat.Repository {
	if !cfg.Postgres.Enabled {
		log.Info("PostgreSQL disabled, chat history not persisted")
		return nil
	}

	client, err := postgres.NewClient(cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	healthHandler.AddCheck("postgres", client.Health)

	log.Info("PostgreSQL connected, chat history enabled")
	return pgrepo.NewChatRepository(client.DB())
}

// initCooldown wires the per-user cooldown store when Redis is enabled.
func initCooldown(cfg *config.Config, healthHandler *health.Handler, log *logger.Logger) chatservice.Cooldowner {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, user cooldown not enforced")
		return nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	healthHandler.AddCheck("redis", client.Health)

	log.Info("Redis connected, user cooldown enabled")
	return client
}

// initAgent builds the LLM agent when an AI provider is configured. Without
// one the keyword router answers every query.
func initAgent(ctx context.Context, cfg *config.Config, registry *tools.Registry, log *logger.Logger) *agents.Agent {
	provider, err := ai.NewProviderFromConfig(ctx, cfg.AI, log)
	if err != nil {
		if errors.Is(err, errors.ErrUnavailable) {
			log.Warnf("AI provider not configured, falling back to keyword router: %v", err)
			return nil
		}
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}

	return agents.New(provider, registry, cfg.AI, cfg.Agent)
}

// waitForShutdown blocks until SIGINT/SIGTERM, then drains the server.
func waitForShutdown(server *api.Server, errorTracker errors.Tracker, log *logger.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Infof("Received signal %v, shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer flushCancel()
	_ = errorTracker.Flush(flushCtx)

	log.Info("Shutdown complete")
}
