package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mineforge/jobs/internal/boost"
	"github.com/mineforge/jobs/internal/bootstrap"
	"github.com/mineforge/jobs/internal/catalog"
	"github.com/mineforge/jobs/internal/classify"
	"github.com/mineforge/jobs/internal/config"
	"github.com/mineforge/jobs/internal/event"
	"github.com/mineforge/jobs/internal/gateway"
	"github.com/mineforge/jobs/internal/handler"
	"github.com/mineforge/jobs/internal/ledger"
	"github.com/mineforge/jobs/internal/reward"
	"github.com/mineforge/jobs/internal/scheduler"
	"github.com/mineforge/jobs/internal/server"
	"github.com/mineforge/jobs/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	initLogger(cfg)
	handler.InitValidator()

	ctx := context.Background()

	repo, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open ledger store: %v", err)
	}

	loader, err := catalog.NewLoader()
	if err != nil {
		log.Fatalf("Failed to build catalog loader: %v", err)
	}
	cat, err := catalog.NewStore(loader, cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load job catalog: %v", err)
	}
	slog.Info(bootstrap.LogMsgCatalogLoaded, "path", cfg.CatalogPath, "version", cat.Current().Version())

	ledgerSvc := ledger.NewService(repo, cat, cfg.MaxJobsPerPlayer)
	if err := ledgerSvc.LoadAll(ctx); err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	slog.Info(bootstrap.LogMsgLedgerLoaded)

	boosters := boost.NewManager(boost.DefaultCacheSize, 24*time.Hour)
	engine := reward.NewEngine(cat, ledgerSvc, boosters, reward.NoopBonus{})

	var provider gateway.EconomyProvider
	if cfg.EconomyURL != "" {
		provider = gateway.NewHTTPProvider(cfg.EconomyURL, cfg.EconomyAPIKey)
	} else {
		slog.Info(bootstrap.LogMsgEconomyLogOnly)
		provider = gateway.LogProvider{}
	}

	gatewayPool := worker.NewPool(cfg.GatewayWorkers, cfg.GatewayQueueSize)
	gatewayPool.Start()
	gw := gateway.NewGateway(provider, gatewayPool, gateway.Config{
		MaxRetries:     cfg.GatewayMaxRetries,
		RetryDelay:     cfg.GatewayRetryDelay,
		DeadLetterPath: cfg.DeadLetterPath,
	})

	classifier := classify.NewClassifier(cat,
		classify.NoopStackSize{}, classify.NoopRarity{}, classify.NoopPets{}, classify.NoopRegionGate{})

	intake := event.NewIntake(cfg.IntakeBuffer)
	pipeline := event.NewPipeline(intake, classifier, engine, gw, cfg.IntakeWorkers)
	pipeline.Start()

	flushPool := worker.NewPool(1, 1)
	flushPool.Start()
	sched := scheduler.New(flushPool)
	sched.Schedule(cfg.SaveInterval, worker.NewFlushJob(ledgerSvc))

	srv := server.NewServer(cfg.Port, cfg.APIKey, repo, cat, ledgerSvc, boosters, pipeline)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Block until interrupted
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:      srv,
		Pipeline:    pipeline,
		Scheduler:   sched,
		GatewayPool: gatewayPool,
		Ledger:      ledgerSvc,
		Repo:        repo,
	})

	// flushPool is owned by the scheduler path; stop it after the final flush
	flushPool.Stop()
}
