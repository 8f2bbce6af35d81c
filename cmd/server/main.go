// Package main is the entry point for the drawlytics lottery statistics service.
// The service scrapes historical draw results, persists them in SQLite, computes
// frequency and significance statistics, and publishes deterministic JSON
// artifacts locally and to an S3-compatible object store.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/drawlytics/drawlytics/internal/clients/lotterysite"
	"github.com/drawlytics/drawlytics/internal/clients/objectstore"
	"github.com/drawlytics/drawlytics/internal/config"
	"github.com/drawlytics/drawlytics/internal/database"
	"github.com/drawlytics/drawlytics/internal/events"
	"github.com/drawlytics/drawlytics/internal/modules/artifacts"
	"github.com/drawlytics/drawlytics/internal/modules/draws"
	"github.com/drawlytics/drawlytics/internal/modules/stats"
	"github.com/drawlytics/drawlytics/internal/scheduler"
	"github.com/drawlytics/drawlytics/internal/server"
	"github.com/drawlytics/drawlytics/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting drawlytics")

	// Draw database with migrations applied on startup
	drawsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "draws.db"),
		Profile: database.ProfileStandard,
		Name:    "draws",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open draws database")
	}
	defer drawsDB.Close()

	if err := drawsDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate draws database")
	}

	// Repositories and services
	drawRepo := draws.NewRepository(drawsDB.Conn(), log)
	drawService := draws.NewService(drawRepo, log)
	snapshots := draws.NewSnapshotStore(cfg.DataDir, log)

	// A fresh database with a surviving cache directory is seeded from the
	// msgpack snapshots instead of waiting for a full re-scrape
	if restored, err := drawService.RestoreFromSnapshots(context.Background(), snapshots); err != nil {
		log.Warn().Err(err).Msg("Draw snapshot restore incomplete")
	} else if restored > 0 {
		log.Info().Int("draws", restored).Msg("Seeded draw history from snapshot cache")
	}

	// Artifact store with optional object store sync
	artifactStore := artifacts.NewStore()

	var osClient *objectstore.Client
	var uploader artifacts.Uploader
	if cfg.ObjectStore.Enabled {
		osClient, err = objectstore.NewClient(context.Background(), objectstore.Config{
			Endpoint:        cfg.ObjectStore.Endpoint,
			Region:          cfg.ObjectStore.Region,
			Bucket:          cfg.ObjectStore.Bucket,
			AccessKeyID:     cfg.ObjectStore.AccessKeyID,
			SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create object store client")
		}
		uploader = osClient
		log.Info().Str("bucket", osClient.Bucket()).Msg("Artifact sync enabled")
	} else {
		log.Info().Msg("Artifact sync disabled")
	}

	publisher := artifacts.NewPublisher(cfg.DataDir, artifactStore, uploader, log)

	// Cold start on an empty data directory: pull the last synced files back
	// from the object store, then serve whatever is on disk
	if osClient != nil {
		publisher.RestoreFromObjectStore(context.Background(), osClient)
	}
	publisher.LoadFromDisk()

	// Event hub streams update-run lifecycle events to WebSocket clients
	hub := events.NewHub(log)

	// Update pipeline: scrape, merge, snapshot, compute, validate, publish
	scraper := lotterysite.NewClient(cfg.ScrapeBaseURL, log)
	engine := stats.NewEngine(log)
	updateJob := scheduler.NewUpdateJob(scraper, drawService, snapshots, engine, publisher, hub, log)

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.UpdateSchedule, updateJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.UpdateSchedule).Msg("Failed to schedule update job")
	}
	if err := sched.AddJob(cfg.MaintenanceSchedule, scheduler.NewMaintenanceJob(drawsDB, log)); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.MaintenanceSchedule).Msg("Failed to schedule maintenance job")
	}
	sched.Start()
	log.Info().Str("schedule", cfg.UpdateSchedule).Msg("Update job scheduled")

	srv := server.New(server.Config{
		Log:           log,
		Cfg:           cfg,
		DrawsDB:       drawsDB,
		DrawService:   drawService,
		ArtifactStore: artifactStore,
		UpdateJob:     updateJob,
		Hub:           hub,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}
