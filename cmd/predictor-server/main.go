package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chancelab/predictor/internal/config"
	"github.com/chancelab/predictor/internal/db"
	"github.com/chancelab/predictor/internal/httpapi"
	"github.com/chancelab/predictor/internal/predictor/history"
	"github.com/chancelab/predictor/internal/predictor/service"
	"github.com/chancelab/predictor/internal/predictor/store/jsonfile"
	"github.com/chancelab/predictor/internal/predictor/store/sqlite"
)

func main() {
	_ = godotenv.Load() // optional .env for local runs

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "predictor-server ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// SQLite for audit + prediction history.
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		logger.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	auditStore := sqlite.NewAuditStore(conn, writer)
	predictionStore := sqlite.NewPredictionStore(conn, writer)

	// Durable ledger snapshot.
	entitlementStore := jsonfile.NewEntitlementStore(cfg.SubscribersPath)

	ledger, err := service.NewLedger(ctx, service.LedgerDeps{
		Store:  entitlementStore,
		Audit:  auditStore,
		Logger: logger,
		Window: time.Duration(cfg.SubscriptionHours) * time.Hour,
	})
	if err != nil {
		logger.Fatalf("load ledger: %v", err)
	}

	predictor := service.NewPredictorService(service.Dependencies{
		Ledger:           ledger,
		Cooldown:         service.NewCooldownGuard(),
		Draws:            history.NewLoader(cfg.HistoryPath),
		Predictions:      predictionStore,
		Notifier:         service.LogNotifier{Logger: logger},
		Logger:           logger,
		AdminIDs:         cfg.AdminIDs,
		HistoryLimit:     cfg.HistoryLimit,
		CooldownInterval: time.Duration(cfg.CooldownSeconds) * time.Second,
	})

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:    logger,
		Addr:      cfg.HTTPAddr,
		Predictor: predictor,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
