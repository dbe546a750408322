package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"aderencia/internal/common"
	"aderencia/internal/config"
	"aderencia/internal/export"
	"aderencia/internal/pdftext"
	"aderencia/internal/receita"
	"aderencia/internal/repository"
	"aderencia/internal/rules"
	"aderencia/internal/server"
	"aderencia/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := common.NewLogger(cfg.Debug)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rules must load before serving; a broken manifest is fatal on startup
	// (reloads later keep the previous ruleset on failure).
	store := rules.NewStore(cfg.Ruleset.ManifestPath, logger)
	if err := store.Load(); err != nil {
		log.Fatalf("loading ruleset: %v", err)
	}

	db, err := repository.Open(ctx, cfg.Database.Path, logger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer func() { _ = db.Close() }()

	repo := repository.NewEvaluationRepository(db, logger)
	extractor := pdftext.NewExtractor(pdftext.Config{
		Pdftotext: cfg.PDF.Pdftotext,
		Timeout:   cfg.PDF.Timeout,
	}, logger)
	evaluator := service.NewEvaluator(store, extractor, repo, logger)
	exporter := export.NewService(logger)

	var registry *receita.Client
	if cfg.Receita.Enabled {
		registry = receita.NewClient(cfg.Receita.BaseURL, cfg.Receita.Timeout)
		log.Infow("registry enrichment enabled", "base_url", cfg.Receita.BaseURL)
	}

	srv := server.New(evaluator, repo, store, exporter, registry, logger)
	e := srv.NewEcho(cfg.Server.BodyLimit)

	go func() {
		if err := e.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()
	log.Infof("HTTP serving on %s", cfg.Server.Addr)

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Info("stopped.")
}
