package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tripmatch/internal/catalog"
	"tripmatch/internal/configuration"
	"tripmatch/internal/dataset"
	"tripmatch/internal/facts"
	"tripmatch/internal/recommend"
	"tripmatch/internal/score"
	"tripmatch/internal/score/rule"
	"tripmatch/internal/score/scorer"
	"tripmatch/internal/server"
)

// prepareLogger installs a JSON slog logger on stdout as the default logger.
// Unknown levels fall back to info.
func prepareLogger(level string) {
	var logLevel slog.Level

	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// Any failure while loading the configuration, the catalog or the rules
// terminates the application with exit code 1.
func main() {
	configPath := flag.String("config", "/etc/tripmatch/config.yaml", "configuration file")
	flag.Parse()
	config, err := configuration.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	prepareLogger(config.Logger.Level)

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	destinations, err := catalog.LoadFromFile(config.Catalog.File)
	if err != nil {
		slog.Error("Unable to load catalog", "error", err)
		os.Exit(1)
	}

	scaler := score.FitMinMax(destinations.Features())
	rules, err := rule.LoadFromFile(config.Rules.File, destinations, scaler)
	if err != nil {
		slog.Error("Unable to load rules", "error", err)
		os.Exit(1)
	}
	if len(rules) == 0 {
		slog.Warn("Rule set is empty, every destination scores 0", "file", config.Rules.File)
	}
	slog.Info("Knowledge base ready", "destinations", destinations.Len(), "rules", len(rules))

	queries := facts.NewQueriesRepository(config.Facts.History, config.Facts.Ttl)
	go queries.Serve(config.Facts.SweepInterval)

	var recorder recommend.Recorder
	if config.Dataset.File != "" {
		datasetRepo := dataset.NewJsonDatasetRepository(config.Dataset.File, config.Dataset.Size, config.Dataset.Amount)
		defer datasetRepo.Close()
		recorder = datasetRepo
	}

	engine := recommend.NewEngine(
		destinations,
		scorer.NewAggregator(rules),
		recommend.NewRanker(config.Ranking.TopK),
		queries,
		recorder,
	)

	router := server.NewApiV1Router(config.Server.Static, config.Facts.Cookie, engine, queries)
	srv := server.NewServer(config.Server.Address, config.Server.ReadTimeout, config.Server.WriteTimeout, router)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			appCancel()
		}
	}()
	slog.Info("Server listening " + config.Server.Address)
	<-appCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")

	queries.Stop()
}
