package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/majindogo/farm-data-etl/internal/config"
	"github.com/majindogo/farm-data-etl/internal/ingest"
	"github.com/majindogo/farm-data-etl/internal/observability"
	"github.com/majindogo/farm-data-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := ingest.OpenSQL(ctx, cfg.Field.DBPath, logger)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	csv := ingest.NewCSVSource(cfg.HTTPTimeout, logger)

	fieldPipeline, err := pipeline.NewFieldPipeline(cfg.Field, store, csv, logger, metrics)
	if err != nil {
		logger.Error("invalid field pipeline config", "error", err)
		os.Exit(1)
	}
	weatherPipeline, err := pipeline.NewWeatherPipeline(cfg.Weather, csv, logger, metrics)
	if err != nil {
		logger.Error("invalid weather pipeline config", "error", err)
		os.Exit(1)
	}

	fieldData, err := fieldPipeline.Process(ctx)
	if err != nil {
		logger.Error("field pipeline failed", "error", err)
		os.Exit(1)
	}
	logger.Info("field data ready", "rows", fieldData.Len(), "columns", fieldData.Columns())

	weatherData, err := weatherPipeline.Process(ctx)
	if err != nil {
		logger.Error("weather pipeline failed", "error", err)
		os.Exit(1)
	}
	logger.Info("weather data ready", "rows", weatherData.Len(), "columns", weatherData.Columns())

	if agg := weatherPipeline.Aggregate(); agg != nil {
		logger.Info("station aggregates ready", "stations", agg.Len(), "columns", agg.Columns())
	}
}
