package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/majindogo/farm-data-etl/internal/config"
	"github.com/majindogo/farm-data-etl/internal/domain"
	"github.com/majindogo/farm-data-etl/internal/observability"
	"github.com/majindogo/farm-data-etl/internal/table"
)

// messageColumn is the free-text column the extraction patterns run over.
const messageColumn = "Message"

// WeatherPipeline processes weather station telemetry: fetch the message
// table, extract typed measurements from the free text, and attempt the
// per-station aggregation. Ingestion and extraction failures are fatal;
// an aggregation failure is a recoverable condition and the pipeline
// returns the extracted table without an aggregate.
type WeatherPipeline struct {
	cfg      config.WeatherConfig
	csv      CSVFetcher
	patterns domain.PatternSet
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	aggregate *table.Table
}

// NewWeatherPipeline validates the configuration and compiles the extraction
// patterns once, so the per-row path never recompiles. A malformed pattern
// is a configuration error.
func NewWeatherPipeline(cfg config.WeatherConfig, csv CSVFetcher, logger *slog.Logger, metrics *observability.Metrics) (*WeatherPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	patterns, err := domain.CompilePatterns(cfg.RegexPatterns)
	if err != nil {
		return nil, fmt.Errorf("weather config: %w", err)
	}
	return &WeatherPipeline{
		cfg:      cfg,
		csv:      csv,
		patterns: patterns,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
	}, nil
}

// SetClock swaps the time source used for duration metrics. Pass nil to
// reset to real time.
func (p *WeatherPipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clock = clockwork.NewRealClock()
		return
	}
	p.clock = c
}

// Process runs the pipeline to completion and returns the weather table with
// one measurement column added per configured pattern. When aggregation
// succeeds the result is available via Aggregate.
func (p *WeatherPipeline) Process(ctx context.Context) (*table.Table, error) {
	start := p.clock.Now()

	result, err := p.run(ctx)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.metrics.PipelineRuns.WithLabelValues("weather", outcome).Inc()
	p.metrics.PipelineDuration.WithLabelValues("weather").Observe(p.clock.Since(start).Seconds())
	return result, err
}

func (p *WeatherPipeline) run(ctx context.Context) (*table.Table, error) {
	p.aggregate = nil

	t, err := p.csv.FetchCSV(ctx, p.cfg.WeatherCSVPath)
	if err != nil {
		return nil, fmt.Errorf("ingest weather data: %w", err)
	}
	p.metrics.RowsIngested.WithLabelValues("csv").Add(float64(t.Len()))
	p.logger.Info("weather data loaded", "rows", t.Len(), "columns", len(t.Columns()))

	matched, err := domain.ExtractAll(t, p.patterns, messageColumn)
	if err != nil {
		return nil, fmt.Errorf("extract measurements: %w", err)
	}
	for _, name := range p.patterns.Names() {
		hits := matched[name]
		p.metrics.MeasurementsExtracted.WithLabelValues(name, "match").Add(float64(hits))
		p.metrics.MeasurementsExtracted.WithLabelValues(name, "miss").Add(float64(t.Len() - hits))
		p.logger.Debug("measurement extracted", "measurement", name, "matches", hits)
	}

	agg, fellBack, err := domain.AggregateMeans(t, p.patterns.Names())
	if err != nil {
		p.metrics.AggregationSkips.Inc()
		p.logger.Warn("mean calculation skipped, continuing without aggregates", "reason", err)
		return t, nil
	}
	if fellBack {
		p.metrics.StationFallbacks.Inc()
		p.logger.Warn("no station column found, grouped by first column instead",
			"column", agg.Columns()[0])
	}
	p.aggregate = agg
	p.logger.Info("station means calculated", "stations", agg.Len(), "measurements", len(agg.Columns())-1)

	return t, nil
}

// Aggregate returns the per-station mean table from the most recent Process
// call, or nil when aggregation was skipped.
func (p *WeatherPipeline) Aggregate() *table.Table {
	return p.aggregate
}
