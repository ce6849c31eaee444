// Package pipeline sequences the ingestion, correction, extraction, and
// aggregation stages end to end. Each pipeline instance owns its own
// configuration and tables; instances share nothing and may run concurrently
// without coordination.
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

// TableFetcher acquires a table from the relational store.
type TableFetcher interface {
	FetchTable(ctx context.Context, query string) (*table.Table, error)
}

// CSVFetcher acquires a table from a remote CSV document.
type CSVFetcher interface {
	FetchCSV(ctx context.Context, url string) (*table.Table, error)
}

// indexArtifactColumn is the positional index column some upstream CSV
// exports carry; it is dropped from the joined result when present.
const indexArtifactColumn = "Unnamed: 0"

// FieldPipeline processes the farm survey table: ingest, repair the known
// data defects, and join the weather station mapping.
type FieldPipeline struct {
	cfg     config.FieldConfig
	store   TableFetcher
	csv     CSVFetcher
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

// NewFieldPipeline validates the configuration and builds a field pipeline.
func NewFieldPipeline(cfg config.FieldConfig, store TableFetcher, csv CSVFetcher, logger *slog.Logger, metrics *observability.Metrics) (*FieldPipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &FieldPipeline{
		cfg:     cfg,
		store:   store,
		csv:     csv,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}, nil
}

// SetClock swaps the time source used for duration metrics. Tests inject a
// fake for deterministic output; pass nil to reset to real time.
func (p *FieldPipeline) SetClock(c clockwork.Clock) {
	if c == nil {
		p.clock = clockwork.NewRealClock()
		return
	}
	p.clock = c
}

// Process runs the pipeline to completion: ingest the survey table, apply
// corrections, fetch the station mapping, left-join it on Field_ID, and
// drop the positional index artifact if one survived the join. Any failure
// aborts the pipeline and is reported with its originating stage.
func (p *FieldPipeline) Process(ctx context.Context) (*table.Table, error) {
	start := p.clock.Now()

	result, err := p.run(ctx)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	p.metrics.PipelineRuns.WithLabelValues("field", outcome).Inc()
	p.metrics.PipelineDuration.WithLabelValues("field").Observe(p.clock.Since(start).Seconds())
	return result, err
}

func (p *FieldPipeline) run(ctx context.Context) (*table.Table, error) {
	t, err := p.store.FetchTable(ctx, p.cfg.SQLQuery)
	if err != nil {
		return nil, fmt.Errorf("ingest survey data: %w", err)
	}
	p.metrics.RowsIngested.WithLabelValues("database").Add(float64(t.Len()))
	p.logger.Info("survey data loaded", "rows", t.Len(), "columns", len(t.Columns()))

	if err := domain.CorrectFieldTable(t, p.cfg.ColumnsToRename, p.cfg.ValuesToRename, domain.CorrectOptions{}); err != nil {
		return nil, fmt.Errorf("apply corrections: %w", err)
	}
	p.metrics.RowsCorrected.Add(float64(t.Len()))
	p.logger.Info("corrections applied",
		"swapped", fmt.Sprintf("%s<->%s", p.cfg.ColumnsToRename.A, p.cfg.ColumnsToRename.B))

	mapping, err := p.csv.FetchCSV(ctx, p.cfg.WeatherMappingCSV)
	if err != nil {
		return nil, fmt.Errorf("fetch station mapping: %w", err)
	}
	p.metrics.RowsIngested.WithLabelValues("csv").Add(float64(mapping.Len()))

	joined, err := t.LeftJoin(mapping, "Field_ID")
	if err != nil {
		return nil, fmt.Errorf("join station mapping: %w", err)
	}
	if joined.Has(indexArtifactColumn) {
		if err := joined.Drop(indexArtifactColumn); err != nil {
			return nil, fmt.Errorf("drop index artifact: %w", err)
		}
	}

	p.logger.Info("field data processing complete", "rows", joined.Len(), "columns", len(joined.Columns()))
	return joined, nil
}
