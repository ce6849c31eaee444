package domain

import (
	"errors"

	"github.com/majindogo/farm-data-etl/internal/table"
)

// stationAliases lists the accepted spellings for the weather station
// identifier column, consulted in priority order.
var stationAliases = []string{
	"Weather_station",
	"Station",
	"weather_station",
	"Weather_Station",
	"Station_ID",
}

// Sentinel errors for aggregation preconditions. Both mean "no result";
// callers treat them as recoverable conditions, not pipeline failures.
var (
	// ErrEmptyTable is returned when the table has no columns at all.
	ErrEmptyTable = errors.New("table has no columns")
	// ErrNoMeasurements is returned when no measurement column qualifies
	// for aggregation (absent, or all-null after extraction).
	ErrNoMeasurements = errors.New("no measurement columns with data")
)

// FindStationColumn searches the table's columns for the station identifier,
// trying each accepted spelling in priority order. When none match it falls
// back to the table's first column; fellBack reports that this best-effort
// default fired so callers can warn about it. found is false only for a
// table with zero columns.
func FindStationColumn(t *table.Table) (name string, fellBack, found bool) {
	for _, alias := range stationAliases {
		if t.Has(alias) {
			return alias, false, true
		}
	}
	columns := t.Columns()
	if len(columns) == 0 {
		return "", false, false
	}
	return columns[0], true, true
}

// AggregateMeans groups the table by station identity and computes the
// arithmetic mean of each qualifying measurement column per group, ignoring
// nulls. A measurement qualifies when it exists as a column and holds at
// least one non-null value; all-null columns carry no information and are
// silently excluded. A group with zero non-null values for a measurement
// yields a null cell.
//
// The result is a new table: the station column first (groups in first-seen
// row order), then one column per qualifying measurement. fellBack reports
// that the station column was a positional fallback rather than a known
// alias. The error, when non-nil, is ErrEmptyTable or ErrNoMeasurements.
func AggregateMeans(t *table.Table, patternNames []string) (agg *table.Table, fellBack bool, err error) {
	stationColumn, fellBack, found := FindStationColumn(t)
	if !found {
		return nil, false, ErrEmptyTable
	}

	var measurements []string
	for _, name := range patternNames {
		values, err := t.Col(name)
		if err != nil {
			continue
		}
		if anyNonNull(values) {
			measurements = append(measurements, name)
		}
	}
	if len(measurements) == 0 {
		return nil, fellBack, ErrNoMeasurements
	}

	stations, err := t.Col(stationColumn)
	if err != nil {
		return nil, fellBack, err
	}

	// Group rows by station value in first-seen order.
	groupIndex := make(map[any]int)
	var groupKeys []any
	var groupRows [][]int
	for i, station := range stations {
		g, seen := groupIndex[station]
		if !seen {
			g = len(groupKeys)
			groupIndex[station] = g
			groupKeys = append(groupKeys, station)
			groupRows = append(groupRows, nil)
		}
		groupRows[g] = append(groupRows[g], i)
	}

	agg = table.New()
	if err := agg.AddColumn(stationColumn, groupKeys); err != nil {
		return nil, fellBack, err
	}
	for _, name := range measurements {
		values, _ := t.Col(name)
		means := make([]any, len(groupKeys))
		for g, rows := range groupRows {
			if mean, ok := meanOf(values, rows); ok {
				means[g] = mean
			}
		}
		if err := agg.AddColumn(name, means); err != nil {
			return nil, fellBack, err
		}
	}
	return agg, fellBack, nil
}

func anyNonNull(values []any) bool {
	for _, v := range values {
		if v != nil {
			return true
		}
	}
	return false
}

// meanOf averages the non-null values at the given row indexes. ok is false
// when every value is null; the caller records a null cell, not a zero.
func meanOf(values []any, rows []int) (float64, bool) {
	var sum float64
	var count int
	for _, i := range rows {
		if f, ok := table.AsFloat(values[i]); values[i] != nil && ok {
			sum += f
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
