package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majindogo/farm-data-etl/internal/table"
)

func TestFindStationColumn(t *testing.T) {
	t.Run("known alias", func(t *testing.T) {
		tbl := table.New()
		require.NoError(t, tbl.AddColumn("Message", []any{"x"}))
		require.NoError(t, tbl.AddColumn("Weather_station", []any{1.0}))

		name, fellBack, found := FindStationColumn(tbl)
		assert.True(t, found)
		assert.False(t, fellBack)
		assert.Equal(t, "Weather_station", name)
	})

	t.Run("alias priority order", func(t *testing.T) {
		tbl := table.New()
		require.NoError(t, tbl.AddColumn("Station_ID", []any{1.0}))
		require.NoError(t, tbl.AddColumn("Station", []any{2.0}))

		name, fellBack, found := FindStationColumn(tbl)
		assert.True(t, found)
		assert.False(t, fellBack)
		assert.Equal(t, "Station", name)
	})

	t.Run("fallback to first column", func(t *testing.T) {
		tbl := table.New()
		require.NoError(t, tbl.AddColumn("Sensor", []any{1.0}))
		require.NoError(t, tbl.AddColumn("Message", []any{"x"}))

		name, fellBack, found := FindStationColumn(tbl)
		assert.True(t, found)
		assert.True(t, fellBack)
		assert.Equal(t, "Sensor", name)
	})

	t.Run("no columns", func(t *testing.T) {
		_, _, found := FindStationColumn(table.New())
		assert.False(t, found)
	})
}

func TestAggregateMeans(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Weather_station", []any{1.0, 1.0, 1.0, 2.0}))
	require.NoError(t, tbl.AddColumn("Rainfall", []any{10.0, nil, 20.0, 7.0}))
	require.NoError(t, tbl.AddColumn("Temperature", []any{nil, nil, nil, 21.0}))

	agg, fellBack, err := AggregateMeans(tbl, []string{"Rainfall", "Temperature"})
	require.NoError(t, err)
	assert.False(t, fellBack)

	assert.Equal(t, []string{"Weather_station", "Rainfall", "Temperature"}, agg.Columns())
	assert.Equal(t, 2, agg.Len())

	rain, err := agg.Col("Rainfall")
	require.NoError(t, err)
	// Nulls are excluded from the mean, not treated as zero.
	assert.Equal(t, []any{15.0, 7.0}, rain)

	temp, err := agg.Col("Temperature")
	require.NoError(t, err)
	// Station 1 has no temperature readings at all: null cell, not zero.
	assert.Equal(t, []any{nil, 21.0}, temp)
}

func TestAggregateMeans_AllNullMeasurementExcluded(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Weather_station", []any{1.0, 2.0}))
	require.NoError(t, tbl.AddColumn("Rainfall", []any{3.0, 4.0}))
	require.NoError(t, tbl.AddColumn("Pollution_level", []any{nil, nil}))

	agg, _, err := AggregateMeans(tbl, []string{"Rainfall", "Pollution_level"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Weather_station", "Rainfall"}, agg.Columns())
	assert.False(t, agg.Has("Pollution_level"))
}

func TestAggregateMeans_MissingPatternColumnIgnored(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Weather_station", []any{1.0}))
	require.NoError(t, tbl.AddColumn("Rainfall", []any{5.0}))

	agg, _, err := AggregateMeans(tbl, []string{"Rainfall", "Wind_speed"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Weather_station", "Rainfall"}, agg.Columns())
}

func TestAggregateMeans_FallbackIdentifier(t *testing.T) {
	// No recognizable station column: the first column becomes the group key
	// and aggregation still succeeds.
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Sensor", []any{"a", "b", "a"}))
	require.NoError(t, tbl.AddColumn("Rainfall", []any{1.0, 2.0, 3.0}))

	agg, fellBack, err := AggregateMeans(tbl, []string{"Rainfall"})
	require.NoError(t, err)
	assert.True(t, fellBack)

	assert.Equal(t, []string{"Sensor", "Rainfall"}, agg.Columns())
	keys, err := agg.Col("Sensor")
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, keys)

	rain, err := agg.Col("Rainfall")
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 2.0}, rain)
}

func TestAggregateMeans_NoResult(t *testing.T) {
	t.Run("empty table", func(t *testing.T) {
		_, _, err := AggregateMeans(table.New(), []string{"Rainfall"})
		require.ErrorIs(t, err, ErrEmptyTable)
	})

	t.Run("no qualifying measurements", func(t *testing.T) {
		tbl := table.New()
		require.NoError(t, tbl.AddColumn("Weather_station", []any{1.0}))
		require.NoError(t, tbl.AddColumn("Rainfall", []any{nil}))

		_, _, err := AggregateMeans(tbl, []string{"Rainfall"})
		require.ErrorIs(t, err, ErrNoMeasurements)
	})
}

func TestAggregateMeans_GroupOrderIsFirstSeen(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("Weather_station", []any{3.0, 1.0, 3.0, 2.0}))
	require.NoError(t, tbl.AddColumn("Rainfall", []any{1.0, 1.0, 1.0, 1.0}))

	agg, _, err := AggregateMeans(tbl, []string{"Rainfall"})
	require.NoError(t, err)

	keys, err := agg.Col("Weather_station")
	require.NoError(t, err)
	assert.Equal(t, []any{3.0, 1.0, 2.0}, keys)
}
