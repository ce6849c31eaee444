package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/majindogo/farm-data-etl/internal/table"
)

// RenamePair names two columns whose data is swapped: the values currently
// under A belong under B and vice versa.
type RenamePair struct {
	A string
	B string
}

// CorrectOptions selects the columns the field corrections operate on.
// Zero values fall back to the survey schema's defaults.
type CorrectOptions struct {
	CropColumn      string
	ElevationColumn string
	YieldColumn     string
}

func (o CorrectOptions) withDefaults() CorrectOptions {
	if o.CropColumn == "" {
		o.CropColumn = "Crop_type"
	}
	if o.ElevationColumn == "" {
		o.ElevationColumn = "Elevation"
	}
	if o.YieldColumn == "" {
		o.YieldColumn = "Annual_yield"
	}
	return o
}

// CorrectFieldTable repairs the known defects of the farm survey table in
// place: it swaps the misnamed column pair, coerces the yield column to
// numeric (unparseable cells become nulls), replaces negative elevations
// with their absolute value, and normalizes the crop-type vocabulary
// through the given correction map.
//
// A missing column is a configuration error and aborts the correction;
// dirty values never do.
func CorrectFieldTable(t *table.Table, pair RenamePair, valueMap map[string]string, opts CorrectOptions) error {
	opts = opts.withDefaults()

	if err := t.SwapNames(pair.A, pair.B); err != nil {
		return fmt.Errorf("swap columns: %w", err)
	}
	if err := t.CoerceFloat(opts.YieldColumn); err != nil {
		return fmt.Errorf("coerce yield column: %w", err)
	}
	if err := repairElevation(t, opts.ElevationColumn); err != nil {
		return fmt.Errorf("repair elevation: %w", err)
	}
	if err := repairVocabulary(t, opts.CropColumn, valueMap); err != nil {
		return fmt.Errorf("repair crop names: %w", err)
	}
	return nil
}

// repairElevation replaces every numeric elevation with its absolute value.
// Non-numeric cells are left untouched.
func repairElevation(t *table.Table, column string) error {
	values, err := t.Col(column)
	if err != nil {
		return err
	}
	for i, v := range values {
		if v == nil {
			continue
		}
		if f, ok := table.AsFloat(v); ok {
			values[i] = math.Abs(f)
		}
	}
	return nil
}

// repairVocabulary trims and lower-cases every token of the column, then
// substitutes tokens present in the correction map with their canonical
// spelling. Unmapped tokens pass through unchanged; no row is ever dropped.
func repairVocabulary(t *table.Table, column string, valueMap map[string]string) error {
	values, err := t.Col(column)
	if err != nil {
		return err
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		token := NormalizeToken(s)
		if canonical, found := valueMap[token]; found {
			token = canonical
		}
		values[i] = token
	}
	return nil
}

// NormalizeToken trims surrounding whitespace and lower-cases a vocabulary
// token. The operation is idempotent.
func NormalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
