// Package domain encodes the correction and extraction rules for the Maji
// Ndogo farm survey and weather station data.
//
// # Survey Data Defects
//
// The farm survey table ships with three known data-entry defects:
//
//	Swapped columns:
//	  The crop-type and annual-yield columns are swapped relative to their
//	  declared names. The swap is repaired by an atomic pairwise relabel;
//	  afterwards the yield column is coerced to numeric, with residual text
//	  contamination becoming nulls rather than errors.
//	Negative elevations:
//	  An encoding artifact, not invalid data. Repaired by taking the
//	  absolute value.
//	Dirty crop vocabulary:
//	  Crop names carry stray whitespace, mixed case, and a handful of known
//	  misspellings ("cassaval" for "cassava", "wheatn" for "wheat", ...).
//	  Tokens are trimmed and lower-cased, then looked up in a configured
//	  correction map; unmapped tokens pass through unchanged.
//
// # Weather Messages
//
// Weather stations report free-text messages with embedded "key: value unit"
// fragments, e.g.
//
//	"Rainfall: 12.5mm, Temperature: 22C"
//
// Measurements are pulled out by a configured set of named regular-expression
// patterns, one per measurement type. For each pattern the first capturing
// group whose text is a plain numeric literal supplies the value; rows with
// no match get a null, which keeps zero measurements distinguishable from
// absent ones.
//
// # Aggregation
//
// Extracted measurements are averaged per weather station. The station
// identifier column is found by consulting a fixed priority list of accepted
// spellings; when none match, the first column is used as a best-effort
// fallback, which callers surface as a warning.
package domain
