// Package config holds the validated settings for the field and weather
// pipelines, populated from environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/majindogo/farm-data-etl/internal/domain"
)

// LogLevel is the three-valued diagnostic verbosity switch. It only affects
// logging output, never data outcomes.
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelNone  LogLevel = "NONE"
)

// ParseLogLevel maps a string onto a LogLevel, defaulting to INFO for
// unrecognized input.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "NONE":
		return LevelNone
	default:
		return LevelInfo
	}
}

// FieldConfig configures the field survey pipeline.
type FieldConfig struct {
	DBPath            string
	SQLQuery          string
	ColumnsToRename   domain.RenamePair
	ValuesToRename    map[string]string
	WeatherMappingCSV string
}

// Validate fails fast on missing required settings, naming the offending
// field.
func (c FieldConfig) Validate() error {
	switch {
	case c.DBPath == "":
		return fmt.Errorf("field config: db_path is required")
	case c.SQLQuery == "":
		return fmt.Errorf("field config: sql_query is required")
	case c.ColumnsToRename.A == "" || c.ColumnsToRename.B == "":
		return fmt.Errorf("field config: columns_to_rename requires both column names")
	case c.WeatherMappingCSV == "":
		return fmt.Errorf("field config: weather_mapping_csv is required")
	}
	return nil
}

// WeatherConfig configures the weather message pipeline.
type WeatherConfig struct {
	WeatherCSVPath string
	RegexPatterns  map[string]string
}

// Validate fails fast on missing required settings, naming the offending
// field.
func (c WeatherConfig) Validate() error {
	switch {
	case c.WeatherCSVPath == "":
		return fmt.Errorf("weather config: weather_csv_path is required")
	case len(c.RegexPatterns) == 0:
		return fmt.Errorf("weather config: regex_patterns is required")
	}
	return nil
}

// Config holds all service settings.
type Config struct {
	Field   FieldConfig
	Weather WeatherConfig

	LogLevel    LogLevel
	LogFormat   string
	HTTPTimeout time.Duration
}

// Defaults point at the public Maji Ndogo dataset.
const (
	defaultDBPath = "sqlite:///Maji_Ndogo_farm_survey_small.db"

	defaultSQLQuery = `SELECT *
FROM geographic_features
LEFT JOIN weather_features USING (Field_ID)
LEFT JOIN soil_and_crop_features USING (Field_ID)
LEFT JOIN farm_management_features USING (Field_ID)`

	defaultWeatherCSV = "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/Weather_station_data.csv"
	defaultMappingCSV = "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/Weather_data_field_mapping.csv"
)

func defaultValuesToRename() map[string]string {
	return map[string]string{
		"cassaval": "cassava",
		"wheatn":   "wheat",
		"teaa":     "tea",
	}
}

func defaultRegexPatterns() map[string]string {
	return map[string]string{
		"Rainfall":        `(\d+(\.\d+)?)\s?mm`,
		"Temperature":     `(\d+(\.\d+)?)\s?C`,
		"Pollution_level": `=\s*(-?\d+(\.\d+)?)|Pollution at \s*(-?\d+(\.\d+)?)`,
	}
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	pair, err := parseRenamePair(envOrDefault("COLUMNS_TO_RENAME", "Annual_yield:Crop_type"))
	if err != nil {
		return nil, err
	}

	valuesToRename := defaultValuesToRename()
	if v := os.Getenv("VALUES_TO_RENAME"); v != "" {
		if valuesToRename, err = parseStringMap("VALUES_TO_RENAME", v); err != nil {
			return nil, err
		}
	}

	regexPatterns := defaultRegexPatterns()
	if v := os.Getenv("REGEX_PATTERNS"); v != "" {
		if regexPatterns, err = parseStringMap("REGEX_PATTERNS", v); err != nil {
			return nil, err
		}
	}

	timeout, err := time.ParseDuration(envOrDefault("HTTP_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT")
	}

	cfg := &Config{
		Field: FieldConfig{
			DBPath:            envOrDefault("DB_PATH", defaultDBPath),
			SQLQuery:          envOrDefault("SQL_QUERY", defaultSQLQuery),
			ColumnsToRename:   pair,
			ValuesToRename:    valuesToRename,
			WeatherMappingCSV: envOrDefault("WEATHER_MAPPING_CSV", defaultMappingCSV),
		},
		Weather: WeatherConfig{
			WeatherCSVPath: envOrDefault("WEATHER_CSV_PATH", defaultWeatherCSV),
			RegexPatterns:  regexPatterns,
		},
		LogLevel:    ParseLogLevel(envOrDefault("LOG_LEVEL", "INFO")),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
		HTTPTimeout: timeout,
	}

	if err := cfg.Field.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Weather.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseRenamePair reads a "A:B" column pair.
func parseRenamePair(s string) (domain.RenamePair, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return domain.RenamePair{}, fmt.Errorf("COLUMNS_TO_RENAME must be of the form \"ColumnA:ColumnB\", got %q", s)
	}
	return domain.RenamePair{A: strings.TrimSpace(parts[0]), B: strings.TrimSpace(parts[1])}, nil
}

// parseStringMap reads a JSON object of string keys and values. JSON keeps
// regex metacharacters (commas, colons) unambiguous.
func parseStringMap(key, raw string) (map[string]string, error) {
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%s must be a JSON object of strings: %w", key, err)
	}
	return m, nil
}
