package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds the settings of one workflow run.
type Config struct {
	OutputDir      string
	CSVPath        string // when empty the synthetic dataset is materialized
	Rows           int
	Seed           int64
	Prop           float64
	Breaks         int
	Pool           float64
	OtherThreshold float64
	LogBase        float64
	SampleSize     int // records drawn for the map
	Neighbors      int // k of the nearest-neighbour baseline
	Bins           int
	LogLevel       string
}

// Default returns the settings of the reference run.
func Default() Config {
	return Config{
		OutputDir:      "out",
		Rows:           2930,
		Seed:           1,
		Prop:           0.75,
		Breaks:         4,
		Pool:           0.1,
		OtherThreshold: 0.05,
		LogBase:        10,
		SampleSize:     500,
		Neighbors:      10,
		Bins:           30,
		LogLevel:       "info",
	}
}

// Load is FromEnv followed by Validate.
func Load() (Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// FromEnv reads an optional .env file and then HOUSEPRICE_* variables on top
// of the defaults. A value that does not parse is an error; the result is not
// validated.
func FromEnv() (Config, error) {
	_ = godotenv.Load()
	d := Default()
	e := &envReader{}
	cfg := Config{
		OutputDir:      e.getEnvOrDefault("HOUSEPRICE_OUTPUT_DIR", d.OutputDir),
		CSVPath:        e.getEnvOrDefault("HOUSEPRICE_CSV", d.CSVPath),
		Rows:           e.getEnvIntOrDefault("HOUSEPRICE_ROWS", d.Rows),
		Seed:           int64(e.getEnvIntOrDefault("HOUSEPRICE_SEED", int(d.Seed))),
		Prop:           e.getEnvFloatOrDefault("HOUSEPRICE_PROP", d.Prop),
		Breaks:         e.getEnvIntOrDefault("HOUSEPRICE_BREAKS", d.Breaks),
		Pool:           e.getEnvFloatOrDefault("HOUSEPRICE_POOL", d.Pool),
		OtherThreshold: e.getEnvFloatOrDefault("HOUSEPRICE_OTHER_THRESHOLD", d.OtherThreshold),
		LogBase:        e.getEnvFloatOrDefault("HOUSEPRICE_LOG_BASE", d.LogBase),
		SampleSize:     e.getEnvIntOrDefault("HOUSEPRICE_SAMPLE_SIZE", d.SampleSize),
		Neighbors:      e.getEnvIntOrDefault("HOUSEPRICE_NEIGHBORS", d.Neighbors),
		Bins:           e.getEnvIntOrDefault("HOUSEPRICE_BINS", d.Bins),
		LogLevel:       e.getEnvOrDefault("LOG_LEVEL", d.LogLevel),
	}
	return cfg, e.err
}

// Validate rejects settings the workflow cannot run with.
func (c Config) Validate() error {
	switch {
	case c.OutputDir == "":
		return errors.Wrap(ErrInvalid, "output directory is required")
	case !(c.Prop > 0 && c.Prop < 1):
		return errors.Wrapf(ErrInvalid, "proportion %v outside (0,1)", c.Prop)
	case c.CSVPath == "" && c.Rows <= 0:
		return errors.Wrapf(ErrInvalid, "rows must be positive, got %d", c.Rows)
	case c.Breaks < 1:
		return errors.Wrapf(ErrInvalid, "breaks must be at least 1, got %d", c.Breaks)
	case c.Pool < 0 || c.Pool >= 1:
		return errors.Wrapf(ErrInvalid, "pool %v outside [0,1)", c.Pool)
	case c.OtherThreshold < 0 || c.OtherThreshold >= 1:
		return errors.Wrapf(ErrInvalid, "other threshold %v outside [0,1)", c.OtherThreshold)
	case !(c.LogBase > 0) || c.LogBase == 1:
		return errors.Wrapf(ErrInvalid, "log base %v", c.LogBase)
	case c.SampleSize < 0:
		return errors.Wrapf(ErrInvalid, "sample size %d", c.SampleSize)
	case c.Neighbors < 1:
		return errors.Wrapf(ErrInvalid, "neighbors %d", c.Neighbors)
	case c.Bins < 1:
		return errors.Wrapf(ErrInvalid, "bins %d", c.Bins)
	}
	return nil
}

// envReader keeps the first malformed variable it meets.
type envReader struct {
	err error
}

func (e *envReader) fail(key, value string) {
	if e.err == nil {
		e.err = errors.Wrapf(ErrInvalid, "%s=%q", key, value)
	}
}

func (e *envReader) getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (e *envReader) getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			e.fail(key, value)
			return defaultValue
		}
		return intValue
	}
	return defaultValue
}

func (e *envReader) getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			e.fail(key, value)
			return defaultValue
		}
		return floatValue
	}
	return defaultValue
}
