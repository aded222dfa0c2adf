// Package config loads alndiff settings from YAML. Command-line flags are
// applied on top by the app.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"alndiff/internal/logging"
	"alndiff/internal/output"
	"alndiff/internal/reconcile"
	"alndiff/internal/span"
)

const (
	userConfigDir  = "alndiff"
	configFileName = "config.yaml"
)

// Config mirrors the YAML file.
type Config struct {
	Mode            string   `yaml:"mode"`
	Rows            string   `yaml:"rows"`
	OverlapRows     string   `yaml:"overlap_rows"`
	Strict          bool     `yaml:"strict"`
	RealTolerance   float64  `yaml:"real_tolerance"`
	Disambiguating  []string `yaml:"disambiguating"`
	Quality         []string `yaml:"quality"`
	Distributive    []string `yaml:"distributive"`
	IgnoreAbsent    bool     `yaml:"ignore_absent"`
	SplitBoundaries bool     `yaml:"split_boundaries"`

	Output Output `yaml:"output"`
	Log    Log    `yaml:"log"`
}

type Output struct {
	Format          string `yaml:"format"`
	Header          bool   `yaml:"header"`
	Stats           string `yaml:"stats"`
	NoMatchExitCode int    `yaml:"no_match_exit_code"`
}

type Log struct {
	Level string `yaml:"level"`
}

func Default() Config {
	rc := reconcile.DefaultConfig()
	return Config{
		Mode:           rc.Mode.String(),
		Rows:           rc.Rows.String(),
		OverlapRows:    rc.OverlapRows.String(),
		RealTolerance:  rc.RealTolerance,
		Disambiguating: rc.Disambiguating,
		Output: Output{
			Format:          output.FormatText,
			Header:          true,
			Stats:           output.StatsTable,
			NoMatchExitCode: 1,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath is the per-user config file, or "" when there is no home.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, userConfigDir, configFileName)
}

// Load reads path on top of Default. A missing file is not an error.
func Load(path string, logger *slog.Logger) (Config, error) {
	log := logging.For(logger, logging.Config)
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Info("no config file, using defaults", "path", path)
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	if _, err := cfg.Reconcile(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded configuration", "path", path)
	return cfg, nil
}

// Reconcile validates c and converts it to the driver's value object.
func (c Config) Reconcile() (reconcile.Config, error) {
	var (
		rc  reconcile.Config
		err error
	)
	if rc.Mode, err = span.ParseMode(c.Mode); err != nil {
		return rc, err
	}
	if rc.Rows, err = span.ParseRows(c.Rows); err != nil {
		return rc, fmt.Errorf("rows: %w", err)
	}
	if rc.OverlapRows, err = span.ParseRows(c.OverlapRows); err != nil {
		return rc, fmt.Errorf("overlap_rows: %w", err)
	}
	if c.RealTolerance < 0 {
		return rc, fmt.Errorf("real_tolerance must be >= 0, got %g", c.RealTolerance)
	}
	rc.Strict = c.Strict
	rc.RealTolerance = c.RealTolerance
	rc.Disambiguating = c.Disambiguating
	rc.Quality = c.Quality
	rc.Distributive = c.Distributive
	rc.IgnoreAbsent = c.IgnoreAbsent
	rc.SplitBoundaries = c.SplitBoundaries
	return rc, nil
}
