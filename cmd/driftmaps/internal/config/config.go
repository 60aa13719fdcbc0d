package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileName is the optional configuration file looked up in the working directory.
const FileName = "driftmaps.yaml"

// Config represents the optional driftmaps.yaml configuration.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Markers MarkersConfig `yaml:"markers"`
	Log     LogConfig     `yaml:"log"`
}

// MapConfig identifies the native map markers are replayed onto.
type MapConfig struct {
	ID int64 `yaml:"id,omitempty"`
}

// MarkersConfig controls marker diffing.
type MarkersConfig struct {
	// BitmapDiff makes bitmap URL changes re-icon a marker.
	BitmapDiff bool `yaml:"bitmapDiff,omitempty"`
}

// LogConfig controls error logging.
type LogConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
	// File, if set, receives error reports instead of stderr. The file is
	// rotated at 1MB.
	File string `yaml:"file,omitempty"`
}

// envOverrides are read from the environment and win over driftmaps.yaml.
type envOverrides struct {
	MapID      *int64  `env:"DRIFTMAPS_MAP_ID"`
	BitmapDiff *bool   `env:"DRIFTMAPS_BITMAP_DIFF"`
	Verbose    *bool   `env:"DRIFTMAPS_VERBOSE"`
	LogFile    *string `env:"DRIFTMAPS_LOG_FILE"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root       string
	MapID      int64
	BitmapDiff bool
	Verbose    bool
	LogFile    string
}

// LoadOptional reads driftmaps.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads driftmaps.yaml (if present), applies DRIFTMAPS_*
// environment overrides and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if overrides.MapID != nil {
		cfg.Map.ID = *overrides.MapID
	}
	if overrides.BitmapDiff != nil {
		cfg.Markers.BitmapDiff = *overrides.BitmapDiff
	}
	if overrides.Verbose != nil {
		cfg.Log.Verbose = *overrides.Verbose
	}
	if overrides.LogFile != nil {
		cfg.Log.File = *overrides.LogFile
	}

	mapID := cfg.Map.ID
	switch {
	case mapID == 0:
		mapID = 1
	case mapID < 0:
		return nil, fmt.Errorf("map.id must be positive (got %d)", mapID)
	}

	logFile := cfg.Log.File
	if logFile != "" && !filepath.IsAbs(logFile) {
		logFile = filepath.Join(dir, logFile)
	}

	return &Resolved{
		Root:       dir,
		MapID:      mapID,
		BitmapDiff: cfg.Markers.BitmapDiff,
		Verbose:    cfg.Log.Verbose,
		LogFile:    logFile,
	}, nil
}
