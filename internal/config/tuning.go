package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/strideworks/form.report/internal/engine"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for analysis tuning.
// The schema matches the /api/config endpoint so the same JSON can be
// used for both startup configuration and runtime inspection.
type TuningConfig struct {
	// Pose input params
	VisibilityFloor *float64 `json:"visibility_floor,omitempty"`
	FrameRate       *float64 `json:"frame_rate,omitempty"`

	// Segmentation overrides. Nil keeps the per-exercise profile value.
	MinRepFrames         *int `json:"min_rep_frames,omitempty"`
	MinFramesBeforeStart *int `json:"min_frames_before_start,omitempty"`

	// Retention params
	KeepRawFrames *bool `json:"keep_raw_frames,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.VisibilityFloor != nil {
		if *c.VisibilityFloor < 0 || *c.VisibilityFloor > 1 {
			return fmt.Errorf("visibility_floor must be between 0 and 1, got %f", *c.VisibilityFloor)
		}
	}
	if c.FrameRate != nil {
		if *c.FrameRate <= 0 {
			return fmt.Errorf("frame_rate must be positive, got %f", *c.FrameRate)
		}
	}
	if c.MinRepFrames != nil {
		if *c.MinRepFrames < 0 {
			return fmt.Errorf("min_rep_frames must be non-negative, got %d", *c.MinRepFrames)
		}
	}
	if c.MinFramesBeforeStart != nil {
		if *c.MinFramesBeforeStart < 0 {
			return fmt.Errorf("min_frames_before_start must be non-negative, got %d", *c.MinFramesBeforeStart)
		}
	}
	return nil
}

// GetVisibilityFloor returns the visibility_floor value or the default.
func (c *TuningConfig) GetVisibilityFloor() float64 {
	if c.VisibilityFloor == nil {
		return engine.DefaultVisibilityFloor
	}
	return *c.VisibilityFloor
}

// GetFrameRate returns the frame_rate value or the default.
func (c *TuningConfig) GetFrameRate() float64 {
	if c.FrameRate == nil {
		return 30.0
	}
	return *c.FrameRate
}

// GetKeepRawFrames returns the keep_raw_frames value or the default.
func (c *TuningConfig) GetKeepRawFrames() bool {
	if c.KeepRawFrames == nil {
		return false
	}
	return *c.KeepRawFrames
}

// SessionOptions maps the tuning config onto engine session options.
// Unset override fields stay nil so the profile values win.
func (c *TuningConfig) SessionOptions() engine.SessionOptions {
	return engine.SessionOptions{
		VisibilityFloor:      c.GetVisibilityFloor(),
		MinRepFrames:         c.MinRepFrames,
		MinFramesBeforeStart: c.MinFramesBeforeStart,
	}
}
