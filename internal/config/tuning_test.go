package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strideworks/form.report/internal/engine"
)

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "visibility_floor": 0.6,
  "frame_rate": 24,
  "min_rep_frames": 4,
  "min_frames_before_start": 10,
  "keep_raw_frames": true
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.VisibilityFloor == nil || *cfg.VisibilityFloor != 0.6 {
		t.Errorf("Expected VisibilityFloor 0.6, got %v", cfg.VisibilityFloor)
	}
	if cfg.FrameRate == nil || *cfg.FrameRate != 24 {
		t.Errorf("Expected FrameRate 24, got %v", cfg.FrameRate)
	}
	if cfg.MinRepFrames == nil || *cfg.MinRepFrames != 4 {
		t.Errorf("Expected MinRepFrames 4, got %v", cfg.MinRepFrames)
	}
	if cfg.MinFramesBeforeStart == nil || *cfg.MinFramesBeforeStart != 10 {
		t.Errorf("Expected MinFramesBeforeStart 10, got %v", cfg.MinFramesBeforeStart)
	}
	if cfg.KeepRawFrames == nil || *cfg.KeepRawFrames != true {
		t.Errorf("Expected KeepRawFrames true, got %v", cfg.KeepRawFrames)
	}
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "visibility_floor": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     &TuningConfig{},
			wantErr: false,
		},
		{
			name: "valid overrides",
			cfg: &TuningConfig{
				VisibilityFloor: ptrFloat64(0.7),
				MinRepFrames:    ptrInt(3),
			},
			wantErr: false,
		},
		{
			name: "visibility floor too low",
			cfg: &TuningConfig{
				VisibilityFloor: ptrFloat64(-0.1),
			},
			wantErr: true,
		},
		{
			name: "visibility floor too high",
			cfg: &TuningConfig{
				VisibilityFloor: ptrFloat64(1.5),
			},
			wantErr: true,
		},
		{
			name: "zero frame rate",
			cfg: &TuningConfig{
				FrameRate: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "negative min rep frames",
			cfg: &TuningConfig{
				MinRepFrames: ptrInt(-1),
			},
			wantErr: true,
		},
		{
			name: "negative min frames before start",
			cfg: &TuningConfig{
				MinFramesBeforeStart: ptrInt(-5),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.defaults.json")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	if cfg.GetVisibilityFloor() != 0.5 {
		t.Errorf("Expected 0.5, got %f", cfg.GetVisibilityFloor())
	}
	if cfg.GetFrameRate() != 30 {
		t.Errorf("Expected 30, got %f", cfg.GetFrameRate())
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	// Partial config: only override the floor; everything else keeps defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialJSON := `{
  "visibility_floor": 0.65
}`
	if err := os.WriteFile(configPath, []byte(partialJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadTuningConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load partial config: %v", err)
	}

	if cfg.GetVisibilityFloor() != 0.65 {
		t.Errorf("Expected overridden VisibilityFloor 0.65, got %f", cfg.GetVisibilityFloor())
	}
	if cfg.GetFrameRate() != 30 {
		t.Errorf("Expected default FrameRate 30, got %f", cfg.GetFrameRate())
	}
	if cfg.GetKeepRawFrames() != false {
		t.Errorf("Expected default KeepRawFrames false, got %v", cfg.GetKeepRawFrames())
	}
	if cfg.MinRepFrames != nil {
		t.Errorf("Expected MinRepFrames to stay nil, got %v", *cfg.MinRepFrames)
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("/some/path/config.yaml")
	if err == nil {
		t.Error("Expected error for non-.json extension, got nil")
	}
}

func TestLoadTuningConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	if err := os.WriteFile(configPath, largeData, 0644); err != nil {
		t.Fatalf("Failed to write large file: %v", err)
	}

	_, err := LoadTuningConfig(configPath)
	if err == nil {
		t.Error("Expected error for file size > 1MB, got nil")
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := &TuningConfig{}

	if cfg.GetVisibilityFloor() != engine.DefaultVisibilityFloor {
		t.Errorf("GetVisibilityFloor() = %f, want %f", cfg.GetVisibilityFloor(), engine.DefaultVisibilityFloor)
	}
	if cfg.GetFrameRate() != 30.0 {
		t.Errorf("GetFrameRate() = %f, want 30.0", cfg.GetFrameRate())
	}
	if cfg.GetKeepRawFrames() != false {
		t.Errorf("GetKeepRawFrames() = %v, want false", cfg.GetKeepRawFrames())
	}
}

func TestSessionOptionsMapping(t *testing.T) {
	minRep := 4
	cfg := &TuningConfig{
		VisibilityFloor: ptrFloat64(0.7),
		MinRepFrames:    &minRep,
	}
	opts := cfg.SessionOptions()
	if opts.VisibilityFloor != 0.7 {
		t.Errorf("VisibilityFloor = %f, want 0.7", opts.VisibilityFloor)
	}
	if opts.MinRepFrames == nil || *opts.MinRepFrames != 4 {
		t.Errorf("MinRepFrames = %v, want 4", opts.MinRepFrames)
	}
	if opts.MinFramesBeforeStart != nil {
		t.Errorf("MinFramesBeforeStart should stay nil, got %v", *opts.MinFramesBeforeStart)
	}
}
