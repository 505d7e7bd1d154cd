// Package config loads and validates the road watcher configuration.
// Settings come from a JSON file with the keys the deployment has always
// used, overridable through ROADWATCH_* environment variables. The rest of
// the system receives an already-validated snapshot and never re-checks it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/renderix/roadwatch/internal/vision"
)

// Config is the immutable configuration snapshot for one process run.
type Config struct {
	CameraID    int `json:"camera_index" env:"ROADWATCH_CAMERA_INDEX"`
	FrameWidth  int `json:"frame_width" env:"ROADWATCH_FRAME_WIDTH"`
	FrameHeight int `json:"frame_height" env:"ROADWATCH_FRAME_HEIGHT"`
	FPS         int `json:"fps" env:"ROADWATCH_FPS"`

	LEDPin int `json:"led_pin" env:"ROADWATCH_LED_PIN"`

	// MinBlobArea is the inclusive pixel-area threshold for a motion blob
	// to count as vehicle-sized.
	MinBlobArea     int     `json:"min_blob_area" env:"ROADWATCH_MIN_BLOB_AREA"`
	AlertSeconds    float64 `json:"alert_duration" env:"ROADWATCH_ALERT_DURATION"`
	CooldownSeconds float64 `json:"detection_cooldown" env:"ROADWATCH_DETECTION_COOLDOWN"`

	// ROI restricts detection to [x, y, w, h] in frame coordinates.
	// Empty means the full frame.
	ROI []int `json:"roi" env:"ROADWATCH_ROI" envSeparator:","`

	SaveDetections bool   `json:"save_detections" env:"ROADWATCH_SAVE_DETECTIONS"`
	DetectionsDir  string `json:"detections_dir" env:"ROADWATCH_DETECTIONS_DIR"`
	DBPath         string `json:"db_path" env:"ROADWATCH_DB_PATH"`
	RetentionDays  int    `json:"retention_days" env:"ROADWATCH_RETENTION_DAYS"`

	ListenAddr string `json:"listen_addr" env:"ROADWATCH_LISTEN_ADDR"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		CameraID:        0,
		FrameWidth:      640,
		FrameHeight:     480,
		FPS:             30,
		LEDPin:          17,
		MinBlobArea:     5000,
		AlertSeconds:    5.0,
		CooldownSeconds: 2.0,
		SaveDetections:  false,
		DetectionsDir:   "detections",
		DBPath:          "roadwatch.db",
		RetentionDays:   30,
		ListenAddr:      ":8080",
	}
}

// Load reads the configuration file at path, applies environment
// overrides, validates the result, and returns it. A missing file is not an
// error: defaults are used and a warning is logged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("config file %s not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration. Rejecting a malformed region here is
// what lets the detection core assume every ROI it sees is in bounds.
func (c *Config) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return fmt.Errorf("frame size %dx%d must be positive", c.FrameWidth, c.FrameHeight)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.LEDPin < 0 {
		return fmt.Errorf("led_pin must not be negative, got %d", c.LEDPin)
	}
	if c.MinBlobArea <= 0 {
		return fmt.Errorf("min_blob_area must be positive, got %d", c.MinBlobArea)
	}
	if c.AlertSeconds <= 0 {
		return fmt.Errorf("alert_duration must be positive, got %v", c.AlertSeconds)
	}
	if c.CooldownSeconds < 0 {
		return fmt.Errorf("detection_cooldown must not be negative, got %v", c.CooldownSeconds)
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("retention_days must not be negative, got %d", c.RetentionDays)
	}

	if len(c.ROI) != 0 {
		if len(c.ROI) != 4 {
			return fmt.Errorf("roi must be [x, y, w, h], got %d values", len(c.ROI))
		}
		region := c.Region()
		if err := region.Validate(c.FrameWidth, c.FrameHeight); err != nil {
			return err
		}
	}

	if c.SaveDetections && c.DetectionsDir == "" {
		return fmt.Errorf("detections_dir required when save_detections is set")
	}

	return nil
}

// Region returns the configured region of interest, or nil for full frame.
func (c *Config) Region() *vision.ROI {
	if len(c.ROI) != 4 {
		return nil
	}
	return &vision.ROI{X: c.ROI[0], Y: c.ROI[1], W: c.ROI[2], H: c.ROI[3]}
}

// AlertDuration returns the alert episode length.
func (c *Config) AlertDuration() time.Duration {
	return time.Duration(c.AlertSeconds * float64(time.Second))
}

// Cooldown returns the post-episode quiet period.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds * float64(time.Second))
}
