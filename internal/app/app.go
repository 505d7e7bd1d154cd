// Package app wires the road watcher pipeline: camera frames in, motion
// extraction, region filtering, blob classification, and the alert state
// machine driving the indicator.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/renderix/roadwatch/internal/alert"
	"github.com/renderix/roadwatch/internal/capture"
	"github.com/renderix/roadwatch/internal/config"
	"github.com/renderix/roadwatch/internal/store"
	"github.com/renderix/roadwatch/internal/vision"
)

// Config holds the collaborators the application runs against. Camera and
// Actuator are required; Store is optional (detections are then not
// persisted); Now defaults to time.Now and exists so tests can drive the
// pipeline with simulated time.
type Config struct {
	Settings *config.Config
	Camera   capture.Camera
	Actuator alert.Actuator
	Store    *store.Store
	Now      func() time.Time
}

// App owns the detection pipeline and its per-run state: the extractor's
// retained baseline frame and the alert machine.
type App struct {
	config     Config
	camera     capture.Camera
	extractor  *vision.Extractor
	classifier *vision.Classifier
	machine    *alert.Machine
	roi        *vision.ROI
	now        func() time.Time

	mu      sync.RWMutex
	enabled bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	lastMu     sync.Mutex
	lastDetect time.Time
	lastArea   int
}

// New creates an App from the given collaborators.
func New(cfg Config) *App {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	settings := cfg.Settings

	a := &App{
		config:     cfg,
		camera:     cfg.Camera,
		extractor:  vision.NewExtractor(),
		classifier: vision.NewClassifier(settings.MinBlobArea),
		machine:    alert.NewMachine(cfg.Actuator, settings.AlertDuration(), settings.Cooldown()),
		roi:        settings.Region(),
		now:        now,
		enabled:    true,
	}
	a.machine.SetRecorder(a)

	return a
}

// SetEnabled pauses or resumes detection. While paused, frames are not read
// and the machine is not ticked.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and launches the pipeline goroutine.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.Settings.FPS)

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	log.Println("Detection pipeline started")
	return nil
}

// Stop halts the pipeline, forces the indicator off, and closes the camera.
// It waits for the pipeline goroutine to exit before deactivating, so an
// in-flight iteration cannot tick the machine back on; the indicator is
// then off regardless of the machine's state when Stop was called.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.machine.Shutdown(); err != nil {
		log.Printf("Error deactivating indicator: %v", err)
	}

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	log.Println("Detection pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Machine returns the alert state machine.
func (a *App) Machine() *alert.Machine {
	return a.machine
}

// LastDetection returns the time and blob area of the most recent alert
// episode. The bool is false if no episode has occurred yet.
func (a *App) LastDetection() (time.Time, int, bool) {
	a.lastMu.Lock()
	defer a.lastMu.Unlock()
	if a.lastDetect.IsZero() {
		return time.Time{}, 0, false
	}
	return a.lastDetect, a.lastArea, true
}

// Record implements alert.Recorder. The machine calls it once per alert
// episode with the triggering detection; it updates the status counters and
// persists the event (with snapshot, when enabled).
func (a *App) Record(det *vision.Detection) {
	a.lastMu.Lock()
	a.lastDetect = det.Time
	a.lastArea = det.Area
	a.lastMu.Unlock()

	log.Printf("Vehicle detected at %s (blob area %d px)",
		det.Time.Format(time.RFC3339), det.Area)

	row := &store.Detection{
		DetectedAt: det.Time,
		Area:       det.Area,
		X:          det.Bounds.Min.X,
		Y:          det.Bounds.Min.Y,
		Width:      det.Bounds.Dx(),
		Height:     det.Bounds.Dy(),
	}

	if a.config.Settings.SaveDetections {
		path, err := a.saveSnapshot(det)
		if err != nil {
			log.Printf("Failed to save detection snapshot: %v", err)
		} else {
			row.SnapshotPath = path
		}
	}

	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Detections().Create(row); err != nil {
		log.Printf("Failed to persist detection: %v", err)
	}
}
