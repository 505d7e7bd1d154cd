// Road watcher daemon: watches a blind road corner through a fixed camera
// and drives an LED alert when vehicle-sized motion approaches.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/renderix/roadwatch/internal/alert"
	"github.com/renderix/roadwatch/internal/app"
	"github.com/renderix/roadwatch/internal/capture"
	"github.com/renderix/roadwatch/internal/config"
	"github.com/renderix/roadwatch/internal/server"
	"github.com/renderix/roadwatch/internal/store"
)

func main() {
	configPath := flag.String("config", "config.json", "path to configuration file")
	flag.Parse()

	fmt.Println("Road Watcher - Vehicle Detection System")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if cfg.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
		if n, err := st.Detections().PruneBefore(cutoff); err != nil {
			log.Printf("Failed to prune old detections: %v", err)
		} else if n > 0 {
			log.Printf("Pruned %d detections older than %d days", n, cfg.RetentionDays)
		}
	}

	actuator, cleanup := newActuator(cfg.LEDPin)
	defer cleanup()

	application := app.New(app.Config{
		Settings: cfg,
		Camera:   capture.NewCameraWithSize(cfg.CameraID, cfg.FrameWidth, cfg.FrameHeight),
		Actuator: actuator,
		Store:    st,
	})

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start detection pipeline: %v", err)
	}

	srv := server.New(server.Config{
		Store: st,
		App:   application,
	})

	go func() {
		log.Printf("Starting server on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Block until asked to shut down; Stop guarantees the LED is left off.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %s, shutting down...", sig)

	application.Stop()
}

// newActuator returns a sysfs GPIO LED when available, falling back to the
// simulated actuator on development machines without GPIO.
func newActuator(pin int) (alert.Actuator, func()) {
	led, err := alert.NewLED(pin)
	if err != nil {
		log.Printf("GPIO unavailable (%v), running in simulation mode", err)
		return alert.NewSimulated(), func() {}
	}

	log.Printf("LED actuator initialized on GPIO %d", pin)
	return led, func() {
		if err := led.Close(); err != nil {
			log.Printf("Error releasing GPIO %d: %v", pin, err)
		}
	}
}
