package app

import (
	"errors"
	"log"
	"time"

	"github.com/renderix/roadwatch/internal/capture"
	"github.com/renderix/roadwatch/internal/vision"
)

// runPipeline is the single-goroutine detection loop. One frame in, one
// decision out, per tick: read → grayscale/blur → difference → ROI filter →
// classify → alert machine. The only state crossing iterations is the
// extractor's retained frame and the machine itself. done is closed on
// exit; Stop blocks on it so shutdown never races a frame in flight.
func (a *App) runPipeline(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := time.Second / time.Duration(a.config.Settings.FPS)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			mat, err := a.camera.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrStreamEnded) {
					// Stream lifecycle belongs to the caller; the
					// loop just ends. No frame, no evaluation tick.
					log.Println("Frame stream ended, stopping pipeline")
					return
				}
				log.Printf("Error reading frame: %v", err)
				continue
			}

			frame, err := capture.ToFrame(mat, a.now())
			mat.Close()
			if err != nil {
				log.Printf("Error converting frame: %v", err)
				continue
			}

			mask := a.extractor.Extract(frame)
			mask = vision.ApplyROI(mask, a.roi)
			det := a.classifier.Classify(mask, frame)

			if err := a.machine.Tick(frame.Timestamp, det); err != nil {
				// The machine already advanced; the next transition
				// retries the hardware.
				log.Printf("Actuator command failed: %v", err)
			}
		}
	}
}
