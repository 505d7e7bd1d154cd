package app

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/renderix/roadwatch/internal/vision"
)

// saveSnapshot writes the triggering frame to the detections directory as a
// JPEG with the detected blob's bounding box drawn in, and returns the file
// path.
func (a *App) saveSnapshot(det *vision.Detection) (string, error) {
	dir := a.config.Settings.DetectionsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create detections dir: %w", err)
	}

	frame := det.Frame
	mat, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8U, frame.Pix)
	if err != nil {
		return "", fmt.Errorf("build snapshot mat: %w", err)
	}
	defer mat.Close()

	gocv.Rectangle(&mat, det.Bounds, color.RGBA{R: 255, G: 255, B: 255, A: 255}, 2)

	name := fmt.Sprintf("detection_%s.jpg", det.Time.UTC().Format("2006-01-02T15-04-05.000"))
	path := filepath.Join(dir, name)

	if ok := gocv.IMWrite(path, mat); !ok {
		return "", fmt.Errorf("write snapshot %s", path)
	}
	return path, nil
}
