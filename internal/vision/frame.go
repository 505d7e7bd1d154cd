// Package vision implements the motion detection core for the road watcher:
// frame differencing, region-of-interest filtering, and blob classification.
package vision

import "time"

// Frame is a grayscale video frame with a capture timestamp.
// Pixels are stored row-major, one byte per pixel. Frames are treated as
// immutable once handed to the pipeline; only the producer writes pixels.
type Frame struct {
	Width     int
	Height    int
	Pix       []uint8
	Timestamp time.Time
}

// NewFrame creates a zero-filled frame of the given dimensions.
func NewFrame(width, height int, ts time.Time) *Frame {
	return &Frame{
		Width:     width,
		Height:    height,
		Pix:       make([]uint8, width*height),
		Timestamp: ts,
	}
}

// At returns the intensity of the pixel at (x, y).
func (f *Frame) At(x, y int) uint8 {
	return f.Pix[y*f.Width+x]
}

// SetPix sets the intensity of the pixel at (x, y). Intended for frame
// construction (capture conversion and tests), not for pipeline stages.
func (f *Frame) SetPix(x, y int, v uint8) {
	f.Pix[y*f.Width+x] = v
}
