package vision

import "fmt"

// ROI is an axis-aligned region of interest in frame coordinates.
// A nil *ROI means the full frame.
type ROI struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Validate checks that the region has positive extent and lies entirely
// within a frame of the given dimensions.
func (r *ROI) Validate(frameWidth, frameHeight int) error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("roi %dx%d has non-positive extent", r.W, r.H)
	}
	if r.X < 0 || r.Y < 0 {
		return fmt.Errorf("roi origin (%d,%d) is negative", r.X, r.Y)
	}
	if r.X+r.W > frameWidth || r.Y+r.H > frameHeight {
		return fmt.Errorf("roi (%d,%d %dx%d) exceeds frame %dx%d",
			r.X, r.Y, r.W, r.H, frameWidth, frameHeight)
	}
	return nil
}

// contains reports whether (x, y) lies inside the region.
func (r *ROI) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// ApplyROI returns a mask equal to m with every cell outside roi forced
// false. A nil roi returns m unchanged. The input mask is never mutated,
// and applying the same region twice is idempotent.
func ApplyROI(m *Mask, roi *ROI) *Mask {
	if roi == nil {
		return m
	}

	filtered := NewMask(m.Width, m.Height)
	for y := roi.Y; y < roi.Y+roi.H && y < m.Height; y++ {
		for x := roi.X; x < roi.X+roi.W && x < m.Width; x++ {
			if m.At(x, y) {
				filtered.Set(x, y, true)
			}
		}
	}
	return filtered
}
