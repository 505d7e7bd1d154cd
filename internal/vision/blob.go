package vision

import (
	"image"
	"time"
)

// Connectivity selects which neighbours count as connected during blob
// labeling.
type Connectivity int

const (
	// Connectivity4 connects cells sharing an edge.
	Connectivity4 Connectivity = 4
	// Connectivity8 also connects cells sharing only a corner. This is the
	// connectivity used by the classifier: vehicle silhouettes thinned by
	// thresholding stay in one piece across diagonal gaps.
	Connectivity8 Connectivity = 8
)

// Blob is a maximal connected region of set mask cells.
type Blob struct {
	Area   int
	Bounds image.Rectangle
}

// Detection records a vehicle-sized motion blob found in a frame.
type Detection struct {
	Time   time.Time
	Frame  *Frame
	Area   int
	Bounds image.Rectangle
}

// Classifier partitions motion masks into connected blobs and reports a
// detection when any blob reaches the configured minimum area.
type Classifier struct {
	minArea int
	conn    Connectivity
}

// NewClassifier creates a Classifier with the given inclusive area threshold
// and 8-connected labeling.
func NewClassifier(minArea int) *Classifier {
	return &Classifier{minArea: minArea, conn: Connectivity8}
}

// Classify labels the connected blobs of m and returns a Detection for the
// largest blob whose area is at least the classifier's threshold, or nil if
// no blob qualifies. Labeling scans row-major, so when two qualifying blobs
// have equal area the first one discovered wins; the result is deterministic
// for a given mask. An all-false mask yields nil.
func (c *Classifier) Classify(m *Mask, frame *Frame) *Detection {
	var best Blob
	for _, b := range c.Blobs(m) {
		if b.Area > best.Area {
			best = b
		}
	}

	if best.Area < c.minArea || best.Area == 0 {
		return nil
	}

	return &Detection{
		Time:   frame.Timestamp,
		Frame:  frame,
		Area:   best.Area,
		Bounds: best.Bounds,
	}
}

// Blobs returns all connected blobs of m in row-major discovery order.
func (c *Classifier) Blobs(m *Mask) []Blob {
	visited := make([]bool, len(m.bits))
	var blobs []Blob
	var queue []int

	for i, set := range m.bits {
		if !set || visited[i] {
			continue
		}

		// Flood-fill the component starting at i.
		blob := Blob{Bounds: image.Rect(i%m.Width, i/m.Width, i%m.Width+1, i/m.Width+1)}
		visited[i] = true
		queue = append(queue[:0], i)

		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			cx, cy := cur%m.Width, cur/m.Width

			blob.Area++
			blob.Bounds = blob.Bounds.Union(image.Rect(cx, cy, cx+1, cy+1))

			for _, d := range c.neighbours() {
				nx, ny := cx+d.X, cy+d.Y
				if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
					continue
				}
				n := ny*m.Width + nx
				if m.bits[n] && !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}

		blobs = append(blobs, blob)
	}

	return blobs
}

var (
	neighbours4 = []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	neighbours8 = []image.Point{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
)

func (c *Classifier) neighbours() []image.Point {
	if c.conn == Connectivity4 {
		return neighbours4
	}
	return neighbours8
}
