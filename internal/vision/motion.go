package vision

// DiffThreshold is the minimum absolute intensity difference between two
// frames for a pixel to count as changed. Fixed rather than configurable:
// it suppresses sensor and compression noise, and tuning detection happens
// at the blob area threshold instead.
const DiffThreshold = 25

// Extractor computes binary motion masks by differencing consecutive frames.
// It retains the most recent frame as the baseline for the next call, which
// makes it the only stateful stage before the alert machine.
type Extractor struct {
	prev *Frame
}

// NewExtractor creates an Extractor with no baseline frame.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract compares frame against the retained baseline and returns a mask
// whose cells are true where the absolute intensity difference exceeds
// DiffThreshold. The first call (or the first call after a dimension change)
// has no baseline to compare against and returns an all-false mask.
// Side effect: frame becomes the baseline for the next call.
func (e *Extractor) Extract(frame *Frame) *Mask {
	mask := NewMask(frame.Width, frame.Height)

	prev := e.prev
	e.prev = frame

	if prev == nil || prev.Width != frame.Width || prev.Height != frame.Height {
		// No usable baseline: camera just started or renegotiated resolution.
		return mask
	}

	for i, p := range frame.Pix {
		d := int(p) - int(prev.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > DiffThreshold {
			mask.bits[i] = true
		}
	}

	return mask
}

// Reset discards the retained baseline frame. The next Extract call returns
// an all-false mask regardless of content.
func (e *Extractor) Reset() {
	e.prev = nil
}
