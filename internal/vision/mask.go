package vision

// Mask is a binary motion mask with the same dimensions as the frame it was
// computed from. True cells mark pixel-level change between consecutive
// frames. Masks are ephemeral: computed fresh on every pipeline pass.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask creates an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// At reports whether the cell at (x, y) is set.
func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

// Set marks or clears the cell at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.Width+x] = v
}

// Count returns the number of set cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := NewMask(m.Width, m.Height)
	copy(c.bits, m.bits)
	return c
}

// Equal reports whether two masks have identical dimensions and cells.
func (m *Mask) Equal(other *Mask) bool {
	if m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i := range m.bits {
		if m.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}
