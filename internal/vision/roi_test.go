package vision

import "testing"

// maskFromRows builds a mask from strings of '.' and '#'.
func maskFromRows(rows []string) *Mask {
	m := NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

func TestROI_Validate(t *testing.T) {
	tests := []struct {
		name    string
		roi     ROI
		wantErr bool
	}{
		{
			name: "full frame",
			roi:  ROI{X: 0, Y: 0, W: 640, H: 480},
		},
		{
			name: "interior region",
			roi:  ROI{X: 100, Y: 50, W: 200, H: 100},
		},
		{
			name: "touching bottom-right corner",
			roi:  ROI{X: 600, Y: 440, W: 40, H: 40},
		},
		{
			name:    "zero width",
			roi:     ROI{X: 0, Y: 0, W: 0, H: 10},
			wantErr: true,
		},
		{
			name:    "negative origin",
			roi:     ROI{X: -1, Y: 0, W: 10, H: 10},
			wantErr: true,
		},
		{
			name:    "exceeds frame width",
			roi:     ROI{X: 600, Y: 0, W: 41, H: 10},
			wantErr: true,
		},
		{
			name:    "exceeds frame height",
			roi:     ROI{X: 0, Y: 470, W: 10, H: 11},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.roi.Validate(640, 480)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyROI_NilIsIdentity(t *testing.T) {
	m := maskFromRows([]string{
		"#..#",
		".##.",
		"#..#",
	})

	got := ApplyROI(m, nil)
	if got != m {
		t.Error("nil roi should return the input mask unchanged")
	}
}

func TestApplyROI_FullFrameIsIdentity(t *testing.T) {
	m := maskFromRows([]string{
		"#..#",
		".##.",
		"#..#",
	})

	got := ApplyROI(m, &ROI{X: 0, Y: 0, W: 4, H: 3})
	if !got.Equal(m) {
		t.Error("full-frame roi should preserve every cell")
	}
}

func TestApplyROI_ClearsOutsideRegion(t *testing.T) {
	m := maskFromRows([]string{
		"####",
		"####",
		"####",
	})

	roi := &ROI{X: 1, Y: 1, W: 2, H: 1}
	got := ApplyROI(m, roi)

	want := maskFromRows([]string{
		"....",
		".##.",
		"....",
	})
	if !got.Equal(want) {
		t.Errorf("filtered mask has %d set cells, want %d", got.Count(), want.Count())
	}

	// Input must not be mutated.
	if m.Count() != 12 {
		t.Error("ApplyROI mutated its input mask")
	}
}

func TestApplyROI_Idempotent(t *testing.T) {
	m := maskFromRows([]string{
		"####",
		"####",
		"####",
	})
	roi := &ROI{X: 1, Y: 0, W: 2, H: 2}

	once := ApplyROI(m, roi)
	twice := ApplyROI(once, roi)

	if !once.Equal(twice) {
		t.Error("applying the same roi twice changed the mask")
	}
}
