package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestToFrame_NilAndEmpty(t *testing.T) {
	if _, err := ToFrame(nil, time.Now()); err == nil {
		t.Error("ToFrame(nil) should return an error")
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if _, err := ToFrame(&empty, time.Now()); err == nil {
		t.Error("ToFrame(empty mat) should return an error")
	}
}

func TestToFrame_ColorMat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer mat.Close()
	mat.SetTo(gocv.NewScalar(200, 200, 200, 0))

	ts := time.Unix(100, 0)
	frame, err := ToFrame(&mat, ts)
	if err != nil {
		t.Fatalf("ToFrame() error = %v", err)
	}

	if frame.Width != 64 || frame.Height != 48 {
		t.Errorf("frame dimensions = %dx%d, want 64x48", frame.Width, frame.Height)
	}
	if frame.Timestamp != ts {
		t.Errorf("Timestamp = %v, want %v", frame.Timestamp, ts)
	}

	// A uniform BGR(200,200,200) image converts to uniform gray ~200 and
	// the blur must not disturb a constant field.
	center := frame.At(32, 24)
	if center < 195 || center > 205 {
		t.Errorf("center pixel = %d, want ~200", center)
	}
}

func TestToFrame_GrayscaleMat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8U)
	defer mat.Close()

	frame, err := ToFrame(&mat, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("ToFrame() error = %v", err)
	}
	if frame.Width != 64 || frame.Height != 48 {
		t.Errorf("frame dimensions = %dx%d, want 64x48", frame.Width, frame.Height)
	}
}
