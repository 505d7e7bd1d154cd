package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
		frames[i] = &mat
		t.Cleanup(func() { mat.Close() })
	}
	return frames
}

func TestMockCamera_ReadBeforeOpen(t *testing.T) {
	c := NewMockCamera(nil, false)
	if _, err := c.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_PlaysBackSequence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	c := NewMockCamera(testFrames(t, 3), false)
	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	for i := 0; i < 3; i++ {
		frame, err := c.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		frame.Close()
	}

	if _, err := c.ReadFrame(); !errors.Is(err, ErrStreamEnded) {
		t.Errorf("ReadFrame() after last frame error = %v, want ErrStreamEnded", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	c := NewMockCamera(testFrames(t, 2), true)
	if err := c.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	for i := 0; i < 5; i++ {
		frame, err := c.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v, want looped playback", i, err)
		}
		frame.Close()
	}
}

func TestMockCamera_EmptySequence(t *testing.T) {
	c := NewMockCamera(nil, true)
	c.Open()
	defer c.Close()

	if _, err := c.ReadFrame(); !errors.Is(err, ErrStreamEnded) {
		t.Errorf("ReadFrame() error = %v, want ErrStreamEnded", err)
	}
}
