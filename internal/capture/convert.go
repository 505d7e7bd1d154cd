package capture

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"

	"github.com/renderix/roadwatch/internal/vision"
)

// GaussianBlurSize is the kernel size for the pre-differencing blur (21x21).
// Blurring before differencing suppresses sensor noise that would otherwise
// survive the per-pixel threshold.
const GaussianBlurSize = 21

// ToFrame converts a captured BGR Mat into a grayscale, blurred
// vision.Frame tagged with the given timestamp. The input Mat is not
// modified and remains owned by the caller.
func ToFrame(mat *gocv.Mat, ts time.Time) (*vision.Frame, error) {
	if mat == nil || mat.Empty() {
		return nil, fmt.Errorf("cannot convert empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if mat.Channels() > 1 {
		gocv.CvtColor(*mat, &gray, gocv.ColorBGRToGray)
	} else {
		mat.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	data, err := blurred.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("read frame pixels: %w", err)
	}

	frame := vision.NewFrame(blurred.Cols(), blurred.Rows(), ts)
	copy(frame.Pix, data)
	return frame, nil
}
