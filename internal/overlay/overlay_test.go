package overlay

import (
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/testutil"
)

func TestDraw(t *testing.T) {
	hands := gesture.DeriveAll([]detector.HandInfo{
		detector.PinchHand(),
		detector.SpreadHand(),
	}, 640, 480)

	frame := testutil.BlankFrame(640, 480)
	defer frame.Close()

	Draw(&frame, hands, "heuristic")

	// Markers and text must leave visible pixels on a black frame.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected drawn markers on the frame")
	}
}

func TestDrawNoHands(t *testing.T) {
	frame := testutil.BlankFrame(320, 240)
	defer frame.Close()

	// Only the status line is rendered.
	Draw(&frame, nil, "mediapipe")

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("expected the status line to be drawn")
	}
}
