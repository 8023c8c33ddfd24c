package detector

import (
	"image"
	"math"
	"testing"
)

const epsilon = 1e-9

func buildLandmarks() []image.Point {
	pts := make([]image.Point, NumLandmarks)
	pts[Wrist] = image.Pt(100, 400)
	pts[MiddleMCP] = image.Pt(140, 300)
	pts[ThumbTip] = image.Pt(60, 250)
	pts[IndexTip] = image.Pt(120, 150)
	pts[MiddleTip] = image.Pt(100, 100)
	pts[RingTip] = image.Pt(180, 150)
	pts[PinkyTip] = image.Pt(220, 200)
	return pts
}

func TestHandInfoFromLandmarks(t *testing.T) {
	info, err := HandInfoFromLandmarks(buildLandmarks(), 640, 480)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !info.Detected {
		t.Error("expected detected hand")
	}

	// Center is the wrist/middle-base midpoint.
	if info.Center != image.Pt(120, 350) {
		t.Errorf("expected center (120,350), got %v", info.Center)
	}

	if len(info.Fingertips) != 5 {
		t.Fatalf("expected 5 fingertips, got %d", len(info.Fingertips))
	}

	want := map[Finger]image.Point{
		Thumb:  {60, 250},
		Index:  {120, 150},
		Middle: {100, 100},
		Ring:   {180, 150},
		Pinky:  {220, 200},
	}
	for name, pt := range want {
		if got := info.Named[name]; got != pt {
			t.Errorf("expected %s tip %v, got %v", name, pt, got)
		}
	}

	// Role tips must be members of the fingertip list.
	if info.ThumbTip == nil || *info.ThumbTip != info.Fingertips[0] {
		t.Error("expected thumb tip to be the first fingertip")
	}
	if info.IndexTip == nil || *info.IndexTip != info.Fingertips[1] {
		t.Error("expected index tip to be the second fingertip")
	}

	// sqrt(60^2 + 100^2)
	wantDist := math.Sqrt(60*60 + 100*100)
	if math.Abs(info.DistanceIndexThumb-wantDist) > epsilon {
		t.Errorf("expected distance %f, got %f", wantDist, info.DistanceIndexThumb)
	}

	// Wrist (100,400) to middle tip (100,100) is 300 px; 640x480 has an
	// 800 px diagonal.
	if !info.HasHandSize {
		t.Fatal("expected hand size to be present")
	}
	if math.Abs(info.HandSizeNorm-0.375) > epsilon {
		t.Errorf("expected hand size 0.375, got %f", info.HandSizeNorm)
	}
}

func TestHandInfoFromLandmarks_WrongCount(t *testing.T) {
	if _, err := HandInfoFromLandmarks(make([]image.Point, 20), 640, 480); err == nil {
		t.Error("expected error for short landmark list")
	}
	if _, err := HandInfoFromLandmarks(nil, 640, 480); err == nil {
		t.Error("expected error for nil landmark list")
	}
}
