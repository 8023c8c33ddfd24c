package detector

import (
	"image"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/testutil"
)

func TestHeuristicDetector_BlankFrame(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	frame := testutil.BlankFrame(640, 480)
	defer frame.Close()

	hands, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("expected 0 hands for blank frame, got %d", len(hands))
	}
}

func TestHeuristicDetector_NilFrame(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	if _, err := d.Detect(nil); err == nil {
		t.Error("expected error for nil frame")
	}
}

func TestHeuristicDetector_SingleBlob(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	blob := image.Rect(200, 100, 400, 300)
	frame := testutil.BlobFrame(640, 480, blob)
	defer frame.Close()

	hands, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(hands))
	}

	hand := hands[0]
	if !hand.Detected {
		t.Error("expected hand to be detected")
	}
	if len(hand.Fingertips) > 5 {
		t.Errorf("expected at most 5 fingertips, got %d", len(hand.Fingertips))
	}

	// The centroid of a solid rectangle lands near its middle; allow a
	// few pixels of slack for the morphology and blur.
	wantCenter := image.Pt(300, 200)
	if Dist(hand.Center, wantCenter) > 10 {
		t.Errorf("expected center near %v, got %v", wantCenter, hand.Center)
	}
}

func TestHeuristicDetector_SubThresholdBlobs(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	frame := testutil.TwoBlobFrame(640, 480,
		image.Rect(50, 50, 80, 80),
		image.Rect(400, 300, 430, 330))
	defer frame.Close()

	hands, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 0 {
		t.Errorf("expected 0 hands for sub-threshold blobs, got %d", len(hands))
	}
}

func TestHeuristicDetector_TwoHands(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	frame := testutil.TwoBlobFrame(640, 480,
		image.Rect(50, 100, 200, 250),
		image.Rect(400, 100, 550, 250))
	defer frame.Close()

	hands, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 2 {
		t.Errorf("expected 2 hands, got %d", len(hands))
	}
}

func TestHeuristicDetector_FiveFingertips(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	frame := testutil.HandFrame(640, 480)
	defer frame.Close()

	hands, err := d.Detect(&frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hands) != 1 {
		t.Fatalf("expected 1 hand, got %d", len(hands))
	}

	hand := hands[0]
	if len(hand.Fingertips) != 5 {
		t.Fatalf("expected 5 fingertips, got %d (%v)", len(hand.Fingertips), hand.Fingertips)
	}
	if hand.ThumbTip == nil || hand.IndexTip == nil {
		t.Fatal("expected thumb and index tips to be assigned")
	}
	if hand.ThumbTip.X >= hand.IndexTip.X {
		t.Errorf("expected thumb left of index, got thumb=%v index=%v", *hand.ThumbTip, *hand.IndexTip)
	}
	if hand.DistanceIndexThumb <= 0 {
		t.Errorf("expected positive index-thumb distance, got %f", hand.DistanceIndexThumb)
	}
}

func TestHeuristicDetector_History(t *testing.T) {
	d := NewHeuristicDetector(DefaultConfig())
	frame := testutil.BlankFrame(320, 240)
	defer frame.Close()

	for i := 0; i < historyDepth+2; i++ {
		if _, err := d.Detect(&frame); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := len(d.History()); got != historyDepth {
		t.Errorf("expected history depth %d, got %d", historyDepth, got)
	}
}

func TestAssignRoles(t *testing.T) {
	t.Run("leftmost and rightmost of top three", func(t *testing.T) {
		info := HandInfo{
			Detected:   true,
			Fingertips: []image.Point{{X: 140, Y: 90}, {X: 100, Y: 100}, {X: 180, Y: 110}},
		}
		assignRoles(&info)

		if info.ThumbTip == nil || info.IndexTip == nil {
			t.Fatal("expected both roles assigned")
		}
		if *info.ThumbTip != image.Pt(100, 100) {
			t.Errorf("expected thumb (100,100), got %v", *info.ThumbTip)
		}
		if *info.IndexTip != image.Pt(180, 110) {
			t.Errorf("expected index (180,110), got %v", *info.IndexTip)
		}
		// sqrt(80^2 + 10^2)
		if math.Abs(info.DistanceIndexThumb-80.6226) > 0.01 {
			t.Errorf("expected distance 80.6226, got %f", info.DistanceIndexThumb)
		}
	})

	t.Run("candidates beyond the top three are ignored", func(t *testing.T) {
		info := HandInfo{
			Detected: true,
			Fingertips: []image.Point{
				{X: 150, Y: 10}, {X: 60, Y: 20}, {X: 240, Y: 30},
				{X: 10, Y: 40}, {X: 300, Y: 50},
			},
		}
		assignRoles(&info)

		if *info.ThumbTip != image.Pt(60, 20) {
			t.Errorf("expected thumb (60,20), got %v", *info.ThumbTip)
		}
		if *info.IndexTip != image.Pt(240, 30) {
			t.Errorf("expected index (240,30), got %v", *info.IndexTip)
		}
	})

	t.Run("fewer than two candidates leaves roles unset", func(t *testing.T) {
		info := HandInfo{
			Detected:   true,
			Fingertips: []image.Point{{X: 100, Y: 100}},
		}
		assignRoles(&info)

		if info.ThumbTip != nil || info.IndexTip != nil {
			t.Error("expected roles to remain unset")
		}
		if info.DistanceIndexThumb != 0 {
			t.Errorf("expected zero distance, got %f", info.DistanceIndexThumb)
		}
	})
}

func TestRegionCentroid(t *testing.T) {
	t.Run("square", func(t *testing.T) {
		region := Region{
			Points: []image.Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}},
			Area:   10000,
		}
		got := regionCentroid(region, 640, 480)
		if got != image.Pt(50, 50) {
			t.Errorf("expected (50,50), got %v", got)
		}
	})

	t.Run("degenerate region falls back to frame center", func(t *testing.T) {
		region := Region{
			Points: []image.Point{{10, 10}, {20, 20}},
		}
		got := regionCentroid(region, 640, 480)
		if got != image.Pt(320, 240) {
			t.Errorf("expected frame center (320,240), got %v", got)
		}
	})

	t.Run("collinear points fall back to frame center", func(t *testing.T) {
		region := Region{
			Points: []image.Point{{0, 0}, {10, 0}, {20, 0}},
		}
		got := regionCentroid(region, 100, 100)
		if got != image.Pt(50, 50) {
			t.Errorf("expected frame center (50,50), got %v", got)
		}
	})
}

func TestSeparated(t *testing.T) {
	accepted := []image.Point{{100, 100}}

	if separated(image.Pt(110, 100), accepted, 25) {
		t.Error("expected point 10px away to be rejected")
	}
	if separated(image.Pt(125, 100), accepted, 25) {
		t.Error("expected point exactly 25px away to be rejected")
	}
	if !separated(image.Pt(130, 100), accepted, 25) {
		t.Error("expected point 30px away to be accepted")
	}
	if !separated(image.Pt(0, 0), nil, 25) {
		t.Error("expected any point to be accepted against empty set")
	}
}
