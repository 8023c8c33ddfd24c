package detector

import (
	"errors"
	"testing"
)

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandInfo{PinchHand(), SpreadHand()})

		hands, err := mock.Detect(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()
		wantErr := errors.New("camera on fire")
		mock.SetError(wantErr)

		if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
			t.Errorf("expected configured error, got %v", err)
		}
	})

	t.Run("counts calls", func(t *testing.T) {
		mock := NewMockDetector()
		mock.Detect(nil)
		mock.Detect(nil)
		if mock.Calls() != 2 {
			t.Errorf("expected 2 calls, got %d", mock.Calls())
		}
	})
}

func TestPresetHands(t *testing.T) {
	for _, tc := range []struct {
		name string
		hand HandInfo
	}{
		{"pinch", PinchHand()},
		{"spread", SpreadHand()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.hand.Detected {
				t.Error("expected detected hand")
			}
			if len(tc.hand.Fingertips) != 5 {
				t.Errorf("expected 5 fingertips, got %d", len(tc.hand.Fingertips))
			}
			if len(tc.hand.Named) != 5 {
				t.Errorf("expected 5 named tips, got %d", len(tc.hand.Named))
			}
			if tc.hand.ThumbTip == nil || tc.hand.IndexTip == nil {
				t.Error("expected thumb and index tips")
			}
			if tc.hand.DistanceIndexThumb <= 0 {
				t.Errorf("expected positive distance, got %f", tc.hand.DistanceIndexThumb)
			}
			if !tc.hand.HasHandSize {
				t.Error("expected hand size to be present")
			}
		})
	}

	// The pinch preset must actually be close to pinching.
	pinch := PinchHand()
	spread := SpreadHand()
	if pinch.DistanceIndexThumb >= spread.DistanceIndexThumb {
		t.Errorf("expected pinch distance (%f) below spread distance (%f)",
			pinch.DistanceIndexThumb, spread.DistanceIndexThumb)
	}
}
