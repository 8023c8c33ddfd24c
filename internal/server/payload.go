package server

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// FramePayload is the wire record pushed to streaming listeners, one per
// processed frame.
type FramePayload struct {
	T     float64       `json:"t"`
	Hands []HandPayload `json:"hands"`
}

// HandPayload carries one hand's normalized signals. HandID is the
// hand's position in the frame's result list, not a persistent identity.
type HandPayload struct {
	HandID            int                         `json:"hand_id"`
	Index             *[2]float64                 `json:"index"`
	Thumb             *[2]float64                 `json:"thumb"`
	DistanceNorm      float64                     `json:"distance_norm"`
	Side              string                      `json:"side"`
	PinchFinger       string                      `json:"pinch_finger,omitempty"`
	PinchDistanceNorm float64                     `json:"pinch_distance_norm,omitempty"`
	FingerDistNorm    map[detector.Finger]float64 `json:"finger_dist_norm"`
	HandSizeNorm      float64                     `json:"hand_size_norm"`
}

// PayloadFromHands builds the streaming payload for one processed frame.
func PayloadFromHands(ts time.Time, hands []gesture.NormalizedHandInfo) FramePayload {
	payload := FramePayload{
		T:     float64(ts.UnixNano()) / 1e9,
		Hands: make([]HandPayload, 0, len(hands)),
	}

	for hi, hand := range hands {
		hp := HandPayload{
			HandID:            hi,
			Index:             hand.IndexNorm,
			Thumb:             hand.ThumbNorm,
			DistanceNorm:      hand.DistanceNorm,
			PinchFinger:       string(hand.PinchFinger),
			PinchDistanceNorm: hand.PinchDistanceNorm,
			FingerDistNorm:    hand.FingerDistNorm,
			HandSizeNorm:      hand.HandSizeNorm,
		}
		if hp.FingerDistNorm == nil {
			hp.FingerDistNorm = map[detector.Finger]float64{}
		}
		if hand.HasSide {
			hp.Side = string(hand.Side)
		}
		payload.Hands = append(payload.Hands, hp)
	}

	return payload
}
