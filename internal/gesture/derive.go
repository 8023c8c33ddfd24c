// Package gesture derives normalized, scale-invariant gesture signals
// from raw per-frame hand detections.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// PinchThreshold is the normalized thumb-to-finger distance below which a
// pinch is reported, as a fraction of the frame diagonal.
const PinchThreshold = 0.05

// Side labels which half of the frame a hand occupies. The frame must
// already be mirrored to the user-facing view for the label to match the
// user's actual hand side.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// NormalizedHandInfo augments a HandInfo with frame-scale-independent
// signals. It is derived from exactly one HandInfo plus the frame
// dimensions, carries no cross-frame state, and is consumed within the
// frame that produced it.
type NormalizedHandInfo struct {
	detector.HandInfo

	// IndexNorm and ThumbNorm are tip coordinates divided component-wise
	// by (w, h). Nil when the corresponding tip is unset.
	IndexNorm *[2]float64
	ThumbNorm *[2]float64

	// FingerDistNorm maps every non-thumb named finger to its distance
	// from the thumb tip, normalized by the frame diagonal. Nil when the
	// hand has no named fingertips.
	FingerDistNorm map[detector.Finger]float64

	// PinchFinger names the finger closest to the thumb when that
	// distance is strictly below PinchThreshold; empty otherwise.
	PinchFinger       detector.Finger
	PinchDistanceNorm float64

	// Side classifies the hand's frame half; HasSide reports presence.
	HasSide bool
	Side    Side

	// DistanceNorm is DistanceIndexThumb divided by the frame diagonal.
	DistanceNorm float64
}

// Derive computes the normalized signal set for one hand against a frame
// of the given dimensions. It is a pure function: no state survives the
// call.
func Derive(info detector.HandInfo, w, h int) NormalizedHandInfo {
	n := NormalizedHandInfo{HandInfo: info}
	if w <= 0 || h <= 0 {
		return n
	}
	diag := math.Hypot(float64(w), float64(h))

	if info.IndexTip != nil {
		n.IndexNorm = &[2]float64{
			float64(info.IndexTip.X) / float64(w),
			float64(info.IndexTip.Y) / float64(h),
		}
	}
	if info.ThumbTip != nil {
		n.ThumbNorm = &[2]float64{
			float64(info.ThumbTip.X) / float64(w),
			float64(info.ThumbTip.Y) / float64(h),
		}
	}

	if info.ThumbTip != nil && len(info.Named) > 0 {
		n.FingerDistNorm = make(map[detector.Finger]float64, len(info.Named))
		for name, tip := range info.Named {
			if name == detector.Thumb {
				continue
			}
			n.FingerDistNorm[name] = detector.Dist(tip, *info.ThumbTip) / diag
		}
		n.PinchFinger, n.PinchDistanceNorm = selectPinch(n.FingerDistNorm, PinchThreshold)
	}

	n.DistanceNorm = info.DistanceIndexThumb / diag

	if info.Detected {
		n.HasSide = true
		// Strict less-than: a center exactly on the midline is right.
		if float64(info.Center.X) < float64(w)/2 {
			n.Side = SideLeft
		} else {
			n.Side = SideRight
		}
	}

	return n
}

// DeriveAll derives signals for every hand in a frame's detection list.
func DeriveAll(hands []detector.HandInfo, w, h int) []NormalizedHandInfo {
	out := make([]NormalizedHandInfo, len(hands))
	for i, info := range hands {
		out[i] = Derive(info, w, h)
	}
	return out
}

// selectPinch returns the closest finger and its distance when strictly
// below threshold. Scanning the canonical finger order keeps exact
// floating-point ties deterministic, which Go's randomized map iteration
// would not.
func selectPinch(dists map[detector.Finger]float64, threshold float64) (detector.Finger, float64) {
	var best detector.Finger
	bestDist := math.Inf(1)
	for _, name := range detector.Fingers {
		d, ok := dists[name]
		if !ok {
			continue
		}
		if d < bestDist {
			best, bestDist = name, d
		}
	}
	if best == "" || bestDist >= threshold {
		return "", 0
	}
	return best, bestDist
}
