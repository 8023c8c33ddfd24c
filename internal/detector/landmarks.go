package detector

import (
	"fmt"
	"image"
	"math"
)

// Hand landmark indices following the MediaPipe hand model convention.
// HandInfo assembly depends on exactly this numbering, so it is a hard
// wire contract with the landmark service.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// HandInfoFromLandmarks assembles a HandInfo from the 21-point landmark
// sequence returned by the landmark service. Points are pixel positions
// in a w by h frame.
func HandInfoFromLandmarks(pts []image.Point, w, h int) (HandInfo, error) {
	if len(pts) != NumLandmarks {
		return HandInfo{}, fmt.Errorf("expected %d landmarks, got %d", NumLandmarks, len(pts))
	}

	tips := []image.Point{pts[ThumbTip], pts[IndexTip], pts[MiddleTip], pts[RingTip], pts[PinkyTip]}

	info := HandInfo{
		Detected: true,
		Center: image.Pt(
			(pts[Wrist].X+pts[MiddleMCP].X)/2,
			(pts[Wrist].Y+pts[MiddleMCP].Y)/2,
		),
		Fingertips: tips,
		Named: map[Finger]image.Point{
			Thumb:  pts[ThumbTip],
			Index:  pts[IndexTip],
			Middle: pts[MiddleTip],
			Ring:   pts[RingTip],
			Pinky:  pts[PinkyTip],
		},
	}
	info.ThumbTip = &info.Fingertips[0]
	info.IndexTip = &info.Fingertips[1]
	info.DistanceIndexThumb = Dist(*info.IndexTip, *info.ThumbTip)

	if diag := math.Hypot(float64(w), float64(h)); diag > 0 {
		info.HandSizeNorm = Dist(pts[Wrist], pts[MiddleTip]) / diag
		info.HasHandSize = true
	}

	return info, nil
}
