// Package detector provides hand detection backends and the per-frame
// hand data model shared between them.
package detector

import (
	"image"
	"math"
)

// Finger identifies a named fingertip.
type Finger string

// Finger names in the order the landmark model reports them.
const (
	Thumb  Finger = "thumb"
	Index  Finger = "index"
	Middle Finger = "middle"
	Ring   Finger = "ring"
	Pinky  Finger = "pinky"
)

// Fingers lists all finger names in canonical order, thumb first.
var Fingers = []Finger{Thumb, Index, Middle, Ring, Pinky}

// HandInfo describes one detected hand in one frame. All coordinates are
// pixel positions in frame space. A HandInfo is produced fresh every frame;
// a hand's position in a frame's result slice is positional, not an
// identity carried across frames.
type HandInfo struct {
	Detected bool

	// Center is the region centroid (heuristic backend) or the midpoint
	// of wrist and middle-finger base (landmark backend).
	Center image.Point

	// Fingertips holds up to five tip candidates, roughly top to bottom.
	Fingertips []image.Point

	// Named maps finger names to tip positions. The landmark backend
	// fills all five; the heuristic backend leaves it nil because it has
	// no anatomical assignment beyond thumb and index.
	Named map[Finger]image.Point

	// ThumbTip and IndexTip, when set, hold positions that are members
	// of Fingertips. Nil when fewer than two candidates were found.
	ThumbTip *image.Point
	IndexTip *image.Point

	// DistanceIndexThumb is the index-to-thumb tip distance in pixels,
	// zero when either tip is unset.
	DistanceIndexThumb float64

	// HandSizeNorm is the wrist-to-middle-tip span divided by the frame
	// diagonal, a 2D proxy for distance from the camera. Only the
	// landmark backend can compute it; HasHandSize reports presence.
	HandSizeNorm float64
	HasHandSize  bool
}

// Dist returns the Euclidean distance between two pixel points.
func Dist(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
