// Package testutil builds synthetic frames for detector and pipeline
// tests, so no binary image assets are needed.
package testutil

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Skin is a BGR color that lands inside the segmenter's low-hue band
// (HSV roughly H=10, S=153, V=200).
var Skin = color.RGBA{R: 200, G: 120, B: 80}

// BlankFrame returns a black BGR frame of the given size.
// The caller owns the returned Mat.
func BlankFrame(w, h int) gocv.Mat {
	return gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
}

// BlobFrame returns a frame with one filled skin-colored rectangle.
func BlobFrame(w, h int, r image.Rectangle) gocv.Mat {
	frame := BlankFrame(w, h)
	gocv.Rectangle(&frame, r, Skin, -1)
	return frame
}

// TwoBlobFrame returns a frame with two disjoint skin-colored rectangles.
func TwoBlobFrame(w, h int, a, b image.Rectangle) gocv.Mat {
	frame := BlankFrame(w, h)
	gocv.Rectangle(&frame, a, Skin, -1)
	gocv.Rectangle(&frame, b, Skin, -1)
	return frame
}

// HandFrame returns a frame with a palm blob and five raised finger
// stubs. Finger tops are staggered in height so each contributes its own
// convex-hull vertex, spaced more than the fingertip separation
// threshold apart.
func HandFrame(w, h int) gocv.Mat {
	frame := BlankFrame(w, h)

	// Palm spanning all fingers.
	gocv.Rectangle(&frame, image.Rect(100, 200, 290, 310), Skin, -1)

	// Fingers: 12 px wide, left edges 40 px apart, joined to the palm,
	// with the middle finger tallest.
	tops := []int{120, 100, 90, 100, 125}
	for i, top := range tops {
		x := 100 + i*40
		gocv.Rectangle(&frame, image.Rect(x, top, x+12, 210), Skin, -1)
	}

	return frame
}
