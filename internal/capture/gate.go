package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Activity gate constants.
const (
	// gateBlurSize is the Gaussian kernel used to wash out sensor noise
	// before differencing.
	gateBlurSize = 21
	// gateDiffThreshold is the per-pixel intensity delta that counts as
	// change.
	gateDiffThreshold = 25
)

// ActivityGate reports whether a frame differs from the previous one by
// frame differencing. The pipeline uses it to step the capture rate
// between idle and active; it never suppresses detection itself, so
// per-frame output is unaffected by gating.
type ActivityGate struct {
	minChange float64
	prev      gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewActivityGate creates a gate that reports activity when more than
// minChange percent of pixels changed since the previous frame.
func NewActivityGate(minChange float64) *ActivityGate {
	return &ActivityGate{
		minChange: minChange,
		prev:      gocv.NewMat(),
	}
}

// Observe compares the frame to the previous one and returns whether the
// scene is active plus the percentage of changed pixels. The first frame
// primes the baseline and counts as active so startup is never gated.
func (g *ActivityGate) Observe(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(gateBlurSize, gateBlurSize), 0, 0, gocv.BorderDefault)

	if !g.primed {
		blurred.CopyTo(&g.prev)
		g.primed = true
		return true, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prev, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, gateDiffThreshold, 255, gocv.ThresholdBinary)

	changed := gocv.CountNonZero(thresh)
	total := thresh.Rows() * thresh.Cols()
	percent := float64(changed) / float64(total) * 100.0

	blurred.CopyTo(&g.prev)

	return percent > g.minChange, percent
}

// Reset clears the baseline so the next frame re-primes the gate.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prev.Empty() {
		g.prev.Close()
		g.prev = gocv.NewMat()
	}
	g.primed = false
}

// Close releases the gate's retained frame.
func (g *ActivityGate) Close() {
	g.Reset()
}
