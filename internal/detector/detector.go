package detector

import "gocv.io/x/gocv"

// Detector is the common shape both detection backends present. The
// backend is selected once at startup; the pipeline never switches
// backends per frame. Implementations are not safe for concurrent Detect
// calls against the same instance.
type Detector interface {
	// Detect analyzes a video frame and returns one HandInfo per
	// detected hand, at most MaxHands. An empty slice is the normal
	// no-hand state, not an error.
	Detect(frame *gocv.Mat) ([]HandInfo, error)

	// Name identifies the backend for operator reporting and overlays.
	Name() string

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds tuning options shared by the detection backends.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the landmark backend's minimum detection
	// confidence (0.0-1.0); lower-scored hands are dropped.
	MinConfidence float64

	// MinArea is the heuristic backend's minimum contour area in square
	// pixels. Smaller blobs are rejected as noise.
	MinArea float64

	// TipSeparation is the heuristic backend's minimum pixel distance
	// between accepted fingertip candidates.
	TipSeparation float64
}

// DefaultConfig returns a Config with the tuned default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      2,
		MinConfidence: 0.6,
		MinArea:       2000,
		TipSeparation: 25,
	}
}
