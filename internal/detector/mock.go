package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It lets tests control the detection results. Unlike the real backends
// it is safe for concurrent use, so tests can poll it while a pipeline
// runs.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandInfo
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Name returns the backend identifier.
func (m *MockDetector) Name() string { return "mock" }

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error { return nil }

// PinchHand returns a preset HandInfo with the index tip nearly touching
// the thumb tip, as the landmark backend would report it in a 640x480
// frame.
func PinchHand() HandInfo {
	pts := make([]image.Point, NumLandmarks)
	pts[Wrist] = image.Pt(320, 400)
	pts[MiddleMCP] = image.Pt(320, 300)
	pts[ThumbTip] = image.Pt(300, 220)
	pts[IndexTip] = image.Pt(312, 214)
	pts[MiddleTip] = image.Pt(330, 150)
	pts[RingTip] = image.Pt(360, 170)
	pts[PinkyTip] = image.Pt(390, 200)

	info, _ := HandInfoFromLandmarks(pts, 640, 480)
	return info
}

// SpreadHand returns a preset HandInfo with all fingers spread wide.
func SpreadHand() HandInfo {
	pts := make([]image.Point, NumLandmarks)
	pts[Wrist] = image.Pt(320, 420)
	pts[MiddleMCP] = image.Pt(320, 310)
	pts[ThumbTip] = image.Pt(200, 260)
	pts[IndexTip] = image.Pt(280, 140)
	pts[MiddleTip] = image.Pt(330, 120)
	pts[RingTip] = image.Pt(380, 140)
	pts[PinkyTip] = image.Pt(430, 190)

	info, _ := HandInfoFromLandmarks(pts, 640, 480)
	return info
}
