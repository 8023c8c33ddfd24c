// Package app orchestrates the Mudra per-frame tracking pipeline and its
// output sinks.
package app

import (
	"log"
	"sync"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/record"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while the scene is static.
	IdleFPS = 5
	// ActiveFPS is the frame rate while the scene shows activity.
	ActiveFPS = 15
	// IdleTimeoutMs is how long activity must be absent before stepping
	// back to the idle rate.
	IdleTimeoutMs = 2000
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Camera   capture.Camera
	Detector detector.Detector
	Hub      *server.Hub
	Frames   *server.FrameBuffer

	// CSVPath is where the CSV sink writes when logging is enabled.
	CSVPath string

	// GateThreshold is the activity gate's percent-changed-pixels
	// threshold used for frame-rate stepping. Zero or negative disables
	// rate stepping; detection output is never affected either way.
	GateThreshold float64

	// OnHands, when set, receives the hand count of every processed
	// frame. It is called from the pipeline goroutine and must not block.
	OnHands func(n int)
}

// App runs the tracking pipeline: capture, detect, derive, then fan out
// to overlay, CSV log, session store, and the streaming hub. One App owns
// one backend instance; frame processing is strictly sequential.
type App struct {
	config   Config
	camera   capture.Camera
	det      detector.Detector
	gate     *capture.ActivityGate
	recorder *record.CSVRecorder

	mu        sync.RWMutex
	enabled   bool
	logging   bool
	streaming bool
	sessionID string
	frames    int
	stopCh    chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	var gate *capture.ActivityGate
	if config.GateThreshold > 0 {
		gate = capture.NewActivityGate(config.GateThreshold)
	}

	return &App{
		config:   config,
		camera:   config.Camera,
		det:      config.Detector,
		gate:     gate,
		recorder: record.NewCSVRecorder(config.CSVPath),
	}
}

// Start opens the camera and begins the pipeline. Starting a running app
// is a no-op.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}

	if a.gate != nil {
		a.camera.SetFPS(IdleFPS)
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the pipeline and releases every held resource: camera,
// detector, activity gate, CSV file, and any open session.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}

	a.endLogging()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	if a.gate != nil {
		a.gate.Close()
	}

	if a.det != nil {
		if err := a.det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// SetEnabled enables or disables frame processing.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetLogging toggles the CSV sink and the session store together. Turning
// logging on opens the CSV file and starts a store session; turning it
// off ends the session with its final frame count and closes the file.
func (a *App) SetLogging(on bool) error {
	if on {
		return a.beginLogging()
	}
	a.endLogging()
	return nil
}

// IsLogging returns whether the logging sinks are active.
func (a *App) IsLogging() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logging
}

// SetStreaming toggles the websocket broadcast sink.
func (a *App) SetStreaming(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.streaming = on
}

// IsStreaming returns whether the streaming sink is active.
func (a *App) IsStreaming() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.streaming
}

// SessionID returns the active recording session ID, empty when not
// logging.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.det
}

func (a *App) beginLogging() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.logging {
		return nil
	}

	if err := a.recorder.Start(); err != nil {
		return err
	}

	if a.config.Store != nil {
		id, err := a.config.Store.Sessions().Start(a.det.Name())
		if err != nil {
			a.recorder.Stop()
			return err
		}
		a.sessionID = id
	}

	a.frames = 0
	a.logging = true
	log.Printf("Logging started -> %s", a.recorder.Path())
	return nil
}

func (a *App) endLogging() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.logging {
		return
	}
	a.logging = false

	if err := a.recorder.Stop(); err != nil {
		log.Printf("Error stopping recorder: %v", err)
	}

	if a.config.Store != nil && a.sessionID != "" {
		if err := a.config.Store.Sessions().End(a.sessionID, a.frames); err != nil {
			log.Printf("Error ending session: %v", err)
		}
	}
	a.sessionID = ""
	log.Println("Logging stopped")
}

// countFrame bumps the session frame counter while logging.
func (a *App) countFrame() {
	a.mu.Lock()
	if a.logging {
		a.frames++
	}
	a.mu.Unlock()
}
