package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Hand & Fingertip Tracking")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "mudra.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// Backend selection happens exactly once, here. The pipeline never
	// falls back between backends at runtime.
	cfg := detector.DefaultConfig()
	var det detector.Detector
	if lm, err := detector.NewLandmarkDetector(cfg); err == nil {
		det = lm
		log.Println("Using landmark-model hand detection")
	} else {
		log.Printf("Landmark backend unavailable (%v), using heuristic backend", err)
		det = detector.NewHeuristicDetector(cfg)
	}

	camera := capture.NewCamera(capture.DefaultConfig())
	hub := server.NewHub()
	frames := server.NewFrameBuffer()

	srv := server.New(server.Config{
		StaticDir: findWebDir(),
		Store:     st,
		Hub:       hub,
		Frames:    frames,
		Backend:   det.Name(),
	})

	addr := ":8765"
	go func() {
		log.Printf("Starting server on %s", addr)
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	t := tray.New()

	a := app.New(app.Config{
		Store:         st,
		Camera:        camera,
		Detector:      det,
		Hub:           hub,
		Frames:        frames,
		CSVPath:       filepath.Join(dataDir, "hand_log.csv"),
		GateThreshold: 1.0,
		OnHands:       t.SetHandCount,
	})

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	a.SetEnabled(true)
	a.SetStreaming(true)

	t.OnDetect(func(enabled bool) {
		a.SetEnabled(enabled)
	})
	t.OnLog(func(enabled bool) {
		if err := a.SetLogging(enabled); err != nil {
			log.Printf("Failed to toggle logging: %v", err)
		}
	})
	t.OnStream(func(enabled bool) {
		a.SetStreaming(enabled)
	})
	t.OnQuit(func() {
		a.Stop()
	})

	// Blocks until quit; app resources are released by the quit handler.
	t.Run()
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web", and ~/.mudra/web, returning the first
// existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
