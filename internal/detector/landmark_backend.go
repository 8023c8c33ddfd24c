package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// LandmarkDetector implements Detector using a Python landmark-model
// subprocess. Frames go out as length-prefixed JPEG, hands come back as
// one JSON line per frame with 21 normalized points each.
type LandmarkDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewLandmarkDetector creates a landmark detector. It fails immediately
// when the service script cannot be located, so backend availability is
// known at startup; the subprocess itself starts lazily on first Detect.
func NewLandmarkDetector(config Config) (*LandmarkDetector, error) {
	if findLandmarkScript() == "" {
		return nil, fmt.Errorf("landmark_service.py not found")
	}
	if config.MaxHands <= 0 {
		config.MaxHands = DefaultConfig().MaxHands
	}
	return &LandmarkDetector{config: config}, nil
}

// Name returns the backend identifier.
func (d *LandmarkDetector) Name() string { return "mediapipe" }

// Detect sends a frame to the landmark service and assembles a HandInfo
// per hand whose score clears the confidence threshold.
func (d *LandmarkDetector) Detect(frame *gocv.Mat) ([]HandInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	w, h := frame.Cols(), frame.Rows()

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]HandInfo, 0, len(response.Hands))
	for _, jh := range response.Hands {
		if jh.Score < d.config.MinConfidence {
			continue
		}
		if len(hands) >= d.config.MaxHands {
			break
		}
		info, err := jh.toHandInfo(w, h)
		if err != nil {
			// Malformed hand record; drop it rather than the frame.
			continue
		}
		hands = append(hands, info)
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	return hands, nil
}

// Close shuts down the Python process.
func (d *LandmarkDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *LandmarkDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findLandmarkScript()
	if scriptPath == "" {
		return fmt.Errorf("landmark_service.py not found")
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *LandmarkDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *LandmarkDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findLandmarkScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/landmark_service.py",
		"../scripts/landmark_service.py",
		filepath.Join(execDir, "scripts/landmark_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/landmark_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment
// near the executable or under ~/.mudra.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand is one hand record from the landmark service. Point
// coordinates are normalized to [0,1] in frame space.
type jsonHand struct {
	Points []jsonPoint `json:"points"`
	Score  float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (jh jsonHand) toHandInfo(w, h int) (HandInfo, error) {
	pts := make([]image.Point, len(jh.Points))
	for i, p := range jh.Points {
		pts[i] = image.Pt(int(p.X*float64(w)), int(p.Y*float64(h)))
	}
	return HandInfoFromLandmarks(pts, w, h)
}
