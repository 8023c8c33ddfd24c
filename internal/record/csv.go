// Package record provides the CSV tracking sink.
package record

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultPath is where tracking rows land unless configured otherwise.
const DefaultPath = "hand_log.csv"

var header = []string{"timestamp", "frame", "hand_id", "label", "x_norm", "y_norm", "distance_norm"}

// CSVRecorder appends per-frame tracking rows to a CSV file. It has an
// explicit start/stop lifecycle so the file handle is held only while
// recording and is always released on stop.
type CSVRecorder struct {
	path string
	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
}

// NewCSVRecorder creates a recorder writing to path, or DefaultPath when
// path is empty. The file is not opened until Start.
func NewCSVRecorder(path string) *CSVRecorder {
	if path == "" {
		path = DefaultPath
	}
	return &CSVRecorder{path: path}
}

// Path returns the recorder's target file path.
func (r *CSVRecorder) Path() string { return r.path }

// Start opens the file for appending and writes the header row.
// Starting an already-active recorder is a no-op.
func (r *CSVRecorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file != nil {
		return nil
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	r.file = f
	r.w = csv.NewWriter(f)
	if err := r.w.Write(header); err != nil {
		f.Close()
		r.file = nil
		r.w = nil
		return fmt.Errorf("write header: %w", err)
	}
	r.w.Flush()
	return r.w.Error()
}

// Stop flushes and closes the file. Stopping an inactive recorder is a
// no-op.
func (r *CSVRecorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}

	r.w.Flush()
	err := r.w.Error()
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	r.file = nil
	r.w = nil
	return err
}

// Active reports whether the recorder currently holds an open file.
func (r *CSVRecorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file != nil
}

// WriteFrame appends one row per hand per labeled tip (index, thumb)
// that carries a normalized position. Inactive recorders ignore writes.
func (r *CSVRecorder) WriteFrame(ts time.Time, frameIndex int, hands []gesture.NormalizedHandInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}

	stamp := strconv.FormatFloat(float64(ts.UnixNano())/1e9, 'f', 6, 64)
	for hi, hand := range hands {
		rows := []struct {
			label string
			pos   *[2]float64
		}{
			{"index", hand.IndexNorm},
			{"thumb", hand.ThumbNorm},
		}
		for _, row := range rows {
			if row.pos == nil {
				continue
			}
			record := []string{
				stamp,
				strconv.Itoa(frameIndex),
				strconv.Itoa(hi),
				row.label,
				strconv.FormatFloat(row.pos[0], 'f', -1, 64),
				strconv.FormatFloat(row.pos[1], 'f', -1, 64),
				strconv.FormatFloat(hand.DistanceNorm, 'f', -1, 64),
			}
			if err := r.w.Write(record); err != nil {
				return err
			}
		}
	}

	r.w.Flush()
	return r.w.Error()
}
