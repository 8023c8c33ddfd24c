package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

// FrameBuffer holds the most recently encoded preview frame. The
// pipeline overwrites it after every processed frame; the MJPEG handler
// reads whatever is current.
type FrameBuffer struct {
	mu   sync.RWMutex
	jpeg []byte
	seq  uint64
}

// NewFrameBuffer creates an empty frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Set replaces the buffered frame. The buffer takes ownership of data.
func (b *FrameBuffer) Set(data []byte) {
	b.mu.Lock()
	b.jpeg = data
	b.seq++
	b.mu.Unlock()
}

// Get returns the buffered frame and its sequence number. The returned
// slice must not be modified.
func (b *FrameBuffer) Get() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.seq
}

// StreamHandler serves the overlaid preview as multipart MJPEG from the
// frame buffer.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames until the client disconnects.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	var lastSeq uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, seq := h.frames.Get()
		if len(data) == 0 || seq == lastSeq {
			continue
		}
		lastSeq = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		w.Write(data)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
