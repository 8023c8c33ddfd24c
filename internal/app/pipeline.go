package app

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the main loop. Each tick processes exactly one frame to
// completion: read (mirrored at capture), detect, derive, then fan out.
// Zero hands is the normal frequent state; per-frame errors are logged
// and skipped, never fatal to the loop. When the activity gate is
// configured it only steps the capture rate between IdleFPS and
// ActiveFPS, it does not skip detection.
func (a *App) runPipeline(stopCh <-chan struct{}) {
	fps := a.camera.FPS()
	if fps <= 0 {
		fps = ActiveFPS
	}
	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	activeMode := a.gate == nil
	lastActivity := time.Now()

	frameIndex := 0
	statClock := time.Now()
	statFrames := 0

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			if a.gate != nil {
				active, _ := a.gate.Observe(frame)
				if active {
					lastActivity = time.Now()
					if !activeMode {
						activeMode = true
						a.camera.SetFPS(ActiveFPS)
						ticker.Reset(time.Second / time.Duration(ActiveFPS))
					}
				} else if activeMode && time.Since(lastActivity) > IdleTimeoutMs*time.Millisecond {
					activeMode = false
					a.camera.SetFPS(IdleFPS)
					ticker.Reset(time.Second / time.Duration(IdleFPS))
				}
			}

			hands, err := a.det.Detect(frame)
			if err != nil {
				frame.Close()
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			w, h := frame.Cols(), frame.Rows()
			norm := gesture.DeriveAll(hands, w, h)

			frameIndex++
			statFrames++
			a.countFrame()

			if a.config.OnHands != nil {
				a.config.OnHands(len(hands))
			}

			a.publishPreview(frame, norm)
			frame.Close()

			now := time.Now()
			if a.IsLogging() {
				a.writeLog(now, frameIndex, norm)
			}
			if a.IsStreaming() && a.config.Hub != nil {
				a.config.Hub.Broadcast(server.PayloadFromHands(now, norm))
			}

			if time.Since(statClock) >= time.Second {
				logFrameSummary(statFrames, norm)
				statFrames = 0
				statClock = time.Now()
			}
		}
	}
}

// publishPreview draws the overlay onto the frame and hands a JPEG copy
// to the MJPEG buffer.
func (a *App) publishPreview(frame *gocv.Mat, hands []gesture.NormalizedHandInfo) {
	if a.config.Frames == nil {
		return
	}

	overlay.Draw(frame, hands, a.det.Name())

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		log.Printf("Error encoding preview frame: %v", err)
		return
	}
	a.config.Frames.Set(append([]byte(nil), buf.GetBytes()...))
	buf.Close()
}

// writeLog feeds one frame's rows to the CSV sink and the session store.
func (a *App) writeLog(ts time.Time, frameIndex int, hands []gesture.NormalizedHandInfo) {
	if err := a.recorder.WriteFrame(ts, frameIndex, hands); err != nil {
		log.Printf("Error writing CSV rows: %v", err)
	}

	sessionID := a.SessionID()
	if a.config.Store == nil || sessionID == "" {
		return
	}

	var points []store.TrackPoint
	for hi, hand := range hands {
		if hand.IndexNorm != nil {
			points = append(points, store.TrackPoint{
				FrameIndex:   frameIndex,
				HandIndex:    hi,
				Finger:       "index",
				XNorm:        hand.IndexNorm[0],
				YNorm:        hand.IndexNorm[1],
				DistanceNorm: hand.DistanceNorm,
			})
		}
		if hand.ThumbNorm != nil {
			points = append(points, store.TrackPoint{
				FrameIndex:   frameIndex,
				HandIndex:    hi,
				Finger:       "thumb",
				XNorm:        hand.ThumbNorm[0],
				YNorm:        hand.ThumbNorm[1],
				DistanceNorm: hand.DistanceNorm,
			})
		}
	}

	if err := a.config.Store.Tracks().Append(sessionID, points); err != nil {
		log.Printf("Error storing track points: %v", err)
	}
}

// logFrameSummary prints a once-per-second console status line.
func logFrameSummary(fps int, hands []gesture.NormalizedHandInfo) {
	parts := make([]string, 0, len(hands))
	for hi, hand := range hands {
		side := "?"
		if hand.HasSide {
			side = string(hand.Side)
		}
		parts = append(parts, fmt.Sprintf("H%d:%s dist=%.3f", hi, side, hand.DistanceNorm))
	}
	log.Printf("FPS: %d | Hands: %d %s", fps, len(hands), strings.Join(parts, " "))
}
