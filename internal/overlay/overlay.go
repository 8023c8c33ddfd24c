// Package overlay renders detection results onto frames for display and
// the MJPEG stream.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Marker colors per finger, one palette per hand side.
var (
	rightPalette = map[detector.Finger]color.RGBA{
		detector.Index:  {R: 255},
		detector.Middle: {B: 255},
		detector.Ring:   {R: 255, G: 165},
		detector.Pinky:  {G: 255},
		detector.Thumb:  {R: 255, B: 255},
	}
	leftPalette = map[detector.Finger]color.RGBA{
		detector.Index:  {R: 160, G: 32, B: 240},
		detector.Middle: {},
		detector.Ring:   {R: 128, G: 42, B: 42},
		detector.Pinky:  {R: 255, G: 255},
		detector.Thumb:  {R: 255, B: 255},
	}

	colorFirstHand  = color.RGBA{G: 200}
	colorOtherHand  = color.RGBA{R: 255, G: 150}
	colorUnnamedTip = color.RGBA{R: 255, G: 200}
	colorPinchText  = color.RGBA{R: 255, G: 255}
	colorLabelText  = color.RGBA{R: 255, G: 255, B: 255}
	colorStatusText = color.RGBA{R: 230, G: 230, B: 230}
)

// Draw renders hand markers and status text onto frame in place: center
// circles, per-finger colored tips with initial letters when named tips
// exist, plain markers otherwise, and pinch state per hand.
func Draw(frame *gocv.Mat, hands []gesture.NormalizedHandInfo, backend string) {
	for hi, hand := range hands {
		centerColor := colorFirstHand
		if hi > 0 {
			centerColor = colorOtherHand
		}
		gocv.Circle(frame, hand.Center, 8, centerColor, 2)

		if len(hand.Named) > 0 {
			palette := leftPalette
			if hand.Side == gesture.SideRight {
				palette = rightPalette
			}
			for _, name := range detector.Fingers {
				tip, ok := hand.Named[name]
				if !ok {
					continue
				}
				gocv.Circle(frame, tip, 7, palette[name], -1)
				label := strings.ToUpper(string(name)[:1])
				gocv.PutText(frame, label, image.Pt(tip.X+6, tip.Y-6),
					gocv.FontHersheySimplex, 0.5, colorLabelText, 1)
			}
		} else {
			for _, tip := range hand.Fingertips {
				gocv.Circle(frame, tip, 6, colorUnnamedTip, -1)
			}
		}

		if hand.PinchFinger != "" {
			gocv.PutText(frame, fmt.Sprintf("Pinch:%s", hand.PinchFinger),
				image.Pt(10, 25+18*hi), gocv.FontHersheySimplex, 0.55, colorPinchText, 2)
		}
	}

	status := fmt.Sprintf("Backend: %s | Hands: %d", backend, len(hands))
	gocv.PutText(frame, status, image.Pt(10, frame.Rows()-10),
		gocv.FontHersheySimplex, 0.5, colorStatusText, 1)
}
