// Package tray provides the system tray interface for the Mudra hand
// tracker: toggles for detection, CSV logging, and streaming.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onDetect func(enabled bool)
	onLog    func(enabled bool)
	onStream func(enabled bool)
	onQuit   func()

	detecting bool
	logging   bool
	streaming bool
	mu        sync.RWMutex

	menuDetect *systray.MenuItem
	menuLog    *systray.MenuItem
	menuStream *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray with detection on and both sinks off, matching
// the pipeline's startup state.
func New() *Tray {
	return &Tray{
		detecting: true,
	}
}

// OnDetect sets the callback for the detection toggle.
func (t *Tray) OnDetect(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDetect = fn
}

// OnLog sets the callback for the CSV logging toggle.
func (t *Tray) OnLog(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onLog = fn
}

// OnStream sets the callback for the streaming toggle.
func (t *Tray) OnStream(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStream = fn
}

// OnQuit sets the callback for the quit menu item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application. Blocks until systray.Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra Hand Tracking")

	t.menuDetect = systray.AddMenuItem("● Tracking", "Toggle hand tracking")
	systray.AddSeparator()

	t.menuStatus = systray.AddMenuItem("Hands: 0", "Currently detected hands")
	t.menuStatus.Disable()
	systray.AddSeparator()

	t.menuLog = systray.AddMenuItem("○ CSV logging", "Toggle CSV logging")
	t.menuStream = systray.AddMenuItem("○ Streaming", "Toggle websocket streaming")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuDetect.ClickedCh:
				t.handleDetect()
			case <-t.menuLog.ClickedCh:
				t.handleLog()
			case <-t.menuStream.ClickedCh:
				t.handleStream()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleDetect() {
	t.mu.Lock()
	t.detecting = !t.detecting
	enabled := t.detecting
	setToggleTitle(t.menuDetect, enabled, "Tracking")
	callback := t.onDetect
	t.mu.Unlock()

	// Call outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleLog() {
	t.mu.Lock()
	t.logging = !t.logging
	enabled := t.logging
	setToggleTitle(t.menuLog, enabled, "CSV logging")
	callback := t.onLog
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleStream() {
	t.mu.Lock()
	t.streaming = !t.streaming
	enabled := t.streaming
	setToggleTitle(t.menuStream, enabled, "Streaming")
	callback := t.onStream
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

func setToggleTitle(item *systray.MenuItem, enabled bool, label string) {
	if item == nil {
		return
	}
	if enabled {
		item.SetTitle("● " + label)
	} else {
		item.SetTitle("○ " + label)
	}
}

// SetHandCount updates the detected-hands line in the menu.
func (t *Tray) SetHandCount(n int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle(fmt.Sprintf("Hands: %d", n))
	}
}

// IsDetecting returns the current detection toggle state.
func (t *Tray) IsDetecting() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.detecting
}
