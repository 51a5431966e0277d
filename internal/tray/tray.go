// Package tray provides a system tray menu for the finger counter.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/fingercount/internal/overlay"
)

// Tray represents the system tray application.
type Tray struct {
	layers     *overlay.Layers
	onToggle   func(enabled bool)
	onSettings func()
	onQuit     func()
	enabled    bool
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuCount  *systray.MenuItem
	menuLayers map[overlay.Layer]*systray.MenuItem
}

// New creates a new Tray instance controlling layers, enabled by default.
func New(layers *overlay.Layers) *Tray {
	return &Tray{
		layers:     layers,
		enabled:    true,
		menuLayers: make(map[overlay.Layer]*systray.MenuItem),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit closes the tray, making Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Fingers")
	systray.SetTooltip("Finger counter")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle counting")
	systray.AddSeparator()

	t.menuCount = systray.AddMenuItem(countTitle(-1), "Fingers in the last frame")
	t.menuCount.Disable()
	systray.AddSeparator()

	menuOverlay := systray.AddMenuItem("Overlay", "Layers drawn on the stream")
	for _, l := range overlay.AllLayers {
		t.menuLayers[l] = menuOverlay.AddSubMenuItemCheckbox(l.String(), "Show "+l.String(), t.layers.Enabled(l))
	}
	t.mu.Unlock()

	menuSettings := systray.AddMenuItem("Open Settings...", "Open settings in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit the finger counter")

	for l, item := range t.menuLayers {
		go func(l overlay.Layer, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleLayer(l)
			}
		}(l, item)
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleLayer flips one overlay layer and syncs its checkbox.
func (t *Tray) handleLayer(l overlay.Layer) {
	on := t.layers.Toggle(l)

	t.mu.RLock()
	item := t.menuLayers[l]
	t.mu.RUnlock()

	if item == nil {
		return
	}
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// handleSettings handles the settings menu item click.
func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCount updates the finger count shown in the menu.
func (t *Tray) SetCount(n int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuCount != nil {
		t.menuCount.SetTitle(countTitle(n))
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

// countTitle formats the count item; a negative n means nothing seen yet.
func countTitle(n int) string {
	if n < 0 {
		return "Fingers: -"
	}
	return fmt.Sprintf("Fingers: %d", n)
}
