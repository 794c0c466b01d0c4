// Package ui hosts the emulator inside an ebiten window: framebuffer
// presentation, keyboard-to-joypad mapping, pause/turbo controls, and
// save-state slots.
package ui

// Config contains window and input related settings.
type Config struct {
	Title string // window title
	Scale int    // integer upscaling factor
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
}
