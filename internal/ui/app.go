package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmgcore/gbcore/internal/gameboy"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// App is an ebiten.Game driving a gameboy.Machine.
type App struct {
	cfg Config
	m   *gameboy.Machine
	tex *ebiten.Image

	romPath string
	paused  bool
	turbo   int // turbo speed multiplier (1=off)

	currentSlot int // 0..3

	toastMsg   string
	toastUntil time.Time
}

func NewApp(cfg Config, m *gameboy.Machine, romPath string) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(160*cfg.Scale, 144*cfg.Scale)
	return &App{cfg: cfg, m: m, romPath: romPath, turbo: 1}
}

func (a *App) Run() error { return ebiten.RunGame(a) }

func (a *App) Update() error {
	var btn gameboy.Buttons
	if !a.paused {
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			btn.Right = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			btn.Left = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyUp) {
			btn.Up = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyDown) {
			btn.Down = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyZ) {
			btn.A = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyX) {
			btn.B = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyEnter) {
			btn.Start = true
		}
		if ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
			btn.Select = true
		}
	}
	a.m.SetButtons(btn)

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF6) && a.turbo > 1 {
		a.turbo--
		a.toast(fmt.Sprintf("Turbo: x%d", a.turbo))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF7) && a.turbo < 10 {
		a.turbo++
		a.toast(fmt.Sprintf("Turbo: x%d", a.turbo))
	}
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4} {
		if inpututil.IsKeyJustPressed(key) {
			a.currentSlot = i
			a.toast(fmt.Sprintf("Slot set to %d", i+1))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.saveSlot(a.currentSlot); err == nil {
			a.toast(fmt.Sprintf("Saved slot %d", a.currentSlot+1))
		} else {
			a.toast("Save failed: " + err.Error())
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		if err := a.loadSlot(a.currentSlot); err == nil {
			a.toast(fmt.Sprintf("Loaded slot %d", a.currentSlot+1))
		} else {
			a.toast("Load failed: " + err.Error())
		}
	}

	if !a.paused {
		for i := 0; i < a.turbo; i++ {
			a.m.StepFrame()
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(160, 144)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		ebitenutil.DebugPrintAt(screen, a.toastMsg, 4, 4)
	}
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 4, 132)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return 160, 144 }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath(slot int) string {
	dir := filepath.Dir(a.romPath)
	name := filepath.Base(a.romPath)
	return filepath.Join(dir, fmt.Sprintf("%s.slot%d.savestate", name, slot))
}

func (a *App) saveSlot(slot int) error {
	return os.WriteFile(a.statePath(slot), a.m.SaveState(), 0o644)
}

func (a *App) loadSlot(slot int) error {
	data, err := os.ReadFile(a.statePath(slot))
	if err != nil {
		return err
	}
	a.m.LoadState(data)
	return nil
}
