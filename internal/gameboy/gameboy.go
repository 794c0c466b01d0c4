// Package gameboy wires the CPU, interconnect, and cartridge into a single
// runnable machine: load a ROM, step it instruction-by-instruction or a
// whole frame at a time, and read back the framebuffer and save RAM.
package gameboy

import (
	"image"
	"io"

	"github.com/dmgcore/gbcore/internal/cart"
	"github.com/dmgcore/gbcore/internal/cpu"
	"github.com/dmgcore/gbcore/internal/interconnect"
)

const (
	screenWidth  = 160
	screenHeight = 144
)

// Buttons mirrors the eight physical joypad inputs.
type Buttons struct {
	A, B, Start, Select   bool
	Up, Down, Left, Right bool
}

// Button identifies one of the eight physical joypad inputs, for hosts that
// track press/release events rather than a full per-frame snapshot.
type Button int

const (
	ButtonRight Button = iota
	ButtonLeft
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

func (b Button) bit() byte { return 1 << uint(b) }

func (b Buttons) mask() byte {
	var m byte
	if b.Right {
		m |= 1 << 0
	}
	if b.Left {
		m |= 1 << 1
	}
	if b.Up {
		m |= 1 << 2
	}
	if b.Down {
		m |= 1 << 3
	}
	if b.A {
		m |= 1 << 4
	}
	if b.B {
		m |= 1 << 5
	}
	if b.Select {
		m |= 1 << 6
	}
	if b.Start {
		m |= 1 << 7
	}
	return m
}

// Machine is a fully wired DMG core: CPU executing against the interconnect,
// which in turn owns the cartridge, PPU, timer, and joypad.
type Machine struct {
	cpu *cpu.CPU
	bus *interconnect.Bus

	// instructions executed since LoadROM, exposed for host-side
	// instruction-limit flags.
	instrCount uint64

	buttonMask byte // persistent state for Press/Release callers
}

// New constructs an unloaded machine. Call LoadROM before stepping.
func New() *Machine {
	return &Machine{}
}

// LoadROM parses the cartridge header, constructs the matching mapper,
// wires a fresh bus and CPU around it, and resets the CPU to the documented
// post-boot state. Any previously loaded cartridge and its RAM are
// discarded; callers that need to persist battery RAM must call SaveRAM
// first.
func (m *Machine) LoadROM(rom []byte) error {
	c, err := cart.New(rom)
	if err != nil {
		return err
	}
	m.bus = interconnect.New(c)
	m.cpu = cpu.New(m.bus)
	m.instrCount = 0
	return nil
}

// SetSerialWriter routes bytes written through the serial port (used by
// test ROMs to report pass/fail) to w.
func (m *Machine) SetSerialWriter(w io.Writer) { m.bus.SetSerialWriter(w) }

// SetButtons applies a full input snapshot for the next Step/StepFrame
// calls, replacing any state built up via Press/Release.
func (m *Machine) SetButtons(b Buttons) {
	m.buttonMask = b.mask()
	m.bus.SetJoypadState(m.buttonMask)
}

// PressButton and ReleaseButton implement spec §6's discrete button ops for
// hosts that deliver individual key-down/key-up events rather than a
// per-frame snapshot.
func (m *Machine) PressButton(b Button) {
	m.buttonMask |= b.bit()
	m.bus.SetJoypadState(m.buttonMask)
}

func (m *Machine) ReleaseButton(b Button) {
	m.buttonMask &^= b.bit()
	m.bus.SetJoypadState(m.buttonMask)
}

// Step executes exactly one CPU instruction (or interrupt dispatch, or one
// HALT-sleep group) and returns the T-cycles it consumed.
func (m *Machine) Step() int {
	cycles := m.cpu.Step()
	m.instrCount++
	return cycles
}

// StepFrame runs the CPU until the PPU reports a completed frame.
func (m *Machine) StepFrame() {
	for !m.bus.PPU().FrameReady() {
		m.Step()
	}
	m.bus.PPU().ConsumeFrameReady()
}

// InstructionCount returns the number of CPU steps executed since the last
// LoadROM, for hosts that cap execution at a fixed instruction budget.
func (m *Machine) InstructionCount() uint64 { return m.instrCount }

// CPU exposes the underlying core for debuggers and memory-dump tooling.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// Bus exposes the interconnect for debuggers and memory-dump tooling.
func (m *Machine) Bus() *interconnect.Bus { return m.bus }

// Framebuffer returns the current frame as RGBA8888 bytes, 160x144, ready
// to hand to an image.RGBA or an ebiten texture.
func (m *Machine) Framebuffer() []byte {
	src := m.bus.PPU().Framebuffer()
	out := make([]byte, screenWidth*screenHeight*4)
	for i, argb := range src {
		out[i*4+0] = byte(argb >> 16) // R
		out[i*4+1] = byte(argb >> 8)  // G
		out[i*4+2] = byte(argb)       // B
		out[i*4+3] = byte(argb >> 24) // A
	}
	return out
}

// FramebufferImage wraps Framebuffer in an image.RGBA for hosts (PNG
// export, ebiten.NewImageFromImage) that want the standard library type.
func (m *Machine) FramebufferImage() *image.RGBA {
	return &image.RGBA{
		Pix:    m.Framebuffer(),
		Stride: screenWidth * 4,
		Rect:   image.Rect(0, 0, screenWidth, screenHeight),
	}
}

// SaveRAM returns the cartridge's battery-backed RAM image, or an empty
// slice if the cartridge has none.
func (m *Machine) SaveRAM() []byte { return m.bus.Cart().SaveData() }

// LoadRAM restores battery-backed RAM from a previously saved image.
func (m *Machine) LoadRAM(data []byte) { m.bus.Cart().LoadData(data) }

// SaveState serializes the bus-owned memory and registers and the battery
// RAM image for a later LoadState. CPU registers, PPU, timer and joypad
// state are not included.
func (m *Machine) SaveState() []byte {
	return m.bus.SaveState()
}

// LoadState restores a machine previously captured with SaveState. The CPU
// itself is not serialized by the bus; callers that need full determinism
// across reloads should pair this with resetting PC to a known address.
func (m *Machine) LoadState(data []byte) {
	m.bus.LoadState(data)
}
