// Package interconnect wires the CPU-visible 16-bit address space to the
// cartridge, VRAM/OAM (via the PPU), work RAM, high RAM, the timer, the
// joypad, and the interrupt registers.
package interconnect

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/dmgcore/gbcore/internal/cart"
	"github.com/dmgcore/gbcore/internal/joypad"
	"github.com/dmgcore/gbcore/internal/ppu"
	"github.com/dmgcore/gbcore/internal/timer"
)

// Interrupt bit positions in IE/IF.
const (
	IntVBlank = 1 << 0
	IntSTAT   = 1 << 1
	IntTimer  = 1 << 2
	IntSerial = 1 << 3
	IntJoypad = 1 << 4
)

type Bus struct {
	cart cart.Cartridge
	ppu  *ppu.PPU
	tmr  *timer.Timer
	joyp *joypad.Joypad

	wram [0x2000]byte // 0xC000-0xDFFF, echoed at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ie byte // 0xFFFF
	ifr byte // 0xFF0F, lower 5 bits used

	sb byte // 0xFF01
	sc byte // 0xFF02
	sw io.Writer

	dma byte // 0xFF46, last value written

	// ioScratch backs the I/O registers this core doesn't give dedicated
	// semantics to (APU/wave RAM, the CGB-only and unmapped holes) with a
	// plain store-through byte array, indexed by addr-0xFF00, so reads
	// observe whatever was last written even though nothing interprets
	// the bits.
	ioScratch [0x80]byte
}

func New(c cart.Cartridge) *Bus {
	return &Bus{
		cart: c,
		ppu:  ppu.New(),
		tmr:  timer.New(),
		joyp: joypad.New(),
	}
}

func (b *Bus) PPU() *ppu.PPU           { return b.ppu }
func (b *Bus) Cart() cart.Cartridge    { return b.cart }
func (b *Bus) SetSerialWriter(w io.Writer) { b.sw = w }
func (b *Bus) SetJoypadState(mask byte)    { b.joyp.SetState(mask) }

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.Read(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.Read(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF // unusable region
	case addr == 0xFF00:
		return b.joyp.Read()
	case addr == 0xFF01:
		return b.sb
	case addr == 0xFF02:
		return 0x7E | (b.sc & 0x81)
	case addr == 0xFF04:
		return b.tmr.ReadDIV()
	case addr == 0xFF05:
		return b.tmr.ReadTIMA()
	case addr == 0xFF06:
		return b.tmr.ReadTMA()
	case addr == 0xFF07:
		return b.tmr.ReadTAC()
	case addr == 0xFF0F:
		return 0xE0 | (b.ifr & 0x1F)
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.Read(addr)
	case addr == 0xFF46:
		return b.dma
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.ie
	case addr == 0xFF03, addr >= 0xFF08 && addr <= 0xFF0E,
		addr >= 0xFF10 && addr <= 0xFF3F, addr >= 0xFF4C && addr <= 0xFF7F:
		return b.ioScratch[addr-0xFF00]
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.Write(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.Write(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable, writes discarded
	case addr == 0xFF00:
		b.joyp.Write(value)
	case addr == 0xFF01:
		b.sb = value
	case addr == 0xFF02:
		b.sc = value & 0x81
		if b.sc&0x80 != 0 {
			if b.sw != nil {
				_, _ = b.sw.Write([]byte{b.sb})
			}
			b.ifr |= IntSerial
			b.sc &^= 0x80
		}
	case addr == 0xFF04:
		b.tmr.WriteDIV(value)
	case addr == 0xFF05:
		b.tmr.WriteTIMA(value)
	case addr == 0xFF06:
		b.tmr.WriteTMA(value)
	case addr == 0xFF07:
		b.tmr.WriteTAC(value)
	case addr == 0xFF0F:
		b.ifr = value & 0x1F
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.Write(addr, value)
	case addr == 0xFF46:
		b.dma = value
		b.performOAMDMA(value)
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.ie = value
	case addr == 0xFF03, addr >= 0xFF08 && addr <= 0xFF0E,
		addr >= 0xFF10 && addr <= 0xFF3F, addr >= 0xFF4C && addr <= 0xFF7F:
		b.ioScratch[addr-0xFF00] = value
	}
}

// Read16 reads a little-endian 16-bit value across addr and addr+1.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return lo | hi<<8
}

// Write16 writes a little-endian 16-bit value across addr and addr+1.
func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, byte(v))
	b.Write(addr+1, byte(v>>8))
}

// performOAMDMA copies 160 bytes from (value << 8) into OAM in one shot.
// Real hardware performs this one byte per cycle while locking the bus to
// everything but HRAM; this core models it as atomic, per the documented
// simplification, since nothing in this core's scope relies on the
// mid-transfer bus state.
func (b *Bus) performOAMDMA(value byte) {
	src := uint16(value) << 8
	var buf [0xA0]byte
	for i := range buf {
		buf[i] = b.Read(src + uint16(i))
	}
	b.ppu.DMATransfer(buf)
}

// Tick advances the PPU and timer by cycles T-cycles and folds any
// interrupts they raised into IF. The PPU is driven first so a VBlank
// latched on this tick is visible to the same dispatch check as the timer.
func (b *Bus) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	b.ppu.Tick(cycles)
	if b.ppu.VBlankInterruptPending() {
		b.ifr |= IntVBlank
		b.ppu.ClearVBlankInterrupt()
	}
	if b.ppu.StatInterruptPending() {
		b.ifr |= IntSTAT
		b.ppu.ClearStatInterrupt()
	}

	b.tmr.Tick(cycles)
	if b.tmr.PendingInterrupt() {
		b.ifr |= IntTimer
		b.tmr.ClearInterrupt()
	}

	if b.joyp.PendingInterrupt() {
		b.ifr |= IntJoypad
		b.joyp.ClearInterrupt()
	}
}

func (b *Bus) RequestInterrupt(mask byte) { b.ifr |= mask }
func (b *Bus) ClearInterrupt(mask byte)   { b.ifr &^= mask }

// PendingInterrupts returns the bits set in both IE and IF: the interrupts
// eligible for dispatch right now.
func (b *Bus) PendingInterrupts() byte { return b.ie & b.ifr & 0x1F }

func (b *Bus) IE() byte { return b.ie }
func (b *Bus) IF() byte { return b.ifr }

type busState struct {
	WRAM      [0x2000]byte
	HRAM      [0x7F]byte
	IE, IF    byte
	SB, SC    byte
	DMA       byte
	IOScratch [0x80]byte
}

// SaveState serializes bus-owned memory and registers via gob, followed by
// the cartridge's SaveData image (empty for cartridges without battery-backed
// RAM). PPU (VRAM, OAM, registers), timer and joypad state are not included.
func (b *Bus) SaveState() []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	s := busState{
		WRAM: b.wram, HRAM: b.hram, IE: b.ie, IF: b.ifr, SB: b.sb, SC: b.sc, DMA: b.dma,
		IOScratch: b.ioScratch,
	}
	_ = enc.Encode(s)
	if saver, ok := b.cart.(interface{ SaveData() []byte }); ok {
		_ = enc.Encode(saver.SaveData())
	} else {
		_ = enc.Encode([]byte(nil))
	}
	return buf.Bytes()
}

func (b *Bus) LoadState(data []byte) {
	dec := gob.NewDecoder(bytes.NewReader(data))
	var s busState
	if err := dec.Decode(&s); err != nil {
		return
	}
	b.wram, b.hram = s.WRAM, s.HRAM
	b.ie, b.ifr, b.sb, b.sc, b.dma = s.IE, s.IF, s.SB, s.SC, s.DMA
	b.ioScratch = s.IOScratch

	var cs []byte
	if err := dec.Decode(&cs); err == nil {
		if loader, ok := b.cart.(interface{ LoadData([]byte) }); ok {
			loader.LoadData(cs)
		}
	}
}
