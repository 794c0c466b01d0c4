// Package ppu implements the scanline-based picture processing unit: VRAM,
// OAM, the LCDC/STAT/scroll/palette registers, mode timing, and background,
// window, and sprite compositing into a 160x144 ARGB framebuffer.
package ppu

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	cyclesPerScanline = 456
	scanlinesPerFrame = 154
	vblankStart       = 144

	oamScanEnd  = 80
	drawingEnd  = 252
)

// Mode is the PPU's current STAT mode (bits 0-1).
type Mode byte

const (
	ModeHBlank  Mode = 0
	ModeVBlank  Mode = 1
	ModeOamScan Mode = 2
	ModeDrawing Mode = 3
)

type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte
	stat byte
	scy  byte
	scx  byte
	ly   byte
	lyc  byte
	bgp  byte
	obp0 byte
	obp1 byte
	wy   byte
	wx   byte

	dot int

	framebuffer [ScreenWidth * ScreenHeight]uint32
	frameReady  bool

	vblankPending bool
	statPending   bool
}

func New() *PPU {
	p := &PPU{
		lcdc: 0x91,
		bgp:  0xFC,
		obp0: 0xFF,
		obp1: 0xFF,
	}
	for i := range p.framebuffer {
		p.framebuffer[i] = colors[0]
	}
	return p
}

func (p *PPU) Mode() Mode { return Mode(p.stat & 0x03) }

// Framebuffer returns the live backing array; callers must not retain
// references across frame boundaries without copying.
func (p *PPU) Framebuffer() []uint32 { return p.framebuffer[:] }

// FrameReady reports whether a new frame completed since the last
// ConsumeFrameReady call (latched on the 143->144 VBlank transition).
func (p *PPU) FrameReady() bool { return p.frameReady }

func (p *PPU) ConsumeFrameReady() { p.frameReady = false }

func (p *PPU) VBlankInterruptPending() bool { return p.vblankPending }
func (p *PPU) ClearVBlankInterrupt()        { p.vblankPending = false }
func (p *PPU) StatInterruptPending() bool   { return p.statPending }
func (p *PPU) ClearStatInterrupt()          { p.statPending = false }

func (p *PPU) Read(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == ModeDrawing {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.Mode()
		if m == ModeOamScan || m == ModeDrawing {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) Write(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if p.Mode() == ModeDrawing {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.Mode()
		if m == ModeOamScan || m == ModeDrawing {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if prev&0x80 != 0 && value&0x80 == 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(ModeHBlank)
			p.updateLYC()
		} else if prev&0x80 == 0 && value&0x80 != 0 {
			p.ly = 0
			p.dot = 0
			p.setMode(ModeOamScan)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		// LY is read-only; writes are discarded per spec.
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// DMATransfer copies 160 bytes from src (already resolved by the caller
// against the full address map) into OAM, for the 0xFF46 DMA trigger.
func (p *PPU) DMATransfer(src [0xA0]byte) {
	p.oam = src
}

// Tick advances the PPU by cycles T-cycles: scheduling modes within the
// current scanline, rendering completed scanlines, and latching VBlank
// entry exactly once per frame on the 143->144 transition.
func (p *PPU) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	if p.lcdc&0x80 == 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		p.dot++

		var mode Mode
		if p.ly >= vblankStart {
			mode = ModeVBlank
		} else {
			switch {
			case p.dot < oamScanEnd:
				mode = ModeOamScan
			case p.dot < drawingEnd:
				mode = ModeDrawing
			default:
				mode = ModeHBlank
			}
		}
		p.setMode(mode)

		if p.dot >= cyclesPerScanline {
			p.dot = 0
			if p.ly < vblankStart {
				p.renderScanline(int(p.ly))
			}
			prevLY := p.ly
			p.ly = (p.ly + 1) % scanlinesPerFrame
			if p.ly == vblankStart && prevLY != vblankStart {
				p.frameReady = true
				p.vblankPending = true
				if p.stat&(1<<4) != 0 {
					p.statPending = true
				}
			}
			p.updateLYC()
			if p.ly >= vblankStart {
				p.setMode(ModeVBlank)
			} else {
				p.setMode(ModeOamScan)
			}
		}
	}
}

func (p *PPU) setMode(mode Mode) {
	prev := Mode(p.stat & 0x03)
	if prev == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | byte(mode)
	switch mode {
	case ModeHBlank:
		if p.stat&(1<<3) != 0 {
			p.statPending = true
		}
	case ModeOamScan:
		if p.stat&(1<<5) != 0 {
			p.statPending = true
		}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if p.stat&(1<<6) != 0 {
			p.statPending = true
		}
	} else {
		p.stat &^= 1 << 2
	}
}

type vramWindow struct{ p *PPU }

func (v vramWindow) Read(addr uint16) byte { return v.p.vram[addr-0x8000] }

func (p *PPU) renderScanline(ly int) {
	vr := vramWindow{p}

	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		tileData8000 := p.lcdc&0x10 != 0
		bg := renderBGScanline(vr, mapBase, tileData8000, p.scx, p.scy, byte(ly))
		for x := 0; x < ScreenWidth; x++ {
			pc := (p.bgp >> (bg[x] * 2)) & 0x03
			p.framebuffer[ly*ScreenWidth+x] = colors[pc]
		}
	} else {
		for x := 0; x < ScreenWidth; x++ {
			p.framebuffer[ly*ScreenWidth+x] = colors[0]
		}
	}

	if p.lcdc&0x20 != 0 && ly >= int(p.wy) {
		mapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			mapBase = 0x9C00
		}
		tileData8000 := p.lcdc&0x10 != 0
		wxStart := int(p.wx) - 7
		winLine := byte(ly - int(p.wy))
		win := renderWindowScanline(vr, mapBase, tileData8000, wxStart, winLine)
		start := wxStart
		if start < 0 {
			start = 0
		}
		for x := start; x < ScreenWidth; x++ {
			pc := (p.bgp >> (win[x] * 2)) & 0x03
			p.framebuffer[ly*ScreenWidth+x] = colors[pc]
		}
	}

	if p.lcdc&0x02 != 0 {
		p.renderSpritesScanline(ly)
	}
}

// Register accessors for debug tooling and tests.
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) LY() byte   { return p.ly }
func (p *PPU) BGP() byte  { return p.bgp }
