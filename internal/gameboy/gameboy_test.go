package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// romWithHeader builds a minimal ROM of size romSize with a valid header,
// enough to load through Machine.LoadROM.
func romWithHeader(cartType, romSizeCode, ramSizeCode byte, romSize int) []byte {
	rom := make([]byte, romSize)
	copy(rom[0x0134:], "TESTROM")
	rom[0x0147] = cartType
	rom[0x0148] = romSizeCode
	rom[0x0149] = ramSizeCode
	return rom
}

func newLoadedMachine(t *testing.T, rom []byte) *Machine {
	t.Helper()
	m := New()
	require.NoError(t, m.LoadROM(rom))
	return m
}

// Scenario 1: MBC1 bank switch with the 0->1 quirk, driven through the bus.
func TestScenario_MBC1BankSwitch(t *testing.T) {
	rom := romWithHeader(0x01, 0x04, 0x00, 512*1024) // MBC1, 512 KiB, no RAM
	rom[0x4000] = 0x11                               // bank 1, offset 0
	rom[0x8000] = 0x22                                // bank 2, offset 0
	rom[0xC000] = 0x33                                // bank 3, offset 0
	m := newLoadedMachine(t, rom)

	m.Bus().Write(0x2000, 2)
	assert.Equal(t, byte(0x22), m.Bus().Read(0x4000))

	m.Bus().Write(0x2000, 3)
	assert.Equal(t, byte(0x33), m.Bus().Read(0x4000))

	m.Bus().Write(0x2000, 0) // 0->1 quirk
	assert.Equal(t, byte(0x11), m.Bus().Read(0x4000))
}

// Scenario 2: CALL pushes return address and jumps; RET restores both.
func TestScenario_CallRetParity(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	rom[0x0100] = 0xCD // CALL a16
	rom[0x0101] = 0x00
	rom[0x0102] = 0x02
	rom[0x0200] = 0xC9 // RET
	m := newLoadedMachine(t, rom)

	m.Step() // CALL
	assert.Equal(t, uint16(0x0200), m.CPU().PC)
	assert.Equal(t, uint16(0xFFFC), m.CPU().SP)
	assert.Equal(t, byte(0x03), m.Bus().Read(0xFFFC))
	assert.Equal(t, byte(0x01), m.Bus().Read(0xFFFD))

	m.Step() // RET
	assert.Equal(t, uint16(0x0103), m.CPU().PC)
	assert.Equal(t, uint16(0xFFFE), m.CPU().SP)
}

// Scenario 3: DAA after ADD corrects a BCD sum.
func TestScenario_DAAAfterAdd(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	rom[0x0100] = 0x3E // LD A,0x45
	rom[0x0101] = 0x45
	rom[0x0102] = 0xC6 // ADD A,0x38
	rom[0x0103] = 0x38
	rom[0x0104] = 0x27 // DAA
	m := newLoadedMachine(t, rom)

	m.Step() // LD
	m.Step() // ADD
	assert.Equal(t, byte(0x7D), m.CPU().A)

	m.Step() // DAA
	assert.Equal(t, byte(0x83), m.CPU().A)
	assert.False(t, m.CPU().Halted())
}

// Scenario 4: a VBlank raised on the 143->144 transition dispatches on the
// very next fetch.
func TestScenario_VBlankInterruptDelivery(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	m := newLoadedMachine(t, rom)
	m.CPU().IME = true
	m.Bus().Write(0xFFFF, 0x01) // IE = VBlank only

	// Drive the PPU to LY=143, one cycle before the VBlank transition.
	for m.Bus().PPU().LY() < 143 {
		m.Bus().Tick(456)
	}
	m.Bus().Tick(455)
	require.Equal(t, byte(143), m.Bus().PPU().LY())

	m.Bus().Tick(1) // the 143->144 transition
	assert.Equal(t, byte(144), m.Bus().PPU().LY())
	assert.Equal(t, byte(0x01), m.Bus().IF())

	cyc := m.Step() // dispatch, not a fetch of ROM code
	assert.Equal(t, 20, cyc)
	assert.Equal(t, uint16(0x0040), m.CPU().PC)
	assert.False(t, m.CPU().IME)
	assert.Equal(t, byte(0x00), m.Bus().IF())
}

// Scenario 5: joypad direction selection reports Right pressed, then
// released.
func TestScenario_JoypadSelection(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	m := newLoadedMachine(t, rom)

	m.Bus().Write(0xFF00, 0x20) // select direction keys
	m.SetButtons(Buttons{Right: true})
	assert.Equal(t, byte(0x0E), m.Bus().Read(0xFF00)&0x0F)

	m.SetButtons(Buttons{})
	assert.Equal(t, byte(0x0F), m.Bus().Read(0xFF00)&0x0F)
}

// Scenario 6: OAM DMA copies 160 bytes from the source page into OAM
// atomically.
func TestScenario_OAMDMA(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	m := newLoadedMachine(t, rom)

	for i := 0; i < 0xA0; i++ {
		m.Bus().Write(0xC000+uint16(i), 0x11+byte(i))
	}
	m.Bus().Write(0xFF46, 0xC0)

	for i := 0; i < 0xA0; i++ {
		assert.Equal(t, 0x11+byte(i), m.Bus().Read(0xFE00+uint16(i)))
	}
}

func TestMachine_PressReleaseButton(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	m := newLoadedMachine(t, rom)

	m.Bus().Write(0xFF00, 0x20) // select direction keys
	m.PressButton(ButtonRight)
	assert.Equal(t, byte(0x0E), m.Bus().Read(0xFF00)&0x0F)

	m.ReleaseButton(ButtonRight)
	assert.Equal(t, byte(0x0F), m.Bus().Read(0xFF00)&0x0F)
}

func TestMachine_FramebufferIsScreenSized(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00, 32*1024)
	m := newLoadedMachine(t, rom)
	fb := m.Framebuffer()
	assert.Len(t, fb, screenWidth*screenHeight*4)
}

func TestMachine_SaveLoadRAMRoundTrip(t *testing.T) {
	rom := romWithHeader(0x03, 0x00, 0x02, 32*1024) // MBC1+RAM+BATTERY, 8 KiB RAM
	m := newLoadedMachine(t, rom)

	m.Bus().Write(0x0000, 0x0A) // enable RAM
	m.Bus().Write(0xA000, 0x42)
	saved := m.SaveRAM()
	require.NotEmpty(t, saved)

	m2 := newLoadedMachine(t, rom)
	m2.Bus().Write(0x0000, 0x0A)
	m2.LoadRAM(saved)
	assert.Equal(t, byte(0x42), m2.Bus().Read(0xA000))
}
