package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMBC0_ReadOutsideROMIsFF(t *testing.T) {
	c := NewMBC0(make([]byte, 0x4000))
	assert.Equal(t, byte(0xFF), c.Read(0x7000))
	assert.Equal(t, byte(0xFF), c.Read(0xA000))
}

func TestMBC0_WriteIsNoOp(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x100] = 0xAB
	c := NewMBC0(rom)
	c.Write(0x100, 0xCD)
	assert.Equal(t, byte(0xAB), c.Read(0x100))
}

// MBC3 and MBC5 are never reached through New's dispatch, but the
// Cartridge contract they implement is exercised directly here.
func TestMBC3_BankSwitchAndRAM(t *testing.T) {
	const romSize = 256 * 1024
	rom := make([]byte, romSize)
	rom[1*0x4000] = 0xAA
	rom[5*0x4000] = 0xBB

	m := NewMBC3(rom, 4*0x2000, true)

	m.Write(0x2000, 5)
	assert.Equal(t, byte(0xBB), m.Read(0x4000))

	m.Write(0x2000, 0) // coerced to 1
	assert.Equal(t, byte(0xAA), m.Read(0x4000))

	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x01) // select RAM bank 1
	m.Write(0xA000, 0x55)
	assert.Equal(t, byte(0x55), m.Read(0xA000))

	saved := m.SaveData()
	require.Len(t, saved, 4*0x2000)

	m.Write(0x4000, 0x08) // RTC register select: out of scope, simply misses RAM
	assert.Equal(t, byte(0xFF), m.Read(0xA000))
}

func TestMBC5_WideBankSelect(t *testing.T) {
	const romSize = 0x102 * 0x4000 // enough for bank 0x101
	rom := make([]byte, romSize)
	rom[0x101*0x4000] = 0x77

	m := NewMBC5(rom, 4*0x2000, false)

	m.Write(0x2000, 0x01) // low 8 bits
	m.Write(0x3000, 0x01) // high bit
	assert.Equal(t, byte(0x77), m.Read(0x4000))

	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x03) // RAM bank 3
	m.Write(0xA000, 0x66)
	assert.Equal(t, byte(0x66), m.Read(0xA000))
	assert.Empty(t, m.SaveData()) // no battery
}

func TestMBC5_RAMDisabledReadsFF(t *testing.T) {
	rom := make([]byte, 0x8000)
	m := NewMBC5(rom, 0x2000, false)
	assert.Equal(t, byte(0xFF), m.Read(0xA000))
}
