package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func romWithHeader(cartType, romSize, ramSize byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x0134:], "TESTROM")
	rom[0x0147] = cartType
	rom[0x0148] = romSize
	rom[0x0149] = ramSize
	return rom
}

func TestParseHeader_Basics(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00)
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.Equal(t, "TESTROM", h.Title)
	assert.Equal(t, 32*1024, h.ROMSizeBytes)
	assert.Equal(t, 2, h.ROMBanks)
	assert.Equal(t, 0, h.RAMSizeBytes)
	assert.Equal(t, "ROM ONLY", h.CartTypeStr)
}

func TestParseHeader_TooSmall(t *testing.T) {
	_, err := ParseHeader(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestParseHeader_UnsupportedROMSize(t *testing.T) {
	rom := romWithHeader(0x00, 0xEE, 0x00)
	_, err := ParseHeader(rom)
	require.Error(t, err)
	var ube *UnsupportedByteError
	assert.ErrorAs(t, err, &ube)
	assert.Equal(t, byte(0xEE), ube.Value)
}

func TestParseHeader_UnsupportedRAMSize(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0xEE)
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestParseHeader_UnsupportedCartType(t *testing.T) {
	rom := romWithHeader(0xEE, 0x00, 0x00)
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestHeader_HasBattery(t *testing.T) {
	rom := romWithHeader(0x03, 0x00, 0x02) // MBC1+RAM+BATTERY
	h, err := ParseHeader(rom)
	require.NoError(t, err)
	assert.True(t, h.HasBattery())

	rom2 := romWithHeader(0x01, 0x00, 0x00) // MBC1, no battery
	h2, err := ParseHeader(rom2)
	require.NoError(t, err)
	assert.False(t, h2.HasBattery())
}

func TestNewCartridge_DispatchesByType(t *testing.T) {
	rom := romWithHeader(0x00, 0x00, 0x00)
	c, err := New(rom)
	require.NoError(t, err)
	_, isMBC0 := c.(*MBC0)
	assert.True(t, isMBC0)

	rom1 := romWithHeader(0x01, 0x04, 0x00)
	c1, err := New(rom1)
	require.NoError(t, err)
	_, isMBC1 := c1.(*MBC1)
	assert.True(t, isMBC1)
}

func TestNewCartridge_OutOfScopeMapperRejected(t *testing.T) {
	rom := romWithHeader(0x13, 0x00, 0x02) // MBC3+RAM+BATTERY: valid header, out of core scope
	_, err := New(rom)
	assert.Error(t, err)
}
