// Package cart decodes the cartridge header and exposes the switchable
// ROM/RAM banking the interconnect needs. The mapper set is closed and
// small, so each variant is a concrete type behind one shared interface
// rather than dynamic lookup on the hot path.
package cart

// Cartridge is the minimal surface the interconnect needs from any mapper.
// Read/Write addresses are CPU addresses: 0x0000-0x7FFF for ROM/control and
// 0xA000-0xBFFF for external RAM.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)

	// SaveData returns the external RAM image if the cartridge is
	// battery-backed, or an empty slice otherwise.
	SaveData() []byte
	// LoadData restores external RAM from a previously saved image.
	LoadData(data []byte)
}

// New parses the ROM header and constructs the matching mapper. An
// unrecognized cartridge type, ROM size, or RAM size byte is a fatal loader
// error per the hardware contract: there is no sensible emulation to fall
// back to. Mapper families beyond MBC1 (MBC3, MBC5, ...) decode cleanly in
// the header but are outside this core's scope (no RTC-class mapper
// support; see spec Non-goals) and are reported the same way: a loader
// error naming the offending cartridge-type byte.
func New(rom []byte) (Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	kind, _ := classifyMapper(h.CartType) // already validated by ParseHeader
	switch kind {
	case mapperNone:
		return NewMBC0(rom), nil
	case mapperMBC1:
		return NewMBC1(rom, h.RAMSizeBytes, h.HasBattery()), nil
	default:
		return nil, &UnsupportedByteError{Field: "cartridge type (mapper out of scope)", Value: h.CartType}
	}
}
