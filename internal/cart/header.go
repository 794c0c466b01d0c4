package cart

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	headerStart = 0x0100
	headerEnd   = 0x014F
)

// Header is the decoded 80-byte cartridge header starting at 0x0100.
type Header struct {
	Title          string // 0x0134-0x0143, trimmed at the first NUL
	CGBFlag        byte   // 0x0143
	NewLicensee    string // 0x0144-0x0145
	SGBFlag        byte   // 0x0146
	CartType       byte   // 0x0147
	ROMSizeCode    byte   // 0x0148
	RAMSizeCode    byte   // 0x0149
	Destination    byte   // 0x014A
	OldLicensee    byte   // 0x014B
	ROMVersion     byte   // 0x014C
	HeaderChecksum byte   // 0x014D
	GlobalChecksum uint16 // 0x014E-0x014F

	ROMSizeBytes int
	ROMBanks     int
	RAMSizeBytes int
	CartTypeStr  string
}

// UnsupportedByteError is returned by ParseHeader when a header byte does not
// correspond to any known encoding. This is a loader error: fatal, and the
// caller surfaces the offending byte to the host.
type UnsupportedByteError struct {
	Field string
	Value byte
}

func (e *UnsupportedByteError) Error() string {
	return fmt.Sprintf("cart: unsupported %s byte %#02x", e.Field, e.Value)
}

// ParseHeader decodes the cartridge header at 0x0100. It returns an error if
// the ROM is too small to contain a header, or if the cartridge type, ROM
// size, or RAM size byte is not a recognized encoding.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerEnd+1 {
		return nil, fmt.Errorf("cart: ROM too small to contain header (%d bytes)", len(rom))
	}

	rawTitle := rom[0x0134:0x0144]
	title := string(rawTitle)
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	h := &Header{
		Title:          title,
		CGBFlag:        rom[0x0143],
		NewLicensee:    string(rom[0x0144:0x0146]),
		SGBFlag:        rom[0x0146],
		CartType:       rom[0x0147],
		ROMSizeCode:    rom[0x0148],
		RAMSizeCode:    rom[0x0149],
		Destination:    rom[0x014A],
		OldLicensee:    rom[0x014B],
		ROMVersion:     rom[0x014C],
		HeaderChecksum: rom[0x014D],
		GlobalChecksum: binary.BigEndian.Uint16(rom[0x014E:0x0150]),
	}

	romSize, romBanks, ok := decodeROMSize(h.ROMSizeCode)
	if !ok {
		return nil, &UnsupportedByteError{Field: "ROM size", Value: h.ROMSizeCode}
	}
	ramSize, ok := decodeRAMSize(h.RAMSizeCode)
	if !ok {
		return nil, &UnsupportedByteError{Field: "RAM size", Value: h.RAMSizeCode}
	}
	mapper, ok := classifyMapper(h.CartType)
	if !ok {
		return nil, &UnsupportedByteError{Field: "cartridge type", Value: h.CartType}
	}

	h.ROMSizeBytes, h.ROMBanks = romSize, romBanks
	h.RAMSizeBytes = ramSize
	h.CartTypeStr = mapperString(mapper)

	return h, nil
}

// HasBattery reports whether the header's cartridge type byte denotes
// battery-backed RAM.
func (h *Header) HasBattery() bool {
	switch h.CartType {
	case 0x03, 0x06, 0x09, 0x0D, 0x0F, 0x10, 0x13, 0x1B, 0x1E, 0xFF:
		return true
	default:
		return false
	}
}

func decodeROMSize(code byte) (size, banks int, ok bool) {
	switch code {
	case 0x00:
		return 32 * 1024, 2, true
	case 0x01:
		return 64 * 1024, 4, true
	case 0x02:
		return 128 * 1024, 8, true
	case 0x03:
		return 256 * 1024, 16, true
	case 0x04:
		return 512 * 1024, 32, true
	case 0x05:
		return 1 * 1024 * 1024, 64, true
	case 0x06:
		return 2 * 1024 * 1024, 128, true
	case 0x07:
		return 4 * 1024 * 1024, 256, true
	case 0x08:
		return 8 * 1024 * 1024, 512, true
	default:
		return 0, 0, false
	}
}

func decodeRAMSize(code byte) (size int, ok bool) {
	switch code {
	case 0x00:
		return 0, true
	case 0x01:
		// Unofficial 2 KiB encoding; several early dumps use it.
		return 2 * 1024, true
	case 0x02:
		return 8 * 1024, true
	case 0x03:
		return 32 * 1024, true
	case 0x04:
		return 128 * 1024, true
	case 0x05:
		return 64 * 1024, true
	default:
		return 0, false
	}
}

// classifyMapper classifies the cartridge type byte into the family that decides
// which Cartridge implementation to construct.
type mapperKind int

const (
	mapperNone mapperKind = iota
	mapperMBC1
	mapperMBC3
	mapperMBC5
)

func classifyMapper(code byte) (mapperKind, bool) {
	switch code {
	case 0x00, 0x08, 0x09:
		return mapperNone, true
	case 0x01, 0x02, 0x03:
		return mapperMBC1, true
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return mapperMBC3, true
	case 0x19, 0x1A, 0x1B, 0x1C, 0x1D, 0x1E:
		return mapperMBC5, true
	default:
		return mapperNone, false
	}
}

func mapperString(k mapperKind) string {
	switch k {
	case mapperNone:
		return "ROM ONLY"
	case mapperMBC1:
		return "MBC1"
	case mapperMBC3:
		return "MBC3"
	case mapperMBC5:
		return "MBC5"
	default:
		return "unknown"
	}
}
