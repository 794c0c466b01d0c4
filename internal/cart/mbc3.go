package cart

// MBC3 implements MBC3-style ROM/RAM banking without the real-time-clock
// registers (RTC-class mapper support is out of this core's scope, per the
// spec Non-goals). It is not reachable from New/ParseHeader dispatch; it
// exists as a concrete, independently testable Cartridge so the banking
// contract demonstrably generalizes past MBC1 without pulling RTC emulation
// into the address-map dispatch the interconnect relies on.
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    byte // 7 bits, 0 coerced to 1
	ramBank    byte // 0-3; RTC register selects (0x08-0x0C) are ignored
	battery    bool
}

func NewMBC3(rom []byte, ramSize int, battery bool) *MBC3 {
	m := &MBC3{rom: rom, battery: battery}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
	}
	return m
}

func (m *MBC3) effectiveROMBank() int {
	bank := m.romBank & 0x7F
	if bank == 0 {
		bank = 1
	}
	return int(bank)
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		off := m.effectiveROMBank()*0x4000 + int(addr-0x4000)
		if off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBank > 0x03 {
			return 0xFF
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.ramBank = value // RTC select values (0x08-0x0C) simply miss every RAM read/write above
	case addr < 0x8000:
		// Latch-clock-data trigger: no RTC to latch.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBank > 0x03 {
			return
		}
		off := int(m.ramBank)*0x2000 + int(addr-0xA000)
		if off < len(m.ram) {
			m.ram[off] = value
		}
	}
}

func (m *MBC3) SaveData() []byte {
	if !m.battery || len(m.ram) == 0 {
		return []byte{}
	}
	out := make([]byte, len(m.ram))
	copy(out, m.ram)
	return out
}

func (m *MBC3) LoadData(data []byte) {
	if len(m.ram) == 0 {
		return
	}
	copy(m.ram, data)
}
