package ppu

// Fixed DMG palette (ARGB8888), indexed by 2-bit color index after
// applying BGP/OBP0/OBP1.
var colors = [4]uint32{
	0xFFE0F8D0, // lightest
	0xFF88C070,
	0xFF346856,
	0xFF081820, // darkest
}
