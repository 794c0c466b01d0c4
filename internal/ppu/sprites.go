package ppu

type spriteHit struct {
	index int
	x     int
	y     int
}

// renderSpritesScanline composites up to 10 sprites onto framebuffer row ly.
// Sprites are scanned in OAM order, sorted ascending by X (stable, so ties
// keep OAM order), then drawn in reverse so the lowest-X (highest priority)
// sprite is painted last and wins ties.
func (p *PPU) renderSpritesScanline(ly int) {
	height := 8
	if p.lcdc&0x04 != 0 {
		height = 16
	}

	var onLine []spriteHit
	for i := 0; i < 40; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		x := int(p.oam[base+1]) - 8
		if ly >= y && ly < y+height {
			onLine = append(onLine, spriteHit{index: i, x: x, y: y})
			if len(onLine) >= 10 {
				break
			}
		}
	}

	insertionSortByX(onLine)

	for i := len(onLine) - 1; i >= 0; i-- {
		s := onLine[i]
		base := s.index * 4
		tileIndex := int(p.oam[base+2])
		attrs := p.oam[base+3]

		flipY := attrs&0x40 != 0
		flipX := attrs&0x20 != 0
		bgPriority := attrs&0x80 != 0
		palette := p.obp0
		if attrs&0x10 != 0 {
			palette = p.obp1
		}

		row := ly - s.y
		if flipY {
			row = height - 1 - row
		}

		tile := tileIndex
		if height == 16 {
			if row >= 8 {
				tile = tileIndex | 1
			} else {
				tile = tileIndex &^ 1
			}
		}
		rowInTile := row % 8

		tileAddr := tile*16 + rowInTile*2
		if tileAddr+1 >= len(p.vram) {
			continue
		}
		b1 := p.vram[tileAddr]
		b2 := p.vram[tileAddr+1]

		for px := 0; px < 8; px++ {
			screenX := s.x + px
			if screenX < 0 || screenX >= 160 {
				continue
			}
			bit := 7 - px
			if flipX {
				bit = px
			}
			lo := (b1 >> bit) & 1
			hi := (b2 >> bit) & 1
			ci := (hi << 1) | lo
			if ci == 0 {
				continue
			}
			fbIdx := ly*160 + screenX
			if bgPriority && p.framebuffer[fbIdx] != colors[0] {
				continue
			}
			pc := (palette >> (ci * 2)) & 0x03
			p.framebuffer[fbIdx] = colors[pc]
		}
	}
}

// insertionSortByX is a stable ascending sort on x; 10 sprites max per
// scanline makes insertion sort plenty fast and keeps OAM-index ties in
// their original order without pulling in sort.Slice's extra allocation.
func insertionSortByX(s []spriteHit) {
	for i := 1; i < len(s); i++ {
		v := s[i]
		j := i - 1
		for j >= 0 && s[j].x > v.x {
			s[j+1] = s[j]
			j--
		}
		s[j+1] = v
	}
}
