package ppu

const maxSpritesPerLine = 8

// beginLine clears the line buffers, paints the backdrop and evaluates
// the sprites for the visible line that is starting.
func (p *PPU) beginLine(cart Cartridge) {
	backdrop := p.color(p.vram.Palette(0))
	row := p.frameBuffer[p.scanline*ScreenWidth : (p.scanline+1)*ScreenWidth]
	for i := range row {
		row[i] = backdrop
	}
	p.bgOpaque = [ScreenWidth]bool{}
	p.spriteColor = [ScreenWidth]uint8{}
	p.spriteBehind = [ScreenWidth]bool{}
	p.spriteZero = [ScreenWidth]bool{}

	if p.mask.Rendering() {
		p.evaluateSprites(cart)
	}
}

// renderDot runs the fetch and output work of one dot on a rendering line.
func (p *PPU) renderDot(cart Cartridge, visible bool) {
	switch d := p.dot; {
	case d >= 8 && d <= 256 && d%8 == 0:
		if visible {
			p.emitBackground(cart, d-8)
		}
		p.shiftTile()
		p.fetchTile(cart)
		p.incrementX()
		if d == 256 {
			p.incrementY()
		}
	case d == 257:
		p.copyX()
		if visible {
			p.compositeSprites()
		}
	case d == 328 || d == 336:
		p.shiftTile()
		p.fetchTile(cart)
		p.incrementX()
	}
}

func (p *PPU) shiftTile() {
	p.bgLo <<= 8
	p.bgHi <<= 8
	p.attrLo <<= 8
	p.attrHi <<= 8
}

// fetchTile loads the tile at v into the low byte of the shifters.
func (p *PPU) fetchTile(cart Cartridge) {
	v := p.v
	tile := uint16(p.vram.Read(0x2000|v&0x0FFF, cart))
	attr := p.vram.Read(0x23C0|v&0x0C00|(v>>4)&0x38|(v>>2)&0x07, cart)
	shift := (v>>4)&0x04 | v&0x02
	palette := (attr >> shift) & 0x03

	address := p.ctrl.BackgroundTable + tile*16 + (v>>12)&0x07
	p.bgLo |= uint16(p.vram.Read(address, cart))
	p.bgHi |= uint16(p.vram.Read(address+8, cart))
	if palette&0x01 != 0 {
		p.attrLo |= 0x00FF
	}
	if palette&0x02 != 0 {
		p.attrHi |= 0x00FF
	}
}

// emitBackground writes eight background pixels starting at column x0
// and records where sprite 0 meets an opaque background.
func (p *PPU) emitBackground(cart Cartridge, x0 int) {
	base := p.scanline * ScreenWidth
	for i := 0; i < 8; i++ {
		x := x0 + i
		var index uint8
		if p.mask.ShowBackground && (p.mask.BackgroundLeft || x >= 8) {
			shift := 15 - int(p.x) - i
			pixel := uint8(p.bgLo>>shift&1) | uint8(p.bgHi>>shift&1)<<1
			if pixel != 0 {
				palette := uint8(p.attrLo>>shift&1) | uint8(p.attrHi>>shift&1)<<1
				index = palette<<2 | pixel
				p.bgOpaque[x] = true
			}
		}
		p.frameBuffer[base+x] = p.color(p.vram.Palette(index))

		if p.spriteZero[x] && p.bgOpaque[x] && x != ScreenWidth-1 && p.mask.ShowSprites {
			p.spriteZeroPending = true
		}
	}
}

// evaluateSprites finds the sprites on the current line and renders
// their pixels into the line buffer. Sprites appear one line below their
// OAM Y.
func (p *PPU) evaluateSprites(cart Cartridge) {
	height := p.ctrl.SpriteHeight()
	count := 0
	for i := 0; i < 64; i++ {
		entry := p.oam[i*4 : i*4+4]
		row := p.scanline - int(entry[0]) - 1
		if row < 0 || row >= height {
			continue
		}
		if count == maxSpritesPerLine {
			p.status |= statusOverflow
			break
		}
		count++
		if p.mask.ShowSprites {
			p.drawSprite(cart, i, entry, row, height)
		}
	}
}

func (p *PPU) drawSprite(cart Cartridge, index int, entry []uint8, row, height int) {
	tile := uint16(entry[1])
	attr := entry[2]
	if attr&0x80 != 0 {
		row = height - 1 - row
	}

	table := p.ctrl.SpriteTable
	if height == 16 {
		table = (tile & 0x01) * 0x1000
		tile &^= 0x01
		if row >= 8 {
			tile++
			row -= 8
		}
	}
	address := table + tile*16 + uint16(row)
	lo := p.vram.Read(address, cart)
	hi := p.vram.Read(address+8, cart)

	for px := 0; px < 8; px++ {
		x := int(entry[3]) + px
		if x >= ScreenWidth {
			break
		}
		bit := 7 - px
		if attr&0x40 != 0 {
			bit = px
		}
		pixel := (lo>>bit)&1 | ((hi>>bit)&1)<<1
		if pixel == 0 || (!p.mask.SpritesLeft && x < 8) {
			continue
		}
		if index == 0 {
			p.spriteZero[x] = true
		}
		// lower OAM index wins, even when it sits behind the background
		if p.spriteColor[x] == 0 {
			p.spriteColor[x] = 0x10 | (attr&0x03)<<2 | pixel
			p.spriteBehind[x] = attr&0x20 != 0
		}
	}
}

// compositeSprites lays the line's sprite pixels over the background.
func (p *PPU) compositeSprites() {
	base := p.scanline * ScreenWidth
	for x, c := range p.spriteColor {
		if c == 0 || (p.spriteBehind[x] && p.bgOpaque[x]) {
			continue
		}
		p.frameBuffer[base+x] = p.color(p.vram.Palette(c))
	}
}
