package ppu

import "nesdot/internal/memory"

// Control is PPUCTRL ($2000) decoded.
type Control struct {
	NametableBase   uint16
	Increment       uint16 // 1 or 32
	SpriteTable     uint16
	BackgroundTable uint16
	TallSprites     bool // 8x16
	Master          bool
	NMI             bool
}

func decodeControl(v uint8) Control {
	c := Control{
		NametableBase: 0x2000 + uint16(v&0x03)*0x400,
		Increment:     1,
		TallSprites:   v&0x20 != 0,
		Master:        v&0x40 != 0,
		NMI:           v&0x80 != 0,
	}
	if v&0x04 != 0 {
		c.Increment = 32
	}
	if v&0x08 != 0 {
		c.SpriteTable = 0x1000
	}
	if v&0x10 != 0 {
		c.BackgroundTable = 0x1000
	}
	return c
}

// SpriteHeight is 8 or 16.
func (c Control) SpriteHeight() int {
	if c.TallSprites {
		return 16
	}
	return 8
}

// Mask is PPUMASK ($2001) decoded.
type Mask struct {
	Grayscale      bool
	BackgroundLeft bool
	SpritesLeft    bool
	ShowBackground bool
	ShowSprites    bool
	EmphasizeRed   bool
	EmphasizeGreen bool
	EmphasizeBlue  bool
}

func decodeMask(v uint8) Mask {
	return Mask{
		Grayscale:      v&0x01 != 0,
		BackgroundLeft: v&0x02 != 0,
		SpritesLeft:    v&0x04 != 0,
		ShowBackground: v&0x08 != 0,
		ShowSprites:    v&0x10 != 0,
		EmphasizeRed:   v&0x20 != 0,
		EmphasizeGreen: v&0x40 != 0,
		EmphasizeBlue:  v&0x80 != 0,
	}
}

// Rendering reports whether either layer is enabled.
func (m Mask) Rendering() bool {
	return m.ShowBackground || m.ShowSprites
}

func (m Mask) emphasis() int {
	e := 0
	if m.EmphasizeRed {
		e |= 1
	}
	if m.EmphasizeGreen {
		e |= 2
	}
	if m.EmphasizeBlue {
		e |= 4
	}
	return e
}

// ReadRegister reads a CPU-visible register, $2000-$2007.
func (p *PPU) ReadRegister(address uint16, cart memory.VideoCartridge) uint8 {
	switch address & 0x07 {
	case 0x02: // PPUSTATUS
		value := p.status&0xE0 | p.openBus&0x1F
		p.status &^= statusVBlank
		p.w = false
		p.openBus = value
	case 0x04: // OAMDATA
		value := p.oam[p.oamAddr]
		if p.oamAddr&0x03 == 2 {
			value &= 0xE3 // unimplemented attribute bits
		}
		p.openBus = value
	case 0x07: // PPUDATA
		p.openBus = p.readData(cart)
	}
	// write-only registers return the latch
	return p.openBus
}

// WriteRegister writes a CPU-visible register, $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8, cart memory.VideoCartridge) {
	p.openBus = value
	switch address & 0x07 {
	case 0x00: // PPUCTRL
		wasEnabled := p.ctrl.NMI
		p.ctrl = decodeControl(value)
		p.t = p.t&0xF3FF | uint16(value&0x03)<<10
		if p.ctrl.NMI && !wasEnabled && p.InVBlank() && !p.nmiDelivered {
			p.nmiDelivered = true
			p.nmiRequest = true
		}
	case 0x01: // PPUMASK
		p.mask = decodeMask(value)
	case 0x03: // OAMADDR
		p.oamAddr = value
	case 0x04: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x05: // PPUSCROLL
		if !p.w {
			p.t = p.t&0xFFE0 | uint16(value)>>3
			p.x = value & 0x07
		} else {
			p.t = p.t&0x8FFF | uint16(value&0x07)<<12
			p.t = p.t&0xFC1F | uint16(value&0xF8)<<2
		}
		p.w = !p.w
	case 0x06: // PPUADDR
		if !p.w {
			p.t = p.t&0x80FF | uint16(value&0x3F)<<8
		} else {
			p.t = p.t&0xFF00 | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 0x07: // PPUDATA
		p.vram.Write(p.v, value, cart)
		p.incrementAddress()
	}
}

// readData returns buffered PPUDATA. Palette reads bypass the buffer,
// which is refilled from the nametable underneath.
func (p *PPU) readData(cart memory.VideoCartridge) uint8 {
	address := p.v & 0x3FFF
	var value uint8
	if address >= 0x3F00 {
		value = p.vram.Read(address, cart) | p.openBus&0xC0
		p.readBuffer = p.vram.Read(address&0x2FFF, cart)
	} else {
		value = p.readBuffer
		p.readBuffer = p.vram.Read(address, cart)
	}
	p.incrementAddress()
	return value
}

func (p *PPU) incrementAddress() {
	p.v = (p.v + p.ctrl.Increment) & 0x3FFF
}

// loopy register updates

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&0xFBE0 | p.t&0x041F
}

func (p *PPU) copyY() {
	p.v = p.v&0x841F | p.t&0x7BE0
}
