package memory

import "nesdot/internal/cartridge"

// VRAM is the PPU address space: pattern tables on the cartridge,
// nametables in console RAM, and palette RAM.
type VRAM struct {
	// 2KB on the board; the upper half is only used by four-screen carts
	nametables [0x1000]uint8
	palette    [32]uint8
}

// Read reads from PPU address space, wrapping at 0x3FFF.
func (v *VRAM) Read(address uint16, cart VideoCartridge) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if cart == nil {
			return 0
		}
		return cart.ReadCHR(address)
	case address < 0x3F00:
		return v.nametables[nametableIndex(address, mirroring(cart))]
	default:
		return v.palette[paletteIndex(address)]
	}
}

// Write writes to PPU address space, wrapping at 0x3FFF.
func (v *VRAM) Write(address uint16, value uint8, cart VideoCartridge) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if cart != nil {
			cart.WriteCHR(address, value)
		}
	case address < 0x3F00:
		v.nametables[nametableIndex(address, mirroring(cart))] = value
	default:
		v.palette[paletteIndex(address)] = value & 0x3F
	}
}

// Palette returns a palette entry by index 0-31.
func (v *VRAM) Palette(index uint8) uint8 {
	return v.palette[paletteIndex(uint16(index))]
}

func mirroring(cart VideoCartridge) cartridge.Mirror {
	if cart == nil {
		return cartridge.MirrorHorizontal
	}
	return cart.Mirroring()
}

// nametableIndex folds 0x2000-0x3EFF onto physical nametable memory.
func nametableIndex(address uint16, mode cartridge.Mirror) int {
	address = (address - 0x2000) & 0x0FFF
	table := address / 0x0400
	offset := int(address & 0x03FF)

	var page uint16
	switch mode {
	case cartridge.MirrorHorizontal:
		page = table / 2
	case cartridge.MirrorVertical:
		page = table % 2
	case cartridge.MirrorSingleScreen0:
		page = 0
	case cartridge.MirrorSingleScreen1:
		page = 1
	case cartridge.MirrorFourScreen:
		page = table
	}
	return int(page)*0x0400 + offset
}

// paletteIndex applies the 32-byte mirror and the backdrop aliases at
// 0x10, 0x14, 0x18 and 0x1C.
func paletteIndex(address uint16) int {
	index := address & 0x1F
	if index >= 0x10 && index&0x03 == 0 {
		index -= 0x10
	}
	return int(index)
}
