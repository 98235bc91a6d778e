package ppu

// NES 2C02 colour palette (NTSC), 0xAARRGGBB.
var nesPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

// emphasized holds the palette for each combination of the three
// emphasis bits: every emphasized channel attenuates the other two.
var emphasized [8][64]uint32

func init() {
	const attenuation = 0.816
	for e := range emphasized {
		for i, c := range nesPalette {
			r := float64(c>>16&0xFF)
			g := float64(c>>8&0xFF)
			b := float64(c & 0xFF)
			if e&1 != 0 {
				g *= attenuation
				b *= attenuation
			}
			if e&2 != 0 {
				r *= attenuation
				b *= attenuation
			}
			if e&4 != 0 {
				r *= attenuation
				g *= attenuation
			}
			emphasized[e][i] = 0xFF000000 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
		}
	}
}

// RGB converts a palette index to 0xAARRGGBB without emphasis.
func RGB(index uint8) uint32 {
	return nesPalette[index&0x3F]
}

// color converts a palette RAM value through the current mask.
func (p *PPU) color(index uint8) uint32 {
	index &= 0x3F
	if p.mask.Grayscale {
		index &= 0x30
	}
	return emphasized[p.mask.emphasis()][index]
}
