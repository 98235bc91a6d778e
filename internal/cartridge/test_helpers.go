package cartridge

import "bytes"

// Image describes an iNES file to synthesise, for tests and tools that
// need a cartridge without a ROM on disk.
type Image struct {
	PRG      []uint8 // multiple of 16KB; padded when short
	CHR      []uint8 // multiple of 8KB; empty for CHR RAM
	MapperID uint8
	Flags6   uint8 // mirroring, battery and four-screen bits
	Trainer  bool
}

// Bytes encodes the image with an iNES header.
func (img Image) Bytes() []byte {
	prg := pad(img.PRG, prgBankSize)
	chr := img.CHR
	if len(chr) > 0 {
		chr = pad(chr, chrBankSize)
	}

	flags6 := img.Flags6&0x0F | img.MapperID<<4
	if img.Trainer {
		flags6 |= 0x04
	}

	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.WriteByte(uint8(len(prg) / prgBankSize))
	buf.WriteByte(uint8(len(chr) / chrBankSize))
	buf.WriteByte(flags6)
	buf.WriteByte(img.MapperID & 0xF0)
	buf.Write(make([]byte, 8))
	if img.Trainer {
		buf.Write(make([]byte, trainerSize))
	}
	buf.Write(prg)
	buf.Write(chr)
	return buf.Bytes()
}

// Cartridge loads the encoded image.
func (img Image) Cartridge() (*Cartridge, error) {
	return Load(bytes.NewReader(img.Bytes()))
}

// NROM returns a 32KB mapper 0 image with code at 0x8000 and the reset
// vector pointing at it. NMI and IRQ vectors point at the same address.
func NROM(code []uint8) Image {
	prg := make([]uint8, 2*prgBankSize)
	copy(prg, code)
	prg[0x7FFA], prg[0x7FFB] = 0x00, 0x80
	prg[0x7FFC], prg[0x7FFD] = 0x00, 0x80
	prg[0x7FFE], prg[0x7FFF] = 0x00, 0x80
	return Image{PRG: prg}
}

func pad(data []uint8, unit int) []uint8 {
	n := len(data)
	if n == 0 {
		n = unit
	}
	if rem := n % unit; rem != 0 {
		n += unit - rem
	}
	out := make([]uint8, n)
	copy(out, data)
	return out
}
