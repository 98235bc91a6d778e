package cartridge

// board carries what every mapper shares: the image, PRG RAM at
// 0x6000-0x7FFF and the header mirroring.
type board struct {
	cart *Cartridge
}

func (b board) Mirroring() Mirror { return b.cart.mirror }

func (b board) Decodes(address uint16) bool { return address >= 0x6000 }

func (b board) IRQClock(int) bool { return false }

func (b board) IRQPending() bool { return false }

func (b board) readRAM(address uint16) uint8 {
	return b.cart.sram[address-0x6000]
}

func (b board) writeRAM(address uint16, value uint8) {
	b.cart.sram[address-0x6000] = value
}

// prgAt reads PRG ROM at a bank-relative offset, wrapping to the image size.
func (b board) prgAt(offset int) uint8 {
	return b.cart.prg[offset%len(b.cart.prg)]
}

func (b board) chrAt(offset int) uint8 {
	return b.cart.chr[offset%len(b.cart.chr)]
}

func (b board) setCHR(offset int, value uint8) {
	if b.cart.chrRAM {
		b.cart.chr[offset%len(b.cart.chr)] = value
	}
}

// prgBanks counts banks of the given size, at least one.
func (b board) prgBanks(size int) int {
	n := len(b.cart.prg) / size
	if n == 0 {
		return 1
	}
	return n
}

func (b board) chrBanks(size int) int {
	n := len(b.cart.chr) / size
	if n == 0 {
		return 1
	}
	return n
}
