package cartridge

// mapper001 is MMC1. Registers are loaded serially: five writes of bit 0,
// the fifth selecting the target register by address bits 13-14. Writing
// a value with bit 7 set resets the shift register.
type mapper001 struct {
	board

	shift   uint8
	control uint8
	chr0    uint8
	chr1    uint8
	prg     uint8

	prgOffsets [2]int
	chrOffsets [2]int
}

const mmc1ShiftReset = 0x10

func newMapper001(c *Cartridge) *mapper001 {
	m := &mapper001{
		board:   board{c},
		shift:   mmc1ShiftReset,
		control: 0x0C,
	}
	m.updateOffsets()
	return m
}

func (m *mapper001) ReadPRG(address uint16) uint8 {
	if address >= 0x8000 {
		slot := int(address-0x8000) / prgBankSize
		return m.prgAt(m.prgOffsets[slot] + int(address)%prgBankSize)
	}
	return m.readRAM(address)
}

func (m *mapper001) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		m.writeRAM(address, value)
		return
	}
	if value&0x80 != 0 {
		m.shift = mmc1ShiftReset
		m.control |= 0x0C
		m.updateOffsets()
		return
	}
	done := m.shift&1 == 1
	m.shift = m.shift>>1 | (value&1)<<4
	if !done {
		return
	}
	m.writeRegister(address, m.shift)
	m.shift = mmc1ShiftReset
}

func (m *mapper001) writeRegister(address uint16, value uint8) {
	switch {
	case address <= 0x9FFF:
		m.control = value
	case address <= 0xBFFF:
		m.chr0 = value
	case address <= 0xDFFF:
		m.chr1 = value
	default:
		m.prg = value & 0x0F
	}
	m.updateOffsets()
}

func (m *mapper001) updateOffsets() {
	banks := m.prgBanks(prgBankSize)
	switch (m.control >> 2) & 3 {
	case 0, 1:
		base := int(m.prg&0x0E) % banks
		m.prgOffsets[0] = base * prgBankSize
		m.prgOffsets[1] = (base + 1) * prgBankSize
	case 2:
		m.prgOffsets[0] = 0
		m.prgOffsets[1] = (int(m.prg) % banks) * prgBankSize
	case 3:
		m.prgOffsets[0] = (int(m.prg) % banks) * prgBankSize
		m.prgOffsets[1] = (banks - 1) * prgBankSize
	}

	const half = chrBankSize / 2
	chrBanks := m.chrBanks(half)
	if m.control&0x10 == 0 {
		base := int(m.chr0&0x1E) % chrBanks
		m.chrOffsets[0] = base * half
		m.chrOffsets[1] = (base + 1) * half
	} else {
		m.chrOffsets[0] = (int(m.chr0) % chrBanks) * half
		m.chrOffsets[1] = (int(m.chr1) % chrBanks) * half
	}
}

func (m *mapper001) Mirroring() Mirror {
	switch m.control & 3 {
	case 0:
		return MirrorSingleScreen0
	case 1:
		return MirrorSingleScreen1
	case 2:
		return MirrorVertical
	}
	return MirrorHorizontal
}

func (m *mapper001) ReadCHR(address uint16) uint8 {
	return m.chrAt(m.chrOffsets[address>>12&1] + int(address&0x0FFF))
}

func (m *mapper001) WriteCHR(address uint16, value uint8) {
	m.setCHR(m.chrOffsets[address>>12&1]+int(address&0x0FFF), value)
}
