package cartridge

// mapper003 is CNROM: fixed PRG as in NROM with an 8KB CHR bank selected
// by any write to 0x8000-0xFFFF.
type mapper003 struct {
	board
	chrBank int
}

func newMapper003(c *Cartridge) *mapper003 {
	return &mapper003{board: board{c}}
}

func (m *mapper003) ReadPRG(address uint16) uint8 {
	if address >= 0x8000 {
		return m.prgAt(int(address - 0x8000))
	}
	return m.readRAM(address)
}

func (m *mapper003) WritePRG(address uint16, value uint8) {
	if address >= 0x8000 {
		m.chrBank = int(value&0x03) % m.chrBanks(chrBankSize)
		return
	}
	m.writeRAM(address, value)
}

func (m *mapper003) ReadCHR(address uint16) uint8 {
	return m.chrAt(m.chrBank*chrBankSize + int(address))
}

func (m *mapper003) WriteCHR(address uint16, value uint8) {
	m.setCHR(m.chrBank*chrBankSize+int(address), value)
}
