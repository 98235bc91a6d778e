package cartridge

// mapper002 is UxROM: a switchable 16KB bank at 0x8000 and the last bank
// fixed at 0xC000. Pattern memory is usually CHR RAM.
type mapper002 struct {
	board
	bank int
	last int
}

func newMapper002(c *Cartridge) *mapper002 {
	m := &mapper002{board: board{c}}
	m.last = m.prgBanks(prgBankSize) - 1
	return m
}

func (m *mapper002) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0xC000:
		return m.prgAt(m.last*prgBankSize + int(address-0xC000))
	case address >= 0x8000:
		return m.prgAt(m.bank*prgBankSize + int(address-0x8000))
	}
	return m.readRAM(address)
}

func (m *mapper002) WritePRG(address uint16, value uint8) {
	if address >= 0x8000 {
		m.bank = int(value) % m.prgBanks(prgBankSize)
		return
	}
	m.writeRAM(address, value)
}

func (m *mapper002) ReadCHR(address uint16) uint8 { return m.chrAt(int(address)) }

func (m *mapper002) WriteCHR(address uint16, value uint8) { m.setCHR(int(address), value) }
