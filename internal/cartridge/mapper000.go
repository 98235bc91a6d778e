package cartridge

// mapper000 is NROM: 16KB or 32KB of PRG with the 16KB case mirrored into
// 0xC000, and 8KB of CHR ROM or RAM. No bank switching.
type mapper000 struct {
	board
}

func newMapper000(c *Cartridge) *mapper000 {
	return &mapper000{board{c}}
}

func (m *mapper000) ReadPRG(address uint16) uint8 {
	if address >= 0x8000 {
		return m.prgAt(int(address - 0x8000))
	}
	return m.readRAM(address)
}

func (m *mapper000) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		m.writeRAM(address, value)
	}
}

func (m *mapper000) ReadCHR(address uint16) uint8 {
	return m.chrAt(int(address))
}

func (m *mapper000) WriteCHR(address uint16, value uint8) {
	m.setCHR(int(address), value)
}
