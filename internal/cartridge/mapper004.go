package cartridge

// mapper004 is MMC3: 8KB PRG and 1KB/2KB CHR banking through eight bank
// registers, software mirroring, and a scanline counter clocked by the PPU
// that raises IRQ when it reaches zero.
type mapper004 struct {
	board

	bankSelect uint8
	registers  [8]uint8
	mirror     Mirror

	irqLatch   uint8
	irqCounter uint8
	irqReload  bool
	irqEnabled bool
	irqPending bool

	prgOffsets [4]int
	chrOffsets [8]int
}

const (
	mmc3PRGBank = 0x2000
	mmc3CHRBank = 0x0400
)

func newMapper004(c *Cartridge) *mapper004 {
	m := &mapper004{board: board{c}, mirror: c.mirror}
	m.updateOffsets()
	return m
}

func (m *mapper004) ReadPRG(address uint16) uint8 {
	if address >= 0x8000 {
		slot := int(address-0x8000) / mmc3PRGBank
		return m.prgAt(m.prgOffsets[slot] + int(address)%mmc3PRGBank)
	}
	return m.readRAM(address)
}

func (m *mapper004) WritePRG(address uint16, value uint8) {
	if address < 0x8000 {
		m.writeRAM(address, value)
		return
	}
	even := address&1 == 0
	switch {
	case address <= 0x9FFF && even:
		m.bankSelect = value
		m.updateOffsets()
	case address <= 0x9FFF:
		m.registers[m.bankSelect&7] = value
		m.updateOffsets()
	case address <= 0xBFFF && even:
		if m.cart.mirror != MirrorFourScreen {
			if value&1 == 0 {
				m.mirror = MirrorVertical
			} else {
				m.mirror = MirrorHorizontal
			}
		}
	case address <= 0xBFFF:
		// PRG RAM protect; RAM is always enabled.
	case address <= 0xDFFF && even:
		m.irqLatch = value
	case address <= 0xDFFF:
		m.irqCounter = 0
		m.irqReload = true
	case even:
		m.irqEnabled = false
		m.irqPending = false
	default:
		m.irqEnabled = true
	}
}

func (m *mapper004) updateOffsets() {
	prgBanks := m.prgBanks(mmc3PRGBank)
	bank := func(n int) int { return (n % prgBanks) * mmc3PRGBank }

	secondLast := bank(prgBanks - 2)
	if m.bankSelect&0x40 == 0 {
		m.prgOffsets[0] = bank(int(m.registers[6]))
		m.prgOffsets[2] = secondLast
	} else {
		m.prgOffsets[0] = secondLast
		m.prgOffsets[2] = bank(int(m.registers[6]))
	}
	m.prgOffsets[1] = bank(int(m.registers[7]))
	m.prgOffsets[3] = bank(prgBanks - 1)

	chrBanks := m.chrBanks(mmc3CHRBank)
	chr := func(n int) int { return (n % chrBanks) * mmc3CHRBank }

	var offsets [8]int
	offsets[0] = chr(int(m.registers[0] & 0xFE))
	offsets[1] = chr(int(m.registers[0] | 0x01))
	offsets[2] = chr(int(m.registers[1] & 0xFE))
	offsets[3] = chr(int(m.registers[1] | 0x01))
	for i := 0; i < 4; i++ {
		offsets[4+i] = chr(int(m.registers[2+i]))
	}
	if m.bankSelect&0x80 != 0 {
		offsets[0], offsets[1], offsets[2], offsets[3], offsets[4], offsets[5], offsets[6], offsets[7] =
			offsets[4], offsets[5], offsets[6], offsets[7], offsets[0], offsets[1], offsets[2], offsets[3]
	}
	m.chrOffsets = offsets
}

func (m *mapper004) ReadCHR(address uint16) uint8 {
	slot := int(address&0x1FFF) / mmc3CHRBank
	return m.chrAt(m.chrOffsets[slot] + int(address)%mmc3CHRBank)
}

func (m *mapper004) WriteCHR(address uint16, value uint8) {
	slot := int(address&0x1FFF) / mmc3CHRBank
	m.setCHR(m.chrOffsets[slot]+int(address)%mmc3CHRBank, value)
}

func (m *mapper004) Mirroring() Mirror { return m.mirror }

func (m *mapper004) IRQClock(int) bool {
	if m.irqCounter == 0 || m.irqReload {
		m.irqCounter = m.irqLatch
		m.irqReload = false
	} else {
		m.irqCounter--
	}
	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
	return m.irqPending
}

func (m *mapper004) IRQPending() bool { return m.irqPending }
