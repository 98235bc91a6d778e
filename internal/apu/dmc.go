package apu

var dmcRateTable = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

// Cartridge supplies sample bytes to the delta modulation channel.
type Cartridge interface {
	ReadPRG(address uint16) uint8
}

type dmc struct {
	irqEnabled bool
	irqFlag    bool
	loop       bool
	period     uint16
	timer      uint16
	level      uint8

	sampleAddress uint16
	sampleLength  uint16
	address       uint16
	remaining     uint16

	buffer     uint8
	bufferFull bool
	shift      uint8
	bitsLeft   uint8
	silent     bool
}

func (d *dmc) write(reg uint16, value uint8) {
	switch reg {
	case 0x4010:
		d.irqEnabled = value&0x80 != 0
		d.loop = value&0x40 != 0
		d.period = dmcRateTable[value&0x0F]
		if !d.irqEnabled {
			d.irqFlag = false
		}
	case 0x4011:
		d.level = value & 0x7F
	case 0x4012:
		d.sampleAddress = 0xC000 | uint16(value)<<6
	case 0x4013:
		d.sampleLength = uint16(value)<<4 | 1
	}
}

func (d *dmc) setEnabled(on bool) {
	d.irqFlag = false
	if !on {
		d.remaining = 0
	} else if d.remaining == 0 {
		d.restart()
	}
}

func (d *dmc) restart() {
	d.address = d.sampleAddress
	d.remaining = d.sampleLength
}

// fill reads the next sample byte from PRG when the buffer is empty.
func (d *dmc) fill(cart Cartridge) {
	if d.bufferFull || d.remaining == 0 || cart == nil {
		return
	}
	d.buffer = cart.ReadPRG(d.address)
	d.bufferFull = true
	d.address++
	if d.address == 0 {
		d.address = 0x8000
	}
	d.remaining--
	if d.remaining == 0 {
		if d.loop {
			d.restart()
		} else if d.irqEnabled {
			d.irqFlag = true
		}
	}
}

func (d *dmc) clockTimer(cart Cartridge) {
	d.fill(cart)
	if d.timer > 0 {
		d.timer--
		return
	}
	d.timer = d.period

	if !d.silent {
		if d.shift&0x01 != 0 {
			if d.level <= 125 {
				d.level += 2
			}
		} else if d.level >= 2 {
			d.level -= 2
		}
	}
	d.shift >>= 1

	if d.bitsLeft > 0 {
		d.bitsLeft--
	}
	if d.bitsLeft == 0 {
		d.bitsLeft = 8
		d.silent = !d.bufferFull
		if d.bufferFull {
			d.shift = d.buffer
			d.bufferFull = false
		}
	}
}
