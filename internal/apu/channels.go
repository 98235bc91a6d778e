package apu

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 8, 48, 6, 96, 4,
	192, 2, 72, 16, 28, 32, 52, 2,
}

var dutyTable = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0},
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

var noisePeriodTable = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// lengthCounter silences a channel after a programmed number of half frames.
type lengthCounter struct {
	enabled bool
	halt    bool
	value   uint8
}

func (l *lengthCounter) load(index uint8) {
	if l.enabled {
		l.value = lengthTable[index&0x1F]
	}
}

func (l *lengthCounter) setEnabled(on bool) {
	l.enabled = on
	if !on {
		l.value = 0
	}
}

func (l *lengthCounter) clock() {
	if !l.halt && l.value > 0 {
		l.value--
	}
}

// envelope produces either a constant volume or a decaying one.
type envelope struct {
	start    bool
	loop     bool
	constant bool
	period   uint8
	divider  uint8
	decay    uint8
}

func (e *envelope) write(value uint8) {
	e.loop = value&0x20 != 0
	e.constant = value&0x10 != 0
	e.period = value & 0x0F
}

func (e *envelope) clock() {
	if e.start {
		e.start = false
		e.decay = 15
		e.divider = e.period
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.period
	if e.decay > 0 {
		e.decay--
	} else if e.loop {
		e.decay = 15
	}
}

func (e *envelope) volume() uint8 {
	if e.constant {
		return e.period
	}
	return e.decay
}

type pulse struct {
	// pulse 1 negates with one's complement
	onesComplement bool

	length   lengthCounter
	envelope envelope

	duty     uint8
	sequence uint8
	period   uint16
	timer    uint16

	sweepEnabled bool
	sweepPeriod  uint8
	sweepNegate  bool
	sweepShift   uint8
	sweepReload  bool
	sweepDivider uint8
}

func (p *pulse) write(reg uint16, value uint8) {
	switch reg & 0x03 {
	case 0:
		p.duty = value >> 6
		p.length.halt = value&0x20 != 0
		p.envelope.write(value)
	case 1:
		p.sweepEnabled = value&0x80 != 0
		p.sweepPeriod = value >> 4 & 0x07
		p.sweepNegate = value&0x08 != 0
		p.sweepShift = value & 0x07
		p.sweepReload = true
	case 2:
		p.period = p.period&0x0700 | uint16(value)
	case 3:
		p.period = p.period&0x00FF | uint16(value&0x07)<<8
		p.length.load(value >> 3)
		p.envelope.start = true
		p.sequence = 0
	}
}

// clockTimer runs on every other CPU cycle.
func (p *pulse) clockTimer() {
	if p.timer == 0 {
		p.timer = p.period
		p.sequence = (p.sequence + 1) & 0x07
	} else {
		p.timer--
	}
}

func (p *pulse) sweepTarget() uint16 {
	change := p.period >> p.sweepShift
	if !p.sweepNegate {
		return p.period + change
	}
	if p.onesComplement {
		change++
	}
	if change > p.period {
		return 0
	}
	return p.period - change
}

func (p *pulse) muted() bool {
	return p.period < 8 || p.sweepTarget() > 0x7FF
}

func (p *pulse) clockSweep() {
	if p.sweepDivider == 0 && p.sweepEnabled && p.sweepShift > 0 && !p.muted() {
		p.period = p.sweepTarget()
	}
	if p.sweepDivider == 0 || p.sweepReload {
		p.sweepDivider = p.sweepPeriod
		p.sweepReload = false
	} else {
		p.sweepDivider--
	}
}

func (p *pulse) output() uint8 {
	if p.length.value == 0 || p.muted() || dutyTable[p.duty][p.sequence] == 0 {
		return 0
	}
	return p.envelope.volume()
}

type triangle struct {
	length lengthCounter

	control       bool
	linearPeriod  uint8
	linear        uint8
	linearReload  bool
	period, timer uint16
	sequence      uint8
}

func (t *triangle) write(reg uint16, value uint8) {
	switch reg {
	case 0x4008:
		t.control = value&0x80 != 0
		t.length.halt = t.control
		t.linearPeriod = value & 0x7F
	case 0x400A:
		t.period = t.period&0x0700 | uint16(value)
	case 0x400B:
		t.period = t.period&0x00FF | uint16(value&0x07)<<8
		t.length.load(value >> 3)
		t.linearReload = true
	}
}

func (t *triangle) clockTimer() {
	if t.timer > 0 {
		t.timer--
		return
	}
	t.timer = t.period
	if t.length.value > 0 && t.linear > 0 {
		t.sequence = (t.sequence + 1) & 0x1F
	}
}

func (t *triangle) clockLinear() {
	if t.linearReload {
		t.linear = t.linearPeriod
	} else if t.linear > 0 {
		t.linear--
	}
	if !t.control {
		t.linearReload = false
	}
}

func (t *triangle) output() uint8 {
	// ultrasonic periods are silenced instead of aliasing
	if t.period < 2 {
		return 7
	}
	return triangleTable[t.sequence]
}

type noise struct {
	length   lengthCounter
	envelope envelope

	shortMode bool
	period    uint16
	timer     uint16
	shift     uint16
}

func (n *noise) write(reg uint16, value uint8) {
	switch reg {
	case 0x400C:
		n.length.halt = value&0x20 != 0
		n.envelope.write(value)
	case 0x400E:
		n.shortMode = value&0x80 != 0
		n.period = noisePeriodTable[value&0x0F]
	case 0x400F:
		n.length.load(value >> 3)
		n.envelope.start = true
	}
}

func (n *noise) clockTimer() {
	if n.timer > 0 {
		n.timer--
		return
	}
	n.timer = n.period
	tap := uint16(1)
	if n.shortMode {
		tap = 6
	}
	feedback := (n.shift ^ n.shift>>tap) & 0x01
	n.shift = n.shift>>1 | feedback<<14
}

func (n *noise) output() uint8 {
	if n.length.value == 0 || n.shift&0x01 != 0 {
		return 0
	}
	return n.envelope.volume()
}
