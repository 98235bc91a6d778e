// Package apu implements the Audio Processing Unit for the NES.
package apu

const (
	cpuFrequency      = 1789773.0
	defaultSampleRate = 44100

	// frame sequencer steps, in CPU cycles
	quarterStep1 = 7457
	halfStep1    = 14913
	quarterStep3 = 22371
	fourStepEnd  = 29829
	fiveStepEnd  = 37281
)

// APU represents the NES Audio Processing Unit (2A03 sound).
type APU struct {
	pulse1   pulse
	pulse2   pulse
	triangle triangle
	noise    noise
	dmc      dmc

	// frame counter
	frameCycle    int
	fiveStep      bool
	irqInhibit    bool
	frameIRQ      bool
	pendingFrame  int // cycles until a $4017 write takes effect, 0 when idle
	pendingIsFive bool

	cycles uint64

	sampleRate  int
	accumulator float64
	queue       *SampleQueue
	filter      highPass
}

// New creates an APU in its power-on state. Samples go to queue, which
// may be nil when nothing consumes audio.
func New(queue *SampleQueue) *APU {
	a := &APU{queue: queue, sampleRate: defaultSampleRate}
	a.Reset()
	return a
}

// Reset silences all channels and restarts the frame counter.
func (a *APU) Reset() {
	a.pulse1 = pulse{onesComplement: true}
	a.pulse2 = pulse{}
	a.triangle = triangle{}
	a.noise = noise{shift: 1, period: noisePeriodTable[0]}
	a.dmc = dmc{period: dmcRateTable[0], bitsLeft: 8, silent: true}
	a.frameCycle = 0
	a.fiveStep = false
	a.irqInhibit = false
	a.frameIRQ = false
	a.pendingFrame = 0
	a.cycles = 0
	a.accumulator = 0
	a.filter = highPass{}
}

// SetSampleRate sets the output rate in Hz.
func (a *APU) SetSampleRate(rate int) {
	if rate > 0 {
		a.sampleRate = rate
	}
	a.accumulator = 0
}

// SampleRate returns the output rate in Hz.
func (a *APU) SampleRate() int {
	return a.sampleRate
}

// Step advances the APU by the given number of CPU cycles. DMC sample
// fetches read PRG through cart.
func (a *APU) Step(cycles int, cart Cartridge) {
	for i := 0; i < cycles; i++ {
		a.tick(cart)
	}
}

func (a *APU) tick(cart Cartridge) {
	a.cycles++
	a.stepFrameCounter()

	if a.cycles%2 == 0 {
		a.pulse1.clockTimer()
		a.pulse2.clockTimer()
		a.noise.clockTimer()
	}
	a.triangle.clockTimer()
	a.dmc.clockTimer(cart)

	a.accumulator += float64(a.sampleRate) / cpuFrequency
	if a.accumulator >= 1 {
		a.accumulator--
		if a.queue != nil {
			a.queue.Push(a.filter.apply(a.mix()))
		}
	}
}

func (a *APU) stepFrameCounter() {
	if a.pendingFrame > 0 {
		a.pendingFrame--
		if a.pendingFrame == 0 {
			a.frameCycle = 0
			a.fiveStep = a.pendingIsFive
			if a.fiveStep {
				a.quarterFrame()
				a.halfFrame()
			}
		}
	}

	a.frameCycle++
	switch a.frameCycle {
	case quarterStep1, quarterStep3:
		a.quarterFrame()
	case halfStep1:
		a.quarterFrame()
		a.halfFrame()
	case fourStepEnd:
		if !a.fiveStep {
			a.quarterFrame()
			a.halfFrame()
			if !a.irqInhibit {
				a.frameIRQ = true
			}
		}
	case fourStepEnd + 1:
		if !a.fiveStep {
			if !a.irqInhibit {
				a.frameIRQ = true
			}
			a.frameCycle = 0
		}
	case fiveStepEnd:
		a.quarterFrame()
		a.halfFrame()
	case fiveStepEnd + 1:
		a.frameCycle = 0
	}
}

func (a *APU) quarterFrame() {
	a.pulse1.envelope.clock()
	a.pulse2.envelope.clock()
	a.noise.envelope.clock()
	a.triangle.clockLinear()
}

func (a *APU) halfFrame() {
	a.pulse1.length.clock()
	a.pulse1.clockSweep()
	a.pulse2.length.clock()
	a.pulse2.clockSweep()
	a.triangle.length.clock()
	a.noise.length.clock()
}

// WriteRegister handles writes to $4000-$4013, $4015 and $4017.
func (a *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address <= 0x4003:
		a.pulse1.write(address, value)
	case address <= 0x4007:
		a.pulse2.write(address, value)
	case address <= 0x400B:
		a.triangle.write(address, value)
	case address <= 0x400F:
		a.noise.write(address, value)
	case address <= 0x4013:
		a.dmc.write(address, value)
	case address == 0x4015:
		a.writeEnables(value)
	case address == 0x4017:
		a.writeFrameCounter(value)
	}
}

// writeEnables handles $4015: a cleared bit silences the channel and
// zeroes its length counter.
func (a *APU) writeEnables(value uint8) {
	a.pulse1.length.setEnabled(value&0x01 != 0)
	a.pulse2.length.setEnabled(value&0x02 != 0)
	a.triangle.length.setEnabled(value&0x04 != 0)
	a.noise.length.setEnabled(value&0x08 != 0)
	a.dmc.setEnabled(value&0x10 != 0)
}

func (a *APU) writeFrameCounter(value uint8) {
	a.irqInhibit = value&0x40 != 0
	if a.irqInhibit {
		a.frameIRQ = false
	}
	a.pendingIsFive = value&0x80 != 0
	// the reset lands 3 or 4 cycles after the write
	a.pendingFrame = 3
	if a.cycles%2 == 1 {
		a.pendingFrame = 4
	}
}

// ReadStatus handles reads of $4015. Reading clears the frame interrupt.
func (a *APU) ReadStatus() uint8 {
	var status uint8
	if a.pulse1.length.value > 0 {
		status |= 0x01
	}
	if a.pulse2.length.value > 0 {
		status |= 0x02
	}
	if a.triangle.length.value > 0 {
		status |= 0x04
	}
	if a.noise.length.value > 0 {
		status |= 0x08
	}
	if a.dmc.remaining > 0 {
		status |= 0x10
	}
	if a.frameIRQ {
		status |= 0x40
	}
	if a.dmc.irqFlag {
		status |= 0x80
	}
	a.frameIRQ = false
	return status
}

// IRQPending reports whether the frame counter or the DMC holds the IRQ line.
func (a *APU) IRQPending() bool {
	return a.frameIRQ || a.dmc.irqFlag
}

// Levels returns the raw output of the five channels, for debugging.
func (a *APU) Levels() [5]uint8 {
	return [5]uint8{
		a.pulse1.output(),
		a.pulse2.output(),
		a.triangle.output(),
		a.noise.output(),
		a.dmc.level,
	}
}
