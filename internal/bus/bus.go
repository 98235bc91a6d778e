// Package bus connects the NES components and keeps them in step.
package bus

import (
	"context"
	"errors"
	"fmt"

	"nesdot/internal/apu"
	"nesdot/internal/cartridge"
	"nesdot/internal/cpu"
	"nesdot/internal/input"
	"nesdot/internal/memory"
	"nesdot/internal/ppu"
)

const (
	dotsPerCycle    = 3
	dmaCycles       = 513
	interruptCycles = 7

	// NTSC: 89342 dots per frame, about 29781 CPU cycles
	maxCyclesPerFrame = 40000
)

var (
	// ErrHalted is returned by Step when a BRK executes with HaltOnBreak set.
	ErrHalted = errors.New("halted on BRK")
	// ErrNoCartridge is returned when stepping an empty console.
	ErrNoCartridge = errors.New("no cartridge inserted")
	// ErrFrameTimeout is returned by StepFrame when the PPU never finishes a frame.
	ErrFrameTimeout = errors.New("frame did not complete")
)

// State is a snapshot of the processors for tracing and display.
type State struct {
	CPU    cpu.State
	PPU    ppu.State
	Frames uint64
}

// Console owns every device of the system. It is the only holder of the
// cartridge, which it lends to the PPU, APU and memory bus on each call.
type Console struct {
	CPU    *cpu.CPU
	PPU    *ppu.PPU
	APU    *apu.APU
	Memory *memory.Memory
	Input  *input.Ports

	cart *cartridge.Cartridge

	// HaltOnBreak makes Step stop with ErrHalted after a BRK.
	HaltOnBreak bool
	// StartPC, when non-zero, replaces the reset vector.
	StartPC uint16

	dmaPending bool
	nmiPending bool
	irqSignal  bool
	frameDone  bool
	frames     uint64

	trace func(State)
}

// New creates a console with no cartridge. Samples from the APU go to
// queue, which may be nil.
func New(queue *apu.SampleQueue) *Console {
	c := &Console{
		PPU:   ppu.New(),
		APU:   apu.New(queue),
		Input: input.NewPorts(),
	}
	c.Memory = memory.New(c.PPU, c.APU, nil)
	c.Memory.SetControllers(c.Input.One, c.Input.Two)
	c.Memory.SetDMAHandler(c.oamDMA)
	c.CPU = cpu.New(c.Memory)
	return c
}

// Insert loads a cartridge and powers the console on.
func (c *Console) Insert(cart *cartridge.Cartridge) {
	c.cart = cart
	c.Memory.SetCartridge(cart)
	c.Input.Reset()
	c.frames = 0
	c.Reset()
}

// Cartridge returns the inserted cartridge, or nil.
func (c *Console) Cartridge() *cartridge.Cartridge {
	return c.cart
}

// Reset presses the reset button: the CPU reloads its vector and the
// PPU and APU restart. RAM and VRAM keep their contents.
func (c *Console) Reset() {
	c.Memory.ClearErr()
	c.PPU.Reset()
	c.APU.Reset()
	c.dmaPending = false
	c.nmiPending = false
	c.irqSignal = false
	c.frameDone = false
	if c.cart == nil {
		return
	}
	c.CPU.Reset()
	if c.StartPC != 0 {
		c.CPU.PC = c.StartPC
	}
	c.clock(interruptCycles)
}

// SetTraceHook registers a function called with the machine state
// before every instruction. A nil hook disables tracing.
func (c *Console) SetTraceHook(fn func(State)) {
	c.trace = fn
}

// Step runs one instruction, any DMA it triggered and any interrupt that
// became pending, and returns the CPU cycles consumed.
func (c *Console) Step() (int, error) {
	if c.cart == nil {
		return 0, ErrNoCartridge
	}
	if c.trace != nil {
		c.trace(c.State())
	}

	in, err := c.CPU.Decode()
	if merr := c.Memory.Err(); merr != nil {
		return 0, fmt.Errorf("fetching $%04X: %w", in.PC, merr)
	}
	if err != nil {
		return 0, err
	}

	c.CPU.Execute(in)
	cycles := in.Cycles

	if c.dmaPending {
		c.dmaPending = false
		stall := dmaCycles
		if c.CPU.Cycles()%2 == 1 {
			stall++
		}
		c.CPU.Stall(stall)
		cycles += stall
	}
	c.clock(cycles)

	if err := c.Memory.Err(); err != nil {
		return cycles, fmt.Errorf("executing %s at $%04X: %w", in.Name, in.PC, err)
	}

	cycles += c.serviceInterrupts()

	if in.Opcode == 0x00 && c.HaltOnBreak {
		return cycles, fmt.Errorf("%w at $%04X", ErrHalted, in.PC)
	}
	return cycles, nil
}

// clock advances the PPU and APU by the given number of CPU cycles.
func (c *Console) clock(cycles int) {
	sig := c.PPU.Step(cycles*dotsPerCycle, c.cart)
	c.APU.Step(cycles, c.cart)
	if sig.NMI {
		c.nmiPending = true
	}
	if sig.IRQ {
		c.irqSignal = true
	}
	if sig.Frame {
		c.frames++
		c.frameDone = true
	}
}

// serviceInterrupts delivers NMI, or IRQ when the line is held and the
// CPU has interrupts enabled. It returns the cycles spent.
func (c *Console) serviceInterrupts() int {
	irq := c.irqSignal || c.irqLine()
	c.irqSignal = false
	switch {
	case c.nmiPending:
		c.nmiPending = false
		c.CPU.NMI()
	case irq && !c.CPU.I:
		c.CPU.IRQ()
	default:
		return 0
	}
	c.clock(interruptCycles)
	return interruptCycles
}

func (c *Console) irqLine() bool {
	return c.cart.IRQPending() || c.APU.IRQPending()
}

// oamDMA copies a page into sprite memory. The CPU stall is charged by
// Step once the writing instruction has finished.
func (c *Console) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		c.PPU.WriteOAM(c.Memory.Read(base + i))
	}
	c.dmaPending = true
}

// StepFrame runs until the PPU enters vblank.
func (c *Console) StepFrame() error {
	c.frameDone = false
	spent := 0
	for !c.frameDone {
		n, err := c.Step()
		if err != nil {
			return err
		}
		spent += n
		if spent > maxCyclesPerFrame {
			return ErrFrameTimeout
		}
	}
	return nil
}

// Run steps the given number of frames, or forever when frames is zero,
// until ctx is cancelled or a fault occurs.
func (c *Console) Run(ctx context.Context, frames int) error {
	for i := 0; frames == 0 || i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Frames returns the number of frames completed since power-on.
func (c *Console) Frames() uint64 {
	return c.frames
}

// FrameBuffer returns the PPU image.
func (c *Console) FrameBuffer() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	return c.PPU.FrameBuffer()
}

// State returns the current CPU and PPU snapshot.
func (c *Console) State() State {
	return State{
		CPU:    c.CPU.State(),
		PPU:    c.PPU.State(),
		Frames: c.frames,
	}
}

// Peek reads memory without side effects.
func (c *Console) Peek(address uint16) uint8 {
	return c.Memory.Peek(address)
}
