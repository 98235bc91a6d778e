// Package cpu implements the 6502 CPU emulation for the NES.
package cpu

import (
	"errors"
	"fmt"
)

const (
	stackBase = 0x0100

	negativeFlag = 0x80
	overflowFlag = 0x40
	unusedFlag   = 0x20
	breakFlag    = 0x10
	decimalFlag  = 0x08
	irqFlag      = 0x04
	zeroFlag     = 0x02
	carryFlag    = 0x01

	pageMask = 0xFF00

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	// power-on status: I set, bit 5 set
	powerOnStatus = 0x24

	interruptCycles = 7
)

// ErrUnsupportedOpcode is the fault for an opcode the interpreter cannot execute.
var ErrUnsupportedOpcode = errors.New("unsupported opcode")

// OpcodeError carries the offending opcode and where it was fetched.
type OpcodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("opcode $%02X at $%04X: %v", e.Opcode, e.PC, ErrUnsupportedOpcode)
}

func (e *OpcodeError) Unwrap() error { return ErrUnsupportedOpcode }

// MemoryInterface is the CPU's view of the bus.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the 6502 processor used in the NES.
//
// The break flag has no storage: it only exists in status bytes pushed by
// BRK and PHP.
type CPU struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	PC uint16

	C bool // carry
	Z bool // zero
	I bool // interrupt disable
	D bool // decimal; settable, no effect on arithmetic
	V bool // overflow
	N bool // negative

	memory MemoryInterface
	cycles uint64
}

// New creates a CPU in its power-on state. Call Reset to load PC; the
// reset sequence leaves SP at 0xFD.
func New(memory MemoryInterface) *CPU {
	c := &CPU{memory: memory}
	c.SetStatus(powerOnStatus)
	return c
}

// Reset runs the reset sequence: three suppressed stack pushes, I set,
// PC loaded from the reset vector, 7 cycles.
func (c *CPU) Reset() {
	c.SP -= 3
	c.I = true
	c.PC = c.read16(resetVector)
	c.cycles += interruptCycles
}

// Step decodes and executes one instruction and returns the cycles it took.
func (c *CPU) Step() (int, error) {
	in, err := c.Decode()
	if err != nil {
		return 0, err
	}
	c.Execute(in)
	return in.Cycles, nil
}

// Execute applies a decoded instruction and charges its cycles.
func (c *CPU) Execute(in Instruction) {
	instructions[in.Opcode].exec(c, &in)
	c.cycles += uint64(in.Cycles)
}

// NMI enters the non-maskable interrupt handler.
func (c *CPU) NMI() {
	c.interrupt(nmiVector)
}

// IRQ enters the maskable interrupt handler. The caller checks I.
func (c *CPU) IRQ() {
	c.interrupt(irqVector)
}

func (c *CPU) interrupt(vector uint16) {
	c.pushWord(c.PC)
	c.push(c.Status())
	c.I = true
	c.PC = c.read16(vector)
	c.cycles += interruptCycles
}

// Stall charges cycles during which the CPU is held off the bus.
func (c *CPU) Stall(cycles int) {
	c.cycles += uint64(cycles)
}

// Cycles returns the total cycles executed since creation.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// Status packs the flags. Bit 5 always reads 1; bit 4 always reads 0.
func (c *CPU) Status() uint8 {
	p := uint8(unusedFlag)
	if c.N {
		p |= negativeFlag
	}
	if c.V {
		p |= overflowFlag
	}
	if c.D {
		p |= decimalFlag
	}
	if c.I {
		p |= irqFlag
	}
	if c.Z {
		p |= zeroFlag
	}
	if c.C {
		p |= carryFlag
	}
	return p
}

// SetStatus unpacks a status byte. Bits 4 and 5 are ignored.
func (c *CPU) SetStatus(p uint8) {
	c.N = p&negativeFlag != 0
	c.V = p&overflowFlag != 0
	c.D = p&decimalFlag != 0
	c.I = p&irqFlag != 0
	c.Z = p&zeroFlag != 0
	c.C = p&carryFlag != 0
}

// State is a snapshot of the register file.
type State struct {
	A, X, Y, SP uint8
	P           uint8
	PC          uint16
	Cycles      uint64
}

// State returns the current registers.
func (c *CPU) State() State {
	return State{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.Status(), PC: c.PC, Cycles: c.cycles}
}

func (c *CPU) read(address uint16) uint8 {
	return c.memory.Read(address)
}

func (c *CPU) write(address uint16, value uint8) {
	c.memory.Write(address, value)
}

func (c *CPU) read16(address uint16) uint16 {
	return uint16(c.read(address)) | uint16(c.read(address+1))<<8
}

func (c *CPU) push(value uint8) {
	c.write(stackBase|uint16(c.SP), value)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.read(stackBase | uint16(c.SP))
}

func (c *CPU) pushWord(value uint16) {
	c.push(uint8(value >> 8))
	c.push(uint8(value))
}

func (c *CPU) popWord() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// setZN sets zero and negative from a value just loaded or computed.
func (c *CPU) setZN(value uint8) {
	c.Z = value == 0
	c.N = value&0x80 != 0
}
