package cpu

import "fmt"

// Instruction is a decoded instruction: the opcode, its raw operand and
// the resolved effective address, plus the cycles it will cost.
type Instruction struct {
	Opcode  uint8
	Name    string
	Mode    AddressingMode
	PC      uint16 // address of the opcode byte
	Bytes   uint8
	Operand uint16 // raw operand bytes, little endian

	// Address is the effective address. For immediate operands it is the
	// address of the operand byte.
	Address uint16

	Cycles      int
	PageCrossed bool
	Taken       bool // branch condition held at decode time
}

// HasAddress reports whether the instruction touches memory through Address.
func (in *Instruction) HasAddress() bool {
	return in.Mode != Implied && in.Mode != Accumulator
}

// Decode fetches the instruction at PC, advances PC past it and resolves
// its effective address. The operand value itself is not read, so Decode
// has no side effects on memory-mapped devices beyond pointer fetches.
func (c *CPU) Decode() (Instruction, error) {
	pc := c.PC
	code := c.read(pc)
	op := &instructions[code]

	in := Instruction{
		Opcode: code,
		Name:   op.name,
		Mode:   op.mode,
		PC:     pc,
		Bytes:  op.bytes,
		Cycles: int(op.cycles),
	}
	if op.exec == nil {
		return in, &OpcodeError{Opcode: code, PC: pc}
	}

	switch op.bytes {
	case 2:
		in.Operand = uint16(c.read(pc + 1))
	case 3:
		in.Operand = c.read16(pc + 1)
	}
	c.PC = pc + uint16(op.bytes)

	in.Address, in.PageCrossed = c.resolve(&in)

	if op.pageCross && in.PageCrossed {
		in.Cycles++
	}
	if cond, ok := branchConditions[code]; ok && cond(c) {
		in.Taken = true
		in.Cycles++
		if in.PageCrossed {
			in.Cycles++
		}
	}
	return in, nil
}

func (c *CPU) resolve(in *Instruction) (uint16, bool) {
	op := in.Operand
	switch in.Mode {
	case Immediate:
		return in.PC + 1, false
	case ZeroPage:
		return uint16(uint8(op)), false
	case ZeroPageX:
		return uint16(uint8(op) + c.X), false
	case ZeroPageY:
		return uint16(uint8(op) + c.Y), false
	case Relative:
		target := c.PC + uint16(int8(uint8(op)))
		return target, !samePage(c.PC, target)
	case Absolute:
		return op, false
	case AbsoluteX:
		address := op + uint16(c.X)
		return address, !samePage(op, address)
	case AbsoluteY:
		address := op + uint16(c.Y)
		return address, !samePage(op, address)
	case Indirect:
		// the high byte never carries into the next page
		hi := op&pageMask | uint16(uint8(op)+1)
		return uint16(c.read(op)) | uint16(c.read(hi))<<8, false
	case IndexedIndirect:
		return c.zeroPagePointer(uint8(op) + c.X), false
	case IndirectIndexed:
		base := c.zeroPagePointer(uint8(op))
		address := base + uint16(c.Y)
		return address, !samePage(base, address)
	}
	return 0, false
}

// zeroPagePointer reads a 16-bit pointer whose second byte wraps within
// the zero page.
func (c *CPU) zeroPagePointer(zp uint8) uint16 {
	return uint16(c.read(uint16(zp))) | uint16(c.read(uint16(zp+1)))<<8
}

func samePage(a, b uint16) bool {
	return a&pageMask == b&pageMask
}

// String renders the instruction in assembler syntax.
func (in Instruction) String() string {
	return in.Name + formatOperand(in.Mode, in.Operand, in.PC+uint16(in.Bytes))
}

func formatOperand(mode AddressingMode, operand, next uint16) string {
	switch mode {
	case Accumulator:
		return " A"
	case Immediate:
		return fmt.Sprintf(" #$%02X", operand)
	case ZeroPage:
		return fmt.Sprintf(" $%02X", operand)
	case ZeroPageX:
		return fmt.Sprintf(" $%02X,X", operand)
	case ZeroPageY:
		return fmt.Sprintf(" $%02X,Y", operand)
	case Relative:
		return fmt.Sprintf(" $%04X", next+uint16(int8(uint8(operand))))
	case Absolute:
		return fmt.Sprintf(" $%04X", operand)
	case AbsoluteX:
		return fmt.Sprintf(" $%04X,X", operand)
	case AbsoluteY:
		return fmt.Sprintf(" $%04X,Y", operand)
	case Indirect:
		return fmt.Sprintf(" ($%04X)", operand)
	case IndexedIndirect:
		return fmt.Sprintf(" ($%02X,X)", operand)
	case IndirectIndexed:
		return fmt.Sprintf(" ($%02X),Y", operand)
	}
	return ""
}

// Disassemble formats the instruction at pc using a side-effect free
// reader. It returns the text and the raw instruction bytes.
func Disassemble(peek func(uint16) uint8, pc uint16) (string, []uint8) {
	code := peek(pc)
	op := &instructions[code]
	raw := make([]uint8, op.bytes)
	for i := range raw {
		raw[i] = peek(pc + uint16(i))
	}
	var operand uint16
	switch op.bytes {
	case 2:
		operand = uint16(raw[1])
	case 3:
		operand = uint16(raw[1]) | uint16(raw[2])<<8
	}
	return op.name + formatOperand(op.mode, operand, pc+uint16(op.bytes)), raw
}
