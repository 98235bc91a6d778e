package cpu

// Execution primitives. Each receives the decoded instruction; PC already
// points past it. Bus accesses are the architectural ones only: there are
// no dummy reads or writes.

func (c *CPU) load(in *Instruction) uint8 {
	if in.Mode == Accumulator {
		return c.A
	}
	return c.read(in.Address)
}

// modify runs a read-modify-write kernel against A or memory and returns
// the result.
func (c *CPU) modify(in *Instruction, kernel func(uint8) uint8) uint8 {
	if in.Mode == Accumulator {
		c.A = kernel(c.A)
		return c.A
	}
	result := kernel(c.read(in.Address))
	c.write(in.Address, result)
	return result
}

func (c *CPU) shiftLeft(v uint8) uint8 {
	c.C = v&0x80 != 0
	v <<= 1
	c.setZN(v)
	return v
}

func (c *CPU) shiftRight(v uint8) uint8 {
	c.C = v&0x01 != 0
	v >>= 1
	c.setZN(v)
	return v
}

func (c *CPU) rotateLeft(v uint8) uint8 {
	r := v << 1
	if c.C {
		r |= 0x01
	}
	c.C = v&0x80 != 0
	c.setZN(r)
	return r
}

func (c *CPU) rotateRight(v uint8) uint8 {
	r := v >> 1
	if c.C {
		r |= 0x80
	}
	c.C = v&0x01 != 0
	c.setZN(r)
	return r
}

func (c *CPU) increment(v uint8) uint8 {
	v++
	c.setZN(v)
	return v
}

func (c *CPU) decrement(v uint8) uint8 {
	v--
	c.setZN(v)
	return v
}

// addWithCarry is binary ADC. SBC is addWithCarry of the complement.
func (c *CPU) addWithCarry(v uint8) {
	sum := uint16(c.A) + uint16(v)
	if c.C {
		sum++
	}
	r := uint8(sum)
	c.C = sum > 0xFF
	c.V = (c.A^r)&(v^r)&0x80 != 0
	c.A = r
	c.setZN(r)
}

func (c *CPU) compare(register, v uint8) {
	c.C = register >= v
	c.setZN(register - v)
}

// loads and stores

func (c *CPU) lda(in *Instruction) {
	c.A = c.load(in)
	c.setZN(c.A)
}
func (c *CPU) ldx(in *Instruction) {
	c.X = c.load(in)
	c.setZN(c.X)
}
func (c *CPU) ldy(in *Instruction) {
	c.Y = c.load(in)
	c.setZN(c.Y)
}
func (c *CPU) sta(in *Instruction) { c.write(in.Address, c.A) }
func (c *CPU) stx(in *Instruction) { c.write(in.Address, c.X) }
func (c *CPU) sty(in *Instruction) { c.write(in.Address, c.Y) }

// transfers

func (c *CPU) tax(*Instruction) {
	c.X = c.A
	c.setZN(c.X)
}
func (c *CPU) tay(*Instruction) {
	c.Y = c.A
	c.setZN(c.Y)
}
func (c *CPU) txa(*Instruction) {
	c.A = c.X
	c.setZN(c.A)
}
func (c *CPU) tya(*Instruction) {
	c.A = c.Y
	c.setZN(c.A)
}
func (c *CPU) tsx(*Instruction) {
	c.X = c.SP
	c.setZN(c.X)
}
func (c *CPU) txs(*Instruction) { c.SP = c.X }

// arithmetic and logic

func (c *CPU) adc(in *Instruction) { c.addWithCarry(c.load(in)) }
func (c *CPU) sbc(in *Instruction) { c.addWithCarry(^c.load(in)) }
func (c *CPU) and(in *Instruction) {
	c.A &= c.load(in)
	c.setZN(c.A)
}
func (c *CPU) ora(in *Instruction) {
	c.A |= c.load(in)
	c.setZN(c.A)
}
func (c *CPU) eor(in *Instruction) {
	c.A ^= c.load(in)
	c.setZN(c.A)
}
func (c *CPU) cmp(in *Instruction) { c.compare(c.A, c.load(in)) }
func (c *CPU) cpx(in *Instruction) { c.compare(c.X, c.load(in)) }
func (c *CPU) cpy(in *Instruction) { c.compare(c.Y, c.load(in)) }

func (c *CPU) bit(in *Instruction) {
	v := c.load(in)
	c.Z = c.A&v == 0
	c.V = v&0x40 != 0
	c.N = v&0x80 != 0
}

func (c *CPU) asl(in *Instruction) { c.modify(in, c.shiftLeft) }
func (c *CPU) lsr(in *Instruction) { c.modify(in, c.shiftRight) }
func (c *CPU) rol(in *Instruction) { c.modify(in, c.rotateLeft) }
func (c *CPU) ror(in *Instruction) { c.modify(in, c.rotateRight) }
func (c *CPU) inc(in *Instruction) { c.modify(in, c.increment) }
func (c *CPU) dec(in *Instruction) { c.modify(in, c.decrement) }

func (c *CPU) inx(*Instruction) { c.X = c.increment(c.X) }
func (c *CPU) iny(*Instruction) { c.Y = c.increment(c.Y) }
func (c *CPU) dex(*Instruction) { c.X = c.decrement(c.X) }
func (c *CPU) dey(*Instruction) { c.Y = c.decrement(c.Y) }

// flags

func (c *CPU) clc(*Instruction) { c.C = false }
func (c *CPU) sec(*Instruction) { c.C = true }
func (c *CPU) cli(*Instruction) { c.I = false }
func (c *CPU) sei(*Instruction) { c.I = true }
func (c *CPU) cld(*Instruction) { c.D = false }
func (c *CPU) sed(*Instruction) { c.D = true }
func (c *CPU) clv(*Instruction) { c.V = false }

// control flow

func (c *CPU) branch(in *Instruction) {
	if in.Taken {
		c.PC = in.Address
	}
}

func (c *CPU) jmp(in *Instruction) { c.PC = in.Address }

func (c *CPU) jsr(in *Instruction) {
	c.pushWord(c.PC - 1)
	c.PC = in.Address
}

func (c *CPU) rts(*Instruction) { c.PC = c.popWord() + 1 }

func (c *CPU) rti(*Instruction) {
	c.SetStatus(c.pop())
	c.PC = c.popWord()
}

// brk skips its padding byte, so the handler returns to PC+2.
func (c *CPU) brk(*Instruction) {
	c.pushWord(c.PC + 1)
	c.push(c.Status() | breakFlag)
	c.I = true
	c.PC = c.read16(irqVector)
}

// stack

func (c *CPU) pha(*Instruction) { c.push(c.A) }
func (c *CPU) php(*Instruction) { c.push(c.Status() | breakFlag) }
func (c *CPU) pla(*Instruction) {
	c.A = c.pop()
	c.setZN(c.A)
}
func (c *CPU) plp(*Instruction) { c.SetStatus(c.pop()) }

func (c *CPU) nop(in *Instruction) {
	if in.HasAddress() {
		c.read(in.Address)
	}
}

// undocumented

func (c *CPU) slo(in *Instruction) {
	c.A |= c.modify(in, c.shiftLeft)
	c.setZN(c.A)
}

func (c *CPU) rla(in *Instruction) {
	c.A &= c.modify(in, c.rotateLeft)
	c.setZN(c.A)
}

func (c *CPU) sre(in *Instruction) {
	c.A ^= c.modify(in, c.shiftRight)
	c.setZN(c.A)
}

func (c *CPU) rra(in *Instruction) { c.addWithCarry(c.modify(in, c.rotateRight)) }
func (c *CPU) dcp(in *Instruction) { c.compare(c.A, c.modify(in, c.decrement)) }
func (c *CPU) isb(in *Instruction) { c.addWithCarry(^c.modify(in, c.increment)) }

func (c *CPU) lax(in *Instruction) {
	c.A = c.load(in)
	c.X = c.A
	c.setZN(c.A)
}

func (c *CPU) sax(in *Instruction) { c.write(in.Address, c.A&c.X) }

func (c *CPU) anc(in *Instruction) {
	c.A &= c.load(in)
	c.setZN(c.A)
	c.C = c.N
}

func (c *CPU) alr(in *Instruction) {
	c.A = c.shiftRight(c.A & c.load(in))
}

// arr takes C from bit 6 of the result and V from bit 6 xor bit 5.
func (c *CPU) arr(in *Instruction) {
	c.A &= c.load(in)
	c.A >>= 1
	if c.C {
		c.A |= 0x80
	}
	c.setZN(c.A)
	c.C = c.A&0x40 != 0
	c.V = (c.A>>6^c.A>>5)&0x01 != 0
}

// xaa and lxa use 0xFF as the unstable "magic" constant.
func (c *CPU) xaa(in *Instruction) {
	c.A = c.X & c.load(in)
	c.setZN(c.A)
}

func (c *CPU) lxa(in *Instruction) {
	c.A = c.load(in)
	c.X = c.A
	c.setZN(c.A)
}

func (c *CPU) axs(in *Instruction) {
	v := c.load(in)
	t := c.A & c.X
	c.C = t >= v
	c.X = t - v
	c.setZN(c.X)
}

func (c *CPU) las(in *Instruction) {
	v := c.load(in) & c.SP
	c.A, c.X, c.SP = v, v, v
	c.setZN(v)
}

// highAnd is the SH* store value: register AND (high byte of the base
// address before indexing + 1).
func (c *CPU) highAnd(in *Instruction, v uint8) uint8 {
	base := in.Operand
	if in.Mode == IndirectIndexed {
		base = in.Address - uint16(c.Y)
	}
	return v & (uint8(base>>8) + 1)
}

func (c *CPU) ahx(in *Instruction) { c.write(in.Address, c.highAnd(in, c.A&c.X)) }
func (c *CPU) shx(in *Instruction) { c.write(in.Address, c.highAnd(in, c.X)) }
func (c *CPU) shy(in *Instruction) { c.write(in.Address, c.highAnd(in, c.Y)) }

func (c *CPU) tas(in *Instruction) {
	c.SP = c.A & c.X
	c.write(in.Address, c.highAnd(in, c.SP))
}
