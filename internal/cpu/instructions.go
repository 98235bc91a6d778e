package cpu

// AddressingMode selects how an instruction's operand is located.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

var modeNames = [...]string{
	Implied:         "implied",
	Accumulator:     "accumulator",
	Immediate:       "immediate",
	ZeroPage:        "zero page",
	ZeroPageX:       "zero page,X",
	ZeroPageY:       "zero page,Y",
	Relative:        "relative",
	Absolute:        "absolute",
	AbsoluteX:       "absolute,X",
	AbsoluteY:       "absolute,Y",
	Indirect:        "indirect",
	IndexedIndirect: "(indirect,X)",
	IndirectIndexed: "(indirect),Y",
}

func (m AddressingMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// opcode is one row of the instruction table. pageCross marks the modes
// that cost an extra cycle when indexing crosses a page; it is set per
// opcode, not per mode, because the read-modify-write forms never pay it.
type opcode struct {
	name      string
	bytes     uint8
	cycles    uint8
	mode      AddressingMode
	pageCross bool
	exec      func(*CPU, *Instruction)
}

// instructions is indexed by opcode byte. A nil exec marks the KIL
// opcodes, which halt the processor.
var instructions = [256]opcode{
	0x00: {"BRK", 1, 7, Implied, false, (*CPU).brk},
	0x01: {"ORA", 2, 6, IndexedIndirect, false, (*CPU).ora},
	0x02: {"KIL", 1, 2, Implied, false, nil},
	0x03: {"SLO", 2, 8, IndexedIndirect, false, (*CPU).slo},
	0x04: {"NOP", 2, 3, ZeroPage, false, (*CPU).nop},
	0x05: {"ORA", 2, 3, ZeroPage, false, (*CPU).ora},
	0x06: {"ASL", 2, 5, ZeroPage, false, (*CPU).asl},
	0x07: {"SLO", 2, 5, ZeroPage, false, (*CPU).slo},
	0x08: {"PHP", 1, 3, Implied, false, (*CPU).php},
	0x09: {"ORA", 2, 2, Immediate, false, (*CPU).ora},
	0x0A: {"ASL", 1, 2, Accumulator, false, (*CPU).asl},
	0x0B: {"ANC", 2, 2, Immediate, false, (*CPU).anc},
	0x0C: {"NOP", 3, 4, Absolute, false, (*CPU).nop},
	0x0D: {"ORA", 3, 4, Absolute, false, (*CPU).ora},
	0x0E: {"ASL", 3, 6, Absolute, false, (*CPU).asl},
	0x0F: {"SLO", 3, 6, Absolute, false, (*CPU).slo},
	0x10: {"BPL", 2, 2, Relative, false, (*CPU).branch},
	0x11: {"ORA", 2, 5, IndirectIndexed, true, (*CPU).ora},
	0x12: {"KIL", 1, 2, Implied, false, nil},
	0x13: {"SLO", 2, 8, IndirectIndexed, false, (*CPU).slo},
	0x14: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0x15: {"ORA", 2, 4, ZeroPageX, false, (*CPU).ora},
	0x16: {"ASL", 2, 6, ZeroPageX, false, (*CPU).asl},
	0x17: {"SLO", 2, 6, ZeroPageX, false, (*CPU).slo},
	0x18: {"CLC", 1, 2, Implied, false, (*CPU).clc},
	0x19: {"ORA", 3, 4, AbsoluteY, true, (*CPU).ora},
	0x1A: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0x1B: {"SLO", 3, 7, AbsoluteY, false, (*CPU).slo},
	0x1C: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0x1D: {"ORA", 3, 4, AbsoluteX, true, (*CPU).ora},
	0x1E: {"ASL", 3, 7, AbsoluteX, false, (*CPU).asl},
	0x1F: {"SLO", 3, 7, AbsoluteX, false, (*CPU).slo},
	0x20: {"JSR", 3, 6, Absolute, false, (*CPU).jsr},
	0x21: {"AND", 2, 6, IndexedIndirect, false, (*CPU).and},
	0x22: {"KIL", 1, 2, Implied, false, nil},
	0x23: {"RLA", 2, 8, IndexedIndirect, false, (*CPU).rla},
	0x24: {"BIT", 2, 3, ZeroPage, false, (*CPU).bit},
	0x25: {"AND", 2, 3, ZeroPage, false, (*CPU).and},
	0x26: {"ROL", 2, 5, ZeroPage, false, (*CPU).rol},
	0x27: {"RLA", 2, 5, ZeroPage, false, (*CPU).rla},
	0x28: {"PLP", 1, 4, Implied, false, (*CPU).plp},
	0x29: {"AND", 2, 2, Immediate, false, (*CPU).and},
	0x2A: {"ROL", 1, 2, Accumulator, false, (*CPU).rol},
	0x2B: {"ANC", 2, 2, Immediate, false, (*CPU).anc},
	0x2C: {"BIT", 3, 4, Absolute, false, (*CPU).bit},
	0x2D: {"AND", 3, 4, Absolute, false, (*CPU).and},
	0x2E: {"ROL", 3, 6, Absolute, false, (*CPU).rol},
	0x2F: {"RLA", 3, 6, Absolute, false, (*CPU).rla},
	0x30: {"BMI", 2, 2, Relative, false, (*CPU).branch},
	0x31: {"AND", 2, 5, IndirectIndexed, true, (*CPU).and},
	0x32: {"KIL", 1, 2, Implied, false, nil},
	0x33: {"RLA", 2, 8, IndirectIndexed, false, (*CPU).rla},
	0x34: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0x35: {"AND", 2, 4, ZeroPageX, false, (*CPU).and},
	0x36: {"ROL", 2, 6, ZeroPageX, false, (*CPU).rol},
	0x37: {"RLA", 2, 6, ZeroPageX, false, (*CPU).rla},
	0x38: {"SEC", 1, 2, Implied, false, (*CPU).sec},
	0x39: {"AND", 3, 4, AbsoluteY, true, (*CPU).and},
	0x3A: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0x3B: {"RLA", 3, 7, AbsoluteY, false, (*CPU).rla},
	0x3C: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0x3D: {"AND", 3, 4, AbsoluteX, true, (*CPU).and},
	0x3E: {"ROL", 3, 7, AbsoluteX, false, (*CPU).rol},
	0x3F: {"RLA", 3, 7, AbsoluteX, false, (*CPU).rla},
	0x40: {"RTI", 1, 6, Implied, false, (*CPU).rti},
	0x41: {"EOR", 2, 6, IndexedIndirect, false, (*CPU).eor},
	0x42: {"KIL", 1, 2, Implied, false, nil},
	0x43: {"SRE", 2, 8, IndexedIndirect, false, (*CPU).sre},
	0x44: {"NOP", 2, 3, ZeroPage, false, (*CPU).nop},
	0x45: {"EOR", 2, 3, ZeroPage, false, (*CPU).eor},
	0x46: {"LSR", 2, 5, ZeroPage, false, (*CPU).lsr},
	0x47: {"SRE", 2, 5, ZeroPage, false, (*CPU).sre},
	0x48: {"PHA", 1, 3, Implied, false, (*CPU).pha},
	0x49: {"EOR", 2, 2, Immediate, false, (*CPU).eor},
	0x4A: {"LSR", 1, 2, Accumulator, false, (*CPU).lsr},
	0x4B: {"ALR", 2, 2, Immediate, false, (*CPU).alr},
	0x4C: {"JMP", 3, 3, Absolute, false, (*CPU).jmp},
	0x4D: {"EOR", 3, 4, Absolute, false, (*CPU).eor},
	0x4E: {"LSR", 3, 6, Absolute, false, (*CPU).lsr},
	0x4F: {"SRE", 3, 6, Absolute, false, (*CPU).sre},
	0x50: {"BVC", 2, 2, Relative, false, (*CPU).branch},
	0x51: {"EOR", 2, 5, IndirectIndexed, true, (*CPU).eor},
	0x52: {"KIL", 1, 2, Implied, false, nil},
	0x53: {"SRE", 2, 8, IndirectIndexed, false, (*CPU).sre},
	0x54: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0x55: {"EOR", 2, 4, ZeroPageX, false, (*CPU).eor},
	0x56: {"LSR", 2, 6, ZeroPageX, false, (*CPU).lsr},
	0x57: {"SRE", 2, 6, ZeroPageX, false, (*CPU).sre},
	0x58: {"CLI", 1, 2, Implied, false, (*CPU).cli},
	0x59: {"EOR", 3, 4, AbsoluteY, true, (*CPU).eor},
	0x5A: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0x5B: {"SRE", 3, 7, AbsoluteY, false, (*CPU).sre},
	0x5C: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0x5D: {"EOR", 3, 4, AbsoluteX, true, (*CPU).eor},
	0x5E: {"LSR", 3, 7, AbsoluteX, false, (*CPU).lsr},
	0x5F: {"SRE", 3, 7, AbsoluteX, false, (*CPU).sre},
	0x60: {"RTS", 1, 6, Implied, false, (*CPU).rts},
	0x61: {"ADC", 2, 6, IndexedIndirect, false, (*CPU).adc},
	0x62: {"KIL", 1, 2, Implied, false, nil},
	0x63: {"RRA", 2, 8, IndexedIndirect, false, (*CPU).rra},
	0x64: {"NOP", 2, 3, ZeroPage, false, (*CPU).nop},
	0x65: {"ADC", 2, 3, ZeroPage, false, (*CPU).adc},
	0x66: {"ROR", 2, 5, ZeroPage, false, (*CPU).ror},
	0x67: {"RRA", 2, 5, ZeroPage, false, (*CPU).rra},
	0x68: {"PLA", 1, 4, Implied, false, (*CPU).pla},
	0x69: {"ADC", 2, 2, Immediate, false, (*CPU).adc},
	0x6A: {"ROR", 1, 2, Accumulator, false, (*CPU).ror},
	0x6B: {"ARR", 2, 2, Immediate, false, (*CPU).arr},
	0x6C: {"JMP", 3, 5, Indirect, false, (*CPU).jmp},
	0x6D: {"ADC", 3, 4, Absolute, false, (*CPU).adc},
	0x6E: {"ROR", 3, 6, Absolute, false, (*CPU).ror},
	0x6F: {"RRA", 3, 6, Absolute, false, (*CPU).rra},
	0x70: {"BVS", 2, 2, Relative, false, (*CPU).branch},
	0x71: {"ADC", 2, 5, IndirectIndexed, true, (*CPU).adc},
	0x72: {"KIL", 1, 2, Implied, false, nil},
	0x73: {"RRA", 2, 8, IndirectIndexed, false, (*CPU).rra},
	0x74: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0x75: {"ADC", 2, 4, ZeroPageX, false, (*CPU).adc},
	0x76: {"ROR", 2, 6, ZeroPageX, false, (*CPU).ror},
	0x77: {"RRA", 2, 6, ZeroPageX, false, (*CPU).rra},
	0x78: {"SEI", 1, 2, Implied, false, (*CPU).sei},
	0x79: {"ADC", 3, 4, AbsoluteY, true, (*CPU).adc},
	0x7A: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0x7B: {"RRA", 3, 7, AbsoluteY, false, (*CPU).rra},
	0x7C: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0x7D: {"ADC", 3, 4, AbsoluteX, true, (*CPU).adc},
	0x7E: {"ROR", 3, 7, AbsoluteX, false, (*CPU).ror},
	0x7F: {"RRA", 3, 7, AbsoluteX, false, (*CPU).rra},
	0x80: {"NOP", 2, 2, Immediate, false, (*CPU).nop},
	0x81: {"STA", 2, 6, IndexedIndirect, false, (*CPU).sta},
	0x82: {"NOP", 2, 2, Immediate, false, (*CPU).nop},
	0x83: {"SAX", 2, 6, IndexedIndirect, false, (*CPU).sax},
	0x84: {"STY", 2, 3, ZeroPage, false, (*CPU).sty},
	0x85: {"STA", 2, 3, ZeroPage, false, (*CPU).sta},
	0x86: {"STX", 2, 3, ZeroPage, false, (*CPU).stx},
	0x87: {"SAX", 2, 3, ZeroPage, false, (*CPU).sax},
	0x88: {"DEY", 1, 2, Implied, false, (*CPU).dey},
	0x89: {"NOP", 2, 2, Immediate, false, (*CPU).nop},
	0x8A: {"TXA", 1, 2, Implied, false, (*CPU).txa},
	0x8B: {"XAA", 2, 2, Immediate, false, (*CPU).xaa},
	0x8C: {"STY", 3, 4, Absolute, false, (*CPU).sty},
	0x8D: {"STA", 3, 4, Absolute, false, (*CPU).sta},
	0x8E: {"STX", 3, 4, Absolute, false, (*CPU).stx},
	0x8F: {"SAX", 3, 4, Absolute, false, (*CPU).sax},
	0x90: {"BCC", 2, 2, Relative, false, (*CPU).branch},
	0x91: {"STA", 2, 6, IndirectIndexed, false, (*CPU).sta},
	0x92: {"KIL", 1, 2, Implied, false, nil},
	0x93: {"AHX", 2, 6, IndirectIndexed, false, (*CPU).ahx},
	0x94: {"STY", 2, 4, ZeroPageX, false, (*CPU).sty},
	0x95: {"STA", 2, 4, ZeroPageX, false, (*CPU).sta},
	0x96: {"STX", 2, 4, ZeroPageY, false, (*CPU).stx},
	0x97: {"SAX", 2, 4, ZeroPageY, false, (*CPU).sax},
	0x98: {"TYA", 1, 2, Implied, false, (*CPU).tya},
	0x99: {"STA", 3, 5, AbsoluteY, false, (*CPU).sta},
	0x9A: {"TXS", 1, 2, Implied, false, (*CPU).txs},
	0x9B: {"TAS", 3, 5, AbsoluteY, false, (*CPU).tas},
	0x9C: {"SHY", 3, 5, AbsoluteX, false, (*CPU).shy},
	0x9D: {"STA", 3, 5, AbsoluteX, false, (*CPU).sta},
	0x9E: {"SHX", 3, 5, AbsoluteY, false, (*CPU).shx},
	0x9F: {"AHX", 3, 5, AbsoluteY, false, (*CPU).ahx},
	0xA0: {"LDY", 2, 2, Immediate, false, (*CPU).ldy},
	0xA1: {"LDA", 2, 6, IndexedIndirect, false, (*CPU).lda},
	0xA2: {"LDX", 2, 2, Immediate, false, (*CPU).ldx},
	0xA3: {"LAX", 2, 6, IndexedIndirect, false, (*CPU).lax},
	0xA4: {"LDY", 2, 3, ZeroPage, false, (*CPU).ldy},
	0xA5: {"LDA", 2, 3, ZeroPage, false, (*CPU).lda},
	0xA6: {"LDX", 2, 3, ZeroPage, false, (*CPU).ldx},
	0xA7: {"LAX", 2, 3, ZeroPage, false, (*CPU).lax},
	0xA8: {"TAY", 1, 2, Implied, false, (*CPU).tay},
	0xA9: {"LDA", 2, 2, Immediate, false, (*CPU).lda},
	0xAA: {"TAX", 1, 2, Implied, false, (*CPU).tax},
	0xAB: {"LXA", 2, 2, Immediate, false, (*CPU).lxa},
	0xAC: {"LDY", 3, 4, Absolute, false, (*CPU).ldy},
	0xAD: {"LDA", 3, 4, Absolute, false, (*CPU).lda},
	0xAE: {"LDX", 3, 4, Absolute, false, (*CPU).ldx},
	0xAF: {"LAX", 3, 4, Absolute, false, (*CPU).lax},
	0xB0: {"BCS", 2, 2, Relative, false, (*CPU).branch},
	0xB1: {"LDA", 2, 5, IndirectIndexed, true, (*CPU).lda},
	0xB2: {"KIL", 1, 2, Implied, false, nil},
	0xB3: {"LAX", 2, 5, IndirectIndexed, true, (*CPU).lax},
	0xB4: {"LDY", 2, 4, ZeroPageX, false, (*CPU).ldy},
	0xB5: {"LDA", 2, 4, ZeroPageX, false, (*CPU).lda},
	0xB6: {"LDX", 2, 4, ZeroPageY, false, (*CPU).ldx},
	0xB7: {"LAX", 2, 4, ZeroPageY, false, (*CPU).lax},
	0xB8: {"CLV", 1, 2, Implied, false, (*CPU).clv},
	0xB9: {"LDA", 3, 4, AbsoluteY, true, (*CPU).lda},
	0xBA: {"TSX", 1, 2, Implied, false, (*CPU).tsx},
	0xBB: {"LAS", 3, 4, AbsoluteY, true, (*CPU).las},
	0xBC: {"LDY", 3, 4, AbsoluteX, true, (*CPU).ldy},
	0xBD: {"LDA", 3, 4, AbsoluteX, true, (*CPU).lda},
	0xBE: {"LDX", 3, 4, AbsoluteY, true, (*CPU).ldx},
	0xBF: {"LAX", 3, 4, AbsoluteY, true, (*CPU).lax},
	0xC0: {"CPY", 2, 2, Immediate, false, (*CPU).cpy},
	0xC1: {"CMP", 2, 6, IndexedIndirect, false, (*CPU).cmp},
	0xC2: {"NOP", 2, 2, Immediate, false, (*CPU).nop},
	0xC3: {"DCP", 2, 8, IndexedIndirect, false, (*CPU).dcp},
	0xC4: {"CPY", 2, 3, ZeroPage, false, (*CPU).cpy},
	0xC5: {"CMP", 2, 3, ZeroPage, false, (*CPU).cmp},
	0xC6: {"DEC", 2, 5, ZeroPage, false, (*CPU).dec},
	0xC7: {"DCP", 2, 5, ZeroPage, false, (*CPU).dcp},
	0xC8: {"INY", 1, 2, Implied, false, (*CPU).iny},
	0xC9: {"CMP", 2, 2, Immediate, false, (*CPU).cmp},
	0xCA: {"DEX", 1, 2, Implied, false, (*CPU).dex},
	0xCB: {"AXS", 2, 2, Immediate, false, (*CPU).axs},
	0xCC: {"CPY", 3, 4, Absolute, false, (*CPU).cpy},
	0xCD: {"CMP", 3, 4, Absolute, false, (*CPU).cmp},
	0xCE: {"DEC", 3, 6, Absolute, false, (*CPU).dec},
	0xCF: {"DCP", 3, 6, Absolute, false, (*CPU).dcp},
	0xD0: {"BNE", 2, 2, Relative, false, (*CPU).branch},
	0xD1: {"CMP", 2, 5, IndirectIndexed, true, (*CPU).cmp},
	0xD2: {"KIL", 1, 2, Implied, false, nil},
	0xD3: {"DCP", 2, 8, IndirectIndexed, false, (*CPU).dcp},
	0xD4: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0xD5: {"CMP", 2, 4, ZeroPageX, false, (*CPU).cmp},
	0xD6: {"DEC", 2, 6, ZeroPageX, false, (*CPU).dec},
	0xD7: {"DCP", 2, 6, ZeroPageX, false, (*CPU).dcp},
	0xD8: {"CLD", 1, 2, Implied, false, (*CPU).cld},
	0xD9: {"CMP", 3, 4, AbsoluteY, true, (*CPU).cmp},
	0xDA: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0xDB: {"DCP", 3, 7, AbsoluteY, false, (*CPU).dcp},
	0xDC: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0xDD: {"CMP", 3, 4, AbsoluteX, true, (*CPU).cmp},
	0xDE: {"DEC", 3, 7, AbsoluteX, false, (*CPU).dec},
	0xDF: {"DCP", 3, 7, AbsoluteX, false, (*CPU).dcp},
	0xE0: {"CPX", 2, 2, Immediate, false, (*CPU).cpx},
	0xE1: {"SBC", 2, 6, IndexedIndirect, false, (*CPU).sbc},
	0xE2: {"NOP", 2, 2, Immediate, false, (*CPU).nop},
	0xE3: {"ISB", 2, 8, IndexedIndirect, false, (*CPU).isb},
	0xE4: {"CPX", 2, 3, ZeroPage, false, (*CPU).cpx},
	0xE5: {"SBC", 2, 3, ZeroPage, false, (*CPU).sbc},
	0xE6: {"INC", 2, 5, ZeroPage, false, (*CPU).inc},
	0xE7: {"ISB", 2, 5, ZeroPage, false, (*CPU).isb},
	0xE8: {"INX", 1, 2, Implied, false, (*CPU).inx},
	0xE9: {"SBC", 2, 2, Immediate, false, (*CPU).sbc},
	0xEA: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0xEB: {"SBC", 2, 2, Immediate, false, (*CPU).sbc},
	0xEC: {"CPX", 3, 4, Absolute, false, (*CPU).cpx},
	0xED: {"SBC", 3, 4, Absolute, false, (*CPU).sbc},
	0xEE: {"INC", 3, 6, Absolute, false, (*CPU).inc},
	0xEF: {"ISB", 3, 6, Absolute, false, (*CPU).isb},
	0xF0: {"BEQ", 2, 2, Relative, false, (*CPU).branch},
	0xF1: {"SBC", 2, 5, IndirectIndexed, true, (*CPU).sbc},
	0xF2: {"KIL", 1, 2, Implied, false, nil},
	0xF3: {"ISB", 2, 8, IndirectIndexed, false, (*CPU).isb},
	0xF4: {"NOP", 2, 4, ZeroPageX, false, (*CPU).nop},
	0xF5: {"SBC", 2, 4, ZeroPageX, false, (*CPU).sbc},
	0xF6: {"INC", 2, 6, ZeroPageX, false, (*CPU).inc},
	0xF7: {"ISB", 2, 6, ZeroPageX, false, (*CPU).isb},
	0xF8: {"SED", 1, 2, Implied, false, (*CPU).sed},
	0xF9: {"SBC", 3, 4, AbsoluteY, true, (*CPU).sbc},
	0xFA: {"NOP", 1, 2, Implied, false, (*CPU).nop},
	0xFB: {"ISB", 3, 7, AbsoluteY, false, (*CPU).isb},
	0xFC: {"NOP", 3, 4, AbsoluteX, true, (*CPU).nop},
	0xFD: {"SBC", 3, 4, AbsoluteX, true, (*CPU).sbc},
	0xFE: {"INC", 3, 7, AbsoluteX, false, (*CPU).inc},
	0xFF: {"ISB", 3, 7, AbsoluteX, false, (*CPU).isb},
}

var undocumentedOpcodes = []uint8{
	0x02, 0x03, 0x04, 0x07, 0x0B, 0x0C, 0x0F, 0x12, 0x13, 0x14, 0x17, 0x1A, 0x1B, 0x1C, 0x1F,
	0x22, 0x23, 0x27, 0x2B, 0x2F, 0x32, 0x33, 0x34, 0x37, 0x3A, 0x3B, 0x3C, 0x3F, 0x42, 0x43,
	0x44, 0x47, 0x4B, 0x4F, 0x52, 0x53, 0x54, 0x57, 0x5A, 0x5B, 0x5C, 0x5F, 0x62, 0x63, 0x64,
	0x67, 0x6B, 0x6F, 0x72, 0x73, 0x74, 0x77, 0x7A, 0x7B, 0x7C, 0x7F, 0x80, 0x82, 0x83, 0x87,
	0x89, 0x8B, 0x8F, 0x92, 0x93, 0x97, 0x9B, 0x9C, 0x9E, 0x9F, 0xA3, 0xA7, 0xAB, 0xAF, 0xB2,
	0xB3, 0xB7, 0xBB, 0xBF, 0xC2, 0xC3, 0xC7, 0xCB, 0xCF, 0xD2, 0xD3, 0xD4, 0xD7, 0xDA, 0xDB,
	0xDC, 0xDF, 0xE2, 0xE3, 0xE7, 0xEB, 0xEF, 0xF2, 0xF3, 0xF4, 0xF7, 0xFA, 0xFB, 0xFC, 0xFF,
}

// undocumented marks the opcodes outside the published instruction set.
var undocumented [256]bool

// branchConditions holds the flag test of each relative-mode opcode.
var branchConditions = map[uint8]func(*CPU) bool{
	0x10: func(c *CPU) bool { return !c.N }, // BPL
	0x30: func(c *CPU) bool { return c.N },  // BMI
	0x50: func(c *CPU) bool { return !c.V }, // BVC
	0x70: func(c *CPU) bool { return c.V },  // BVS
	0x90: func(c *CPU) bool { return !c.C }, // BCC
	0xB0: func(c *CPU) bool { return c.C },  // BCS
	0xD0: func(c *CPU) bool { return !c.Z }, // BNE
	0xF0: func(c *CPU) bool { return c.Z },  // BEQ
}

func init() {
	for _, code := range undocumentedOpcodes {
		undocumented[code] = true
	}
}

// Opcode describes a table entry for tools such as disassemblers.
type Opcode struct {
	Name         string
	Bytes        uint8
	Cycles       uint8
	Mode         AddressingMode
	PageCross    bool
	Undocumented bool
	Jam          bool
}

// Lookup returns the table entry for an opcode byte.
func Lookup(code uint8) Opcode {
	op := &instructions[code]
	return Opcode{
		Name:         op.name,
		Bytes:        op.bytes,
		Cycles:       op.cycles,
		Mode:         op.mode,
		PageCross:    op.pageCross,
		Undocumented: undocumented[code],
		Jam:          op.exec == nil,
	}
}
