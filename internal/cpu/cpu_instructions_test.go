package cpu

import "testing"

// InstructionTest runs a short program and checks registers and flags
type InstructionTest struct {
	Name    string
	Setup   func(*CPUTestHelper)
	Program []uint8
	Steps   int
	A, X, Y uint8
	P       uint8 // expected packed status
	Check   func(*testing.T, *CPUTestHelper)
}

func runInstructionTests(t *testing.T, tests []InstructionTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			h := NewCPUTestHelper()
			h.CPU.I = false
			if test.Setup != nil {
				test.Setup(h)
			}
			h.LoadProgram(test.Program...)

			steps := test.Steps
			if steps == 0 {
				steps = 1
			}
			h.StepN(t, steps)

			h.AssertRegisters(t, test.A, test.X, test.Y)
			h.AssertStatus(t, test.P)
			if test.Check != nil {
				test.Check(t, h)
			}
		})
	}
}

func TestLoadStore_Instructions_ShouldMoveDataAndSetFlags(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "LDA zero", Program: []uint8{0xA9, 0x00}, P: 0x22},
		{Name: "LDA negative", Program: []uint8{0xA9, 0x80}, A: 0x80, P: 0xA0},
		{Name: "LDX immediate", Program: []uint8{0xA2, 0x42}, X: 0x42, P: 0x20},
		{Name: "LDY immediate", Program: []uint8{0xA0, 0xFF}, Y: 0xFF, P: 0xA0},
		{
			Name:    "STX zero page Y",
			Setup:   func(h *CPUTestHelper) { h.CPU.X, h.CPU.Y = 0x99, 0x01 },
			Program: []uint8{0x96, 0x10},
			X:       0x99, Y: 0x01, P: 0x20,
			Check: func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0011, 0x99) },
		},
		{
			Name:    "STA does not touch flags",
			Setup:   func(h *CPUTestHelper) { h.CPU.A = 0x00 },
			Program: []uint8{0x8D, 0x00, 0x03},
			P:       0x20,
			Check:   func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0300, 0x00) },
		},
	})
}

func TestArithmetic_ADCAndSBC_ShouldSetCarryAndOverflow(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:    "ADC simple",
			Setup:   func(h *CPUTestHelper) { h.CPU.A = 0x10 },
			Program: []uint8{0x69, 0x20},
			A:       0x30, P: 0x20,
		},
		{
			Name:    "ADC carry in and out",
			Setup:   func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0xFF, true },
			Program: []uint8{0x69, 0x00},
			A:       0x00, P: 0x23,
		},
		{
			Name:    "ADC signed overflow",
			Setup:   func(h *CPUTestHelper) { h.CPU.A = 0x50 },
			Program: []uint8{0x69, 0x50},
			A:       0xA0, P: 0xE0,
		},
		{
			Name:    "ADC decimal flag is inert",
			Setup:   func(h *CPUTestHelper) { h.CPU.A, h.CPU.D = 0x09, true },
			Program: []uint8{0x69, 0x01},
			A:       0x0A, P: 0x28,
		},
		{
			Name:    "SBC with borrow clear",
			Setup:   func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0x50, true },
			Program: []uint8{0xE9, 0x10},
			A:       0x40, P: 0x21,
		},
		{
			Name:    "SBC borrow",
			Setup:   func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0x00, true },
			Program: []uint8{0xE9, 0x01},
			A:       0xFF, P: 0xA0,
		},
		{
			Name:    "SBC signed overflow",
			Setup:   func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0x80, true },
			Program: []uint8{0xE9, 0x01},
			A:       0x7F, P: 0x61,
		},
		{
			Name: "SBC zero page",
			Setup: func(h *CPUTestHelper) {
				h.CPU.A, h.CPU.C = 0x05, true
				h.Memory.SetBytes(0x0040, 0x05)
			},
			Program: []uint8{0xE5, 0x40},
			A:       0x00, P: 0x23,
		},
	})
}

func TestLogic_Instructions_ShouldCombineWithAccumulator(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "AND", Setup: func(h *CPUTestHelper) { h.CPU.A = 0xF0 }, Program: []uint8{0x29, 0x3C}, A: 0x30, P: 0x20},
		{Name: "ORA", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x80 }, Program: []uint8{0x09, 0x01}, A: 0x81, P: 0xA0},
		{Name: "EOR to zero", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x5A }, Program: []uint8{0x49, 0x5A}, A: 0x00, P: 0x22},
		{
			Name: "BIT copies bits 7 and 6",
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x01
				h.Memory.SetBytes(0x0010, 0xC0)
			},
			Program: []uint8{0x24, 0x10},
			A:       0x01, P: 0xE2,
		},
	})
}

func TestShiftRotate_Instructions_ShouldMoveCarry(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "ASL A", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x81 }, Program: []uint8{0x0A}, A: 0x02, P: 0x21},
		{Name: "LSR A", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x01 }, Program: []uint8{0x4A}, A: 0x00, P: 0x23},
		{Name: "ROL A carry in", Setup: func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0x40, true }, Program: []uint8{0x2A}, A: 0x81, P: 0xA0},
		{Name: "ROR A carry in", Setup: func(h *CPUTestHelper) { h.CPU.A, h.CPU.C = 0x01, true }, Program: []uint8{0x6A}, A: 0x80, P: 0xA1},
		{
			Name:    "ASL memory",
			Setup:   func(h *CPUTestHelper) { h.Memory.SetBytes(0x0020, 0x40) },
			Program: []uint8{0x06, 0x20},
			P:       0xA0,
			Check:   func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0020, 0x80) },
		},
		{
			Name: "ROR memory absolute X",
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 1
				h.Memory.SetBytes(0x0301, 0x02)
			},
			Program: []uint8{0x7E, 0x00, 0x03},
			X:       1, P: 0x20,
			Check: func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0301, 0x01) },
		},
	})
}

func TestCompare_Instructions_ShouldSetCarryZeroNegative(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "CMP equal", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x40 }, Program: []uint8{0xC9, 0x40}, A: 0x40, P: 0x23},
		{Name: "CMP greater", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x41 }, Program: []uint8{0xC9, 0x40}, A: 0x41, P: 0x21},
		{Name: "CMP less", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x3F }, Program: []uint8{0xC9, 0x40}, A: 0x3F, P: 0xA0},
		{Name: "CPX", Setup: func(h *CPUTestHelper) { h.CPU.X = 0x10 }, Program: []uint8{0xE0, 0x10}, X: 0x10, P: 0x23},
		{Name: "CPY", Setup: func(h *CPUTestHelper) { h.CPU.Y = 0x00 }, Program: []uint8{0xC0, 0x01}, P: 0xA0},
	})
}

func TestIncrementDecrement_Instructions_ShouldWrap(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "INX wraps", Setup: func(h *CPUTestHelper) { h.CPU.X = 0xFF }, Program: []uint8{0xE8}, P: 0x22},
		{Name: "DEY wraps", Program: []uint8{0x88}, Y: 0xFF, P: 0xA0},
		{
			Name:    "INC memory",
			Setup:   func(h *CPUTestHelper) { h.Memory.SetBytes(0x0050, 0x7F) },
			Program: []uint8{0xE6, 0x50},
			P:       0xA0,
			Check:   func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0050, 0x80) },
		},
		{
			Name:    "DEC memory",
			Setup:   func(h *CPUTestHelper) { h.Memory.SetBytes(0x0050, 0x01) },
			Program: []uint8{0xC6, 0x50},
			P:       0x22,
			Check:   func(t *testing.T, h *CPUTestHelper) { h.AssertMemory(t, 0x0050, 0x00) },
		},
	})
}

func TestTransfer_Instructions_ShouldCopyRegisters(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{Name: "TAX", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x80 }, Program: []uint8{0xAA}, A: 0x80, X: 0x80, P: 0xA0},
		{Name: "TAY", Setup: func(h *CPUTestHelper) { h.CPU.A = 0x01 }, Program: []uint8{0xA8}, A: 0x01, Y: 0x01, P: 0x20},
		{Name: "TXA", Setup: func(h *CPUTestHelper) { h.CPU.A, h.CPU.X = 0x01, 0x00 }, Program: []uint8{0x8A}, P: 0x22},
		{Name: "TSX", Program: []uint8{0xBA}, X: 0xFD, P: 0xA0},
		{
			Name:    "TXS leaves flags",
			Setup:   func(h *CPUTestHelper) { h.CPU.X = 0x00 },
			Program: []uint8{0x9A},
			P:       0x20,
			Check: func(t *testing.T, h *CPUTestHelper) {
				if h.CPU.SP != 0x00 {
					t.Errorf("Expected SP=0x00, got 0x%02X", h.CPU.SP)
				}
			},
		},
	})
}

func TestFlags_SetAndClear_ShouldBeIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint8
		flag   func(*CPU) bool
		want   bool
	}{
		{"SEC", 0x38, func(c *CPU) bool { return c.C }, true},
		{"CLC", 0x18, func(c *CPU) bool { return c.C }, false},
		{"SEI", 0x78, func(c *CPU) bool { return c.I }, true},
		{"CLI", 0x58, func(c *CPU) bool { return c.I }, false},
		{"SED", 0xF8, func(c *CPU) bool { return c.D }, true},
		{"CLD", 0xD8, func(c *CPU) bool { return c.D }, false},
		{"CLV", 0xB8, func(c *CPU) bool { return c.V }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCPUTestHelper()
			h.CPU.V = true
			h.LoadProgram(tt.opcode, tt.opcode)

			h.Step(t)
			first := h.CPU.Status()
			h.Step(t)

			if tt.flag(h.CPU) != tt.want {
				t.Errorf("Expected flag %v, got %v", tt.want, tt.flag(h.CPU))
			}
			if h.CPU.Status() != first {
				t.Errorf("Second %s changed P from 0x%02X to 0x%02X", tt.name, first, h.CPU.Status())
			}
		})
	}
}

func TestStack_PushPull_ShouldRoundTrip(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.A = 0x42
	h.CPU.C = true
	h.LoadProgram(
		0x48,       // PHA
		0x08,       // PHP
		0xA9, 0x00, // LDA #$00
		0x18,       // CLC
		0x28,       // PLP
		0x68,       // PLA
	)

	h.Step(t)
	h.Step(t)
	// PHP pushes B and bit 5 set
	h.AssertMemory(t, 0x01FC, 0x35)
	h.StepN(t, 4)

	if h.CPU.A != 0x42 || !h.CPU.C {
		t.Errorf("Expected A=0x42 with C set, got A=0x%02X P=0x%02X", h.CPU.A, h.CPU.Status())
	}
	if h.CPU.SP != 0xFD {
		t.Errorf("Expected SP=0xFD, got 0x%02X", h.CPU.SP)
	}
}

func TestJumps_JSRAndRTS_ShouldReturnAfterCall(t *testing.T) {
	h := NewCPUTestHelper()
	h.LoadProgram(0x20, 0x00, 0x90) // JSR $9000
	h.Memory.SetBytes(0x9000, 0x60) // RTS

	h.Step(t)
	if h.CPU.PC != 0x9000 {
		t.Fatalf("Expected PC=0x9000, got 0x%04X", h.CPU.PC)
	}
	h.AssertMemory(t, 0x01FD, 0x80)
	h.AssertMemory(t, 0x01FC, 0x02)

	h.Step(t)
	if h.CPU.PC != 0x8003 {
		t.Errorf("Expected PC=0x8003, got 0x%04X", h.CPU.PC)
	}
}

func TestBranch_ConditionFalse_ShouldFallThrough(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.C = true
	h.LoadProgram(0x90, 0x10) // BCC +16

	cycles := h.Step(t)
	if h.CPU.PC != 0x8002 || cycles != 2 {
		t.Errorf("Expected PC=0x8002 in 2 cycles, got 0x%04X in %d", h.CPU.PC, cycles)
	}
}
