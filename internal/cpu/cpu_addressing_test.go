package cpu

import "testing"

// AddressingTest describes one decode of a single instruction
type AddressingTest struct {
	Name        string
	Setup       func(*CPUTestHelper)
	Program     []uint8
	Address     uint16
	PageCrossed bool
}

func runAddressingTests(t *testing.T, tests []AddressingTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			h := NewCPUTestHelper()
			if test.Setup != nil {
				test.Setup(h)
			}
			h.LoadProgram(test.Program...)

			in, err := h.CPU.Decode()
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if in.Address != test.Address {
				t.Errorf("Expected address 0x%04X, got 0x%04X", test.Address, in.Address)
			}
			if in.PageCrossed != test.PageCrossed {
				t.Errorf("Expected page crossed %v, got %v", test.PageCrossed, in.PageCrossed)
			}
			if want := 0x8000 + uint16(len(test.Program)); h.CPU.PC != want {
				t.Errorf("Expected PC=0x%04X after decode, got 0x%04X", want, h.CPU.PC)
			}
		})
	}
}

func TestDecode_AddressingModes_ShouldResolveEffectiveAddress(t *testing.T) {
	runAddressingTests(t, []AddressingTest{
		{Name: "Immediate", Program: []uint8{0xA9, 0x42}, Address: 0x8001},
		{Name: "ZeroPage", Program: []uint8{0xA5, 0x80}, Address: 0x0080},
		{
			Name:    "ZeroPageX wraps in page zero",
			Setup:   func(h *CPUTestHelper) { h.CPU.X = 0x20 },
			Program: []uint8{0xB5, 0xF0},
			Address: 0x0010,
		},
		{
			Name:    "ZeroPageY wraps in page zero",
			Setup:   func(h *CPUTestHelper) { h.CPU.Y = 0x02 },
			Program: []uint8{0xB6, 0xFF},
			Address: 0x0001,
		},
		{Name: "Absolute", Program: []uint8{0xAD, 0x34, 0x12}, Address: 0x1234},
		{
			Name:    "AbsoluteX same page",
			Setup:   func(h *CPUTestHelper) { h.CPU.X = 0x10 },
			Program: []uint8{0xBD, 0x00, 0x12},
			Address: 0x1210,
		},
		{
			Name:        "AbsoluteY crosses page",
			Setup:       func(h *CPUTestHelper) { h.CPU.Y = 0x01 },
			Program:     []uint8{0xB9, 0xFF, 0x12},
			Address:     0x1300,
			PageCrossed: true,
		},
		{
			Name:    "AbsoluteX wraps at 16 bits",
			Setup:   func(h *CPUTestHelper) { h.CPU.X = 0x02 },
			Program: []uint8{0xBD, 0xFF, 0xFF},
			Address: 0x0001, PageCrossed: true,
		},
		{
			Name: "Indirect",
			Setup: func(h *CPUTestHelper) {
				h.Memory.SetBytes(0x0200, 0x00, 0x90)
			},
			Program: []uint8{0x6C, 0x00, 0x02},
			Address: 0x9000,
		},
		{
			Name: "Indirect page wrap bug",
			Setup: func(h *CPUTestHelper) {
				h.Memory.SetBytes(0x02FF, 0x34)
				h.Memory.SetBytes(0x0200, 0x12)
				h.Memory.SetBytes(0x0300, 0x99)
			},
			Program: []uint8{0x6C, 0xFF, 0x02},
			Address: 0x1234,
		},
		{
			Name: "IndexedIndirect",
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 0x04
				h.Memory.SetBytes(0x0024, 0x74, 0x20)
			},
			Program: []uint8{0xA1, 0x20},
			Address: 0x2074,
		},
		{
			Name: "IndexedIndirect pointer wraps in page zero",
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 0x01
				h.Memory.SetBytes(0x00FF, 0x78)
				h.Memory.SetBytes(0x0000, 0x56)
			},
			Program: []uint8{0xA1, 0xFE},
			Address: 0x5678,
		},
		{
			Name: "IndirectIndexed",
			Setup: func(h *CPUTestHelper) {
				h.CPU.Y = 0x10
				h.Memory.SetBytes(0x0086, 0x28, 0x40)
			},
			Program: []uint8{0xB1, 0x86},
			Address: 0x4038,
		},
		{
			Name: "IndirectIndexed crosses page",
			Setup: func(h *CPUTestHelper) {
				h.CPU.Y = 0xFF
				h.Memory.SetBytes(0x0086, 0x01, 0x40)
			},
			Program:     []uint8{0xB1, 0x86},
			Address:     0x4100,
			PageCrossed: true,
		},
		{
			Name:    "Relative forward",
			Setup:   func(h *CPUTestHelper) { h.CPU.Z = true },
			Program: []uint8{0xF0, 0x10},
			Address: 0x8012,
		},
		{
			Name:        "Relative backward across page",
			Program:     []uint8{0xD0, 0xF0},
			Address:     0x7FF2,
			PageCrossed: true,
		},
	})
}

func TestIndexedIndirect_RoundTrip_ShouldStoreAndLoadThroughPointer(t *testing.T) {
	h := NewCPUTestHelper()
	h.CPU.X = 0x05
	h.Memory.SetBytes(0x0015, 0x00, 0x03) // pointer at $10+X -> $0300
	h.LoadProgram(
		0xA9, 0x7E, // LDA #$7E
		0x81, 0x10, // STA ($10,X)
		0xA9, 0x00, // LDA #$00
		0xA1, 0x10, // LDA ($10,X)
	)

	h.StepN(t, 4)

	h.AssertMemory(t, 0x0300, 0x7E)
	if h.CPU.A != 0x7E {
		t.Errorf("Expected A=0x7E, got 0x%02X", h.CPU.A)
	}
}
