package cpu

import "testing"

// InterruptTest describes an interrupt entry and its stack frame
type InterruptTest struct {
	Name        string
	Setup       func(*CPUTestHelper)
	Trigger     func(*testing.T, *CPUTestHelper)
	ExpectedPC  uint16
	ExpectedSP  uint8
	StackChecks []StackCheck
}

// StackCheck is an expected byte in page one
type StackCheck struct {
	Offset uint8
	Value  uint8
}

func runInterruptTests(t *testing.T, tests []InterruptTest) {
	t.Helper()
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			h := NewCPUTestHelper()
			h.Memory.SetBytes(nmiVector, 0x00, 0x90)
			h.Memory.SetBytes(irqVector, 0x00, 0xA0)
			if test.Setup != nil {
				test.Setup(h)
			}

			test.Trigger(t, h)

			if h.CPU.PC != test.ExpectedPC {
				t.Errorf("Expected PC=0x%04X, got 0x%04X", test.ExpectedPC, h.CPU.PC)
			}
			if h.CPU.SP != test.ExpectedSP {
				t.Errorf("Expected SP=0x%02X, got 0x%02X", test.ExpectedSP, h.CPU.SP)
			}
			if !h.CPU.I {
				t.Error("Expected I set after interrupt entry")
			}
			for _, check := range test.StackChecks {
				h.AssertMemory(t, stackBase|uint16(check.Offset), check.Value)
			}
		})
	}
}

func TestInterrupts_Entry_ShouldPushFrameAndVector(t *testing.T) {
	runInterruptTests(t, []InterruptTest{
		{
			Name: "NMI",
			Setup: func(h *CPUTestHelper) {
				h.CPU.PC = 0x8123
				h.CPU.C = true
				h.CPU.I = false
			},
			Trigger:    func(t *testing.T, h *CPUTestHelper) { h.CPU.NMI() },
			ExpectedPC: 0x9000,
			ExpectedSP: 0xFA,
			StackChecks: []StackCheck{
				{0xFD, 0x81},
				{0xFC, 0x23},
				{0xFB, 0x21}, // B clear, bit 5 set
			},
		},
		{
			Name: "IRQ ignores I",
			Setup: func(h *CPUTestHelper) {
				h.CPU.PC = 0x8456
			},
			Trigger:    func(t *testing.T, h *CPUTestHelper) { h.CPU.IRQ() },
			ExpectedPC: 0xA000,
			ExpectedSP: 0xFA,
			StackChecks: []StackCheck{
				{0xFD, 0x84},
				{0xFC, 0x56},
				{0xFB, 0x24},
			},
		},
		{
			Name: "BRK pushes PC+2 with B set",
			Setup: func(h *CPUTestHelper) {
				h.CPU.I = false
				h.LoadProgram(0x00, 0xFF)
			},
			Trigger:    func(t *testing.T, h *CPUTestHelper) { h.Step(t) },
			ExpectedPC: 0xA000,
			ExpectedSP: 0xFA,
			StackChecks: []StackCheck{
				{0xFD, 0x80},
				{0xFC, 0x02},
				{0xFB, 0x30},
			},
		},
		{
			Name: "stack pointer wraps",
			Setup: func(h *CPUTestHelper) {
				h.CPU.SP = 0x01
				h.CPU.PC = 0x1234
			},
			Trigger:    func(t *testing.T, h *CPUTestHelper) { h.CPU.NMI() },
			ExpectedPC: 0x9000,
			ExpectedSP: 0xFE,
			StackChecks: []StackCheck{
				{0x01, 0x12},
				{0x00, 0x34},
			},
		},
	})
}

func TestInterrupts_Cycles_ShouldChargeSeven(t *testing.T) {
	h := NewCPUTestHelper()
	start := h.CPU.Cycles()

	h.CPU.NMI()
	h.CPU.IRQ()

	if got := h.CPU.Cycles() - start; got != 14 {
		t.Errorf("Expected 14 cycles for two interrupts, got %d", got)
	}
}

func TestRTI_AfterIRQ_ShouldRestoreStatusAndPC(t *testing.T) {
	h := NewCPUTestHelper()
	h.Memory.SetBytes(irqVector, 0x00, 0xA0)
	h.Memory.SetBytes(0xA000, 0x40) // RTI
	h.CPU.PC = 0x8010
	h.CPU.I = false
	h.CPU.N = true

	h.CPU.IRQ()
	h.CPU.N = false
	h.Step(t)

	if h.CPU.PC != 0x8010 {
		t.Errorf("Expected PC=0x8010, got 0x%04X", h.CPU.PC)
	}
	if h.CPU.I || !h.CPU.N {
		t.Errorf("Expected I clear and N set, got P=0x%02X", h.CPU.Status())
	}
	if h.CPU.SP != 0xFD {
		t.Errorf("Expected SP=0xFD, got 0x%02X", h.CPU.SP)
	}
}

func TestStall_ShouldAddCyclesWithoutExecuting(t *testing.T) {
	h := NewCPUTestHelper()
	before := h.CPU.State()

	h.CPU.Stall(513)

	after := h.CPU.State()
	if after.Cycles-before.Cycles != 513 {
		t.Errorf("Expected 513 stall cycles, got %d", after.Cycles-before.Cycles)
	}
	if after.PC != before.PC {
		t.Errorf("PC moved during stall: 0x%04X -> 0x%04X", before.PC, after.PC)
	}
}
