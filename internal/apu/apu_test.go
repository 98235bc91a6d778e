package apu

import (
	"testing"
)

// MockCartridge records DMC sample fetches.
type MockCartridge struct {
	reads []uint16
	data  uint8
}

func (m *MockCartridge) ReadPRG(address uint16) uint8 {
	m.reads = append(m.reads, address)
	return m.data
}

func TestWriteEnables_ShouldGateLengthCounters(t *testing.T) {
	apu := New(nil)

	apu.WriteRegister(0x4003, 0x08) // length index 1, channel disabled
	if status := apu.ReadStatus(); status&0x01 != 0 {
		t.Errorf("Disabled pulse 1 should not load its length, status 0x%02X", status)
	}

	apu.WriteRegister(0x4015, 0x0F)
	apu.WriteRegister(0x4003, 0x08)
	apu.WriteRegister(0x4007, 0x08)
	apu.WriteRegister(0x400B, 0x08)
	apu.WriteRegister(0x400F, 0x08)
	if status := apu.ReadStatus(); status&0x0F != 0x0F {
		t.Errorf("Expected all four length bits, got 0x%02X", status)
	}

	apu.WriteRegister(0x4015, 0x05)
	if status := apu.ReadStatus(); status&0x0F != 0x05 {
		t.Errorf("Disabling pulse 2 and noise should clear their lengths, got 0x%02X", status)
	}
}

func TestFrameCounter_FourStep_ShouldRaiseIRQ(t *testing.T) {
	apu := New(nil)

	apu.Step(fourStepEnd-1, nil)
	if apu.IRQPending() {
		t.Fatal("IRQ raised too early")
	}
	apu.Step(1, nil)
	if !apu.IRQPending() {
		t.Fatal("Expected frame IRQ at the end of the sequence")
	}

	if status := apu.ReadStatus(); status&0x40 == 0 {
		t.Errorf("Expected frame IRQ bit in status, got 0x%02X", status)
	}
	apu.Step(1, nil)
	apu.ReadStatus()
	if apu.IRQPending() {
		t.Error("Reading $4015 should acknowledge the frame IRQ")
	}
}

func TestFrameCounter_InhibitAndFiveStep_ShouldNotRaiseIRQ(t *testing.T) {
	tests := []struct {
		name  string
		value uint8
	}{
		{"inhibit", 0x40},
		{"five-step", 0x80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apu := New(nil)
			apu.WriteRegister(0x4017, tt.value)
			apu.Step(2*fiveStepEnd, nil)
			if apu.IRQPending() {
				t.Error("Frame IRQ should not be raised")
			}
		})
	}
}

func TestFrameCounter_LengthCounterShouldExpire(t *testing.T) {
	apu := New(nil)
	apu.WriteRegister(0x4015, 0x01)
	apu.WriteRegister(0x4000, 0x00)
	apu.WriteRegister(0x4003, 0x18) // length index 3: 2 half frames

	apu.Step(halfStep1, nil)
	if apu.ReadStatus()&0x01 == 0 {
		t.Fatal("Length should survive one half frame")
	}
	apu.Step(fourStepEnd-halfStep1, nil)
	if apu.ReadStatus()&0x01 != 0 {
		t.Error("Length should expire after two half frames")
	}
}

func TestDMC_ShouldFetchSamplesThroughCartridge(t *testing.T) {
	apu := New(nil)
	cart := &MockCartridge{data: 0xFF}

	apu.WriteRegister(0x4010, 0x80) // IRQ enabled, rate 0
	apu.WriteRegister(0x4012, 0x01) // $C040
	apu.WriteRegister(0x4013, 0x00) // 1 byte
	apu.WriteRegister(0x4015, 0x10)

	if status := apu.ReadStatus(); status&0x10 == 0 {
		t.Fatalf("Expected DMC active, status 0x%02X", status)
	}

	apu.Step(1, cart)

	if len(cart.reads) != 1 || cart.reads[0] != 0xC040 {
		t.Fatalf("Expected one fetch from $C040, got %v", cart.reads)
	}
	if !apu.IRQPending() {
		t.Error("Expected DMC IRQ after the last byte")
	}
	status := apu.ReadStatus()
	if status&0x80 == 0 || status&0x10 != 0 {
		t.Errorf("Expected DMC IRQ set and DMC idle, got 0x%02X", status)
	}

	apu.WriteRegister(0x4015, 0x00)
	if apu.IRQPending() {
		t.Error("Writing $4015 should acknowledge the DMC IRQ")
	}
}

func TestDMC_DirectLoadShouldSetLevel(t *testing.T) {
	apu := New(nil)

	apu.WriteRegister(0x4011, 0xC5)

	if level := apu.Levels()[4]; level != 0x45 {
		t.Errorf("Expected 7-bit level 0x45, got 0x%02X", level)
	}
}

func TestStep_ShouldProduceSamplesAtOutputRate(t *testing.T) {
	queue := NewSampleQueue(4096)
	apu := New(queue)

	apu.Step(40590, nil) // ~1000 samples at 44.1kHz

	if n := queue.Len(); n < 999 || n > 1001 {
		t.Errorf("Expected about 1000 samples, got %d", n)
	}

	dst := make([]float32, 2000)
	n := queue.Drain(dst)
	for i := 0; i < n; i++ {
		if dst[i] < -1 || dst[i] > 1 {
			t.Fatalf("Sample %d out of range: %f", i, dst[i])
		}
	}
}

func TestSampleQueue_ShouldDropOldestWhenFull(t *testing.T) {
	queue := NewSampleQueue(4)
	for i := 1; i <= 6; i++ {
		queue.Push(float32(i))
	}

	if queue.Dropped() != 2 {
		t.Errorf("Expected 2 dropped, got %d", queue.Dropped())
	}

	dst := make([]float32, 3)
	if n := queue.Drain(dst); n != 3 {
		t.Fatalf("Expected 3 drained, got %d", n)
	}
	expected := []float32{3, 4, 5}
	for i := range expected {
		if dst[i] != expected[i] {
			t.Errorf("dst[%d]: expected %v, got %v", i, expected[i], dst[i])
		}
	}
	if queue.Len() != 1 {
		t.Errorf("Expected 1 left, got %d", queue.Len())
	}

	queue.Clear()
	if queue.Drain(dst) != 0 {
		t.Error("Expected empty queue after Clear")
	}
}
