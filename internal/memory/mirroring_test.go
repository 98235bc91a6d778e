package memory

import (
	"testing"

	"nesdot/internal/cartridge"
)

type mockVideoCart struct {
	chr    [0x2000]uint8
	mirror cartridge.Mirror
}

func (m *mockVideoCart) ReadCHR(address uint16) uint8         { return m.chr[address] }
func (m *mockVideoCart) WriteCHR(address uint16, value uint8) { m.chr[address] = value }
func (m *mockVideoCart) Mirroring() cartridge.Mirror          { return m.mirror }

func TestNametableMirroring(t *testing.T) {
	// For each mode: addresses that must alias the byte written at 0x2000,
	// and addresses that must not.
	tests := []struct {
		name     string
		mode     cartridge.Mirror
		shared   []uint16
		distinct []uint16
	}{
		{"horizontal", cartridge.MirrorHorizontal, []uint16{0x2400}, []uint16{0x2800, 0x2C00}},
		{"vertical", cartridge.MirrorVertical, []uint16{0x2800}, []uint16{0x2400, 0x2C00}},
		{"single-screen 0", cartridge.MirrorSingleScreen0, []uint16{0x2400, 0x2800, 0x2C00}, nil},
		{"four-screen", cartridge.MirrorFourScreen, nil, []uint16{0x2400, 0x2800, 0x2C00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &mockVideoCart{mirror: tt.mode}
			var v VRAM
			v.Write(0x2000, 0xAB, cart)

			for _, addr := range tt.shared {
				if got := v.Read(addr, cart); got != 0xAB {
					t.Errorf("Read(%04X) = %02X, want AB", addr, got)
				}
			}
			for _, addr := range tt.distinct {
				if got := v.Read(addr, cart); got != 0 {
					t.Errorf("Read(%04X) = %02X, want 00", addr, got)
				}
			}
			if got := v.Read(0x3000, cart); got != 0xAB {
				t.Errorf("Read(3000) = %02X, want AB (0x3000 mirrors 0x2000)", got)
			}
		})
	}

	t.Run("single-screen 1 uses the second page", func(t *testing.T) {
		var v VRAM
		one := &mockVideoCart{mirror: cartridge.MirrorSingleScreen1}
		zero := &mockVideoCart{mirror: cartridge.MirrorSingleScreen0}
		v.Write(0x2C05, 0x11, one)
		if v.Read(0x2005, zero) != 0 {
			t.Error("single-screen 1 wrote into page 0")
		}
		if v.Read(0x2405, one) != 0x11 {
			t.Error("single-screen 1 should alias all four tables")
		}
	})
}

func TestPaletteMirroring(t *testing.T) {
	var v VRAM
	cart := &mockVideoCart{}

	for _, pair := range [][2]uint16{{0x3F10, 0x3F00}, {0x3F14, 0x3F04}, {0x3F18, 0x3F08}, {0x3F1C, 0x3F0C}} {
		v.Write(pair[0], 0x21, cart)
		if got := v.Read(pair[1], cart); got != 0x21 {
			t.Errorf("%04X should alias %04X, got %02X", pair[0], pair[1], got)
		}
	}

	v.Write(0x3F11, 0x05, cart)
	if v.Read(0x3F01, cart) == 0x05 {
		t.Error("3F11 must not alias 3F01")
	}
	if v.Read(0x3F31, cart) != 0x05 {
		t.Error("palette should mirror every 32 bytes")
	}

	v.Write(0x3F02, 0xFF, cart)
	if got := v.Read(0x3F02, cart); got != 0x3F {
		t.Errorf("palette entries are 6 bits, got %02X", got)
	}
}

func TestPatternTables_ShouldReachCartridge(t *testing.T) {
	var v VRAM
	cart := &mockVideoCart{}
	v.Write(0x1234, 0x99, cart)
	if cart.chr[0x1234] != 0x99 {
		t.Error("CHR write did not reach the cartridge")
	}
	if v.Read(0x5234, cart) != 0x99 {
		t.Error("PPU addresses should wrap at 0x3FFF")
	}
}
