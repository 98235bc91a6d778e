package cartridge

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidImages_ShouldDecodeHeader(t *testing.T) {
	tests := []struct {
		name     string
		img      Image
		prgSize  int
		chrSize  int
		chrRAM   bool
		mirror   Mirror
		battery  bool
		mapperID uint16
	}{
		{"16KB PRG, 8KB CHR", Image{PRG: make([]uint8, 0x4000), CHR: make([]uint8, 0x2000)}, 0x4000, 0x2000, false, MirrorHorizontal, false, 0},
		{"32KB PRG, CHR RAM", Image{PRG: make([]uint8, 0x8000)}, 0x8000, 0x2000, true, MirrorHorizontal, false, 0},
		{"vertical mirroring", Image{PRG: make([]uint8, 0x4000), Flags6: 0x01}, 0x4000, 0x2000, true, MirrorVertical, false, 0},
		{"four screen wins over vertical", Image{PRG: make([]uint8, 0x4000), Flags6: 0x09}, 0x4000, 0x2000, true, MirrorFourScreen, false, 0},
		{"battery", Image{PRG: make([]uint8, 0x4000), Flags6: 0x02}, 0x4000, 0x2000, true, MirrorHorizontal, true, 0},
		{"MMC3", Image{PRG: make([]uint8, 0x20000), CHR: make([]uint8, 0x20000), MapperID: 4}, 0x20000, 0x20000, false, MirrorHorizontal, false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, err := tt.img.Cartridge()
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if cart.PRGSize() != tt.prgSize {
				t.Errorf("PRG size = %d, want %d", cart.PRGSize(), tt.prgSize)
			}
			if cart.CHRSize() != tt.chrSize {
				t.Errorf("CHR size = %d, want %d", cart.CHRSize(), tt.chrSize)
			}
			if cart.HasCHRRAM() != tt.chrRAM {
				t.Errorf("CHR RAM = %t, want %t", cart.HasCHRRAM(), tt.chrRAM)
			}
			if cart.Mirroring() != tt.mirror {
				t.Errorf("mirroring = %v, want %v", cart.Mirroring(), tt.mirror)
			}
			if cart.HasBattery() != tt.battery {
				t.Errorf("battery = %t, want %t", cart.HasBattery(), tt.battery)
			}
			if cart.MapperID() != tt.mapperID {
				t.Errorf("mapper = %d, want %d", cart.MapperID(), tt.mapperID)
			}
		})
	}
}

func TestLoad_Trainer_ShouldBeSkipped(t *testing.T) {
	img := NROM([]uint8{0xA9, 0x42})
	img.Trainer = true
	cart, err := img.Cartridge()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cart.ReadPRG(0x8000); got != 0xA9 {
		t.Errorf("first PRG byte = %02X, want A9", got)
	}
}

func TestLoad_InvalidImages_ShouldFail(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrInvalidHeader},
		{"bad magic", append([]byte("ROM\x1A"), make([]byte, 12)...), ErrInvalidHeader},
		{"no PRG", append([]byte("NES\x1A"), make([]byte, 12)...), ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("truncated PRG", func(t *testing.T) {
		data := Image{PRG: make([]uint8, 0x4000)}.Bytes()
		_, err := Load(bytes.NewReader(data[:100]))
		if err == nil {
			t.Error("expected error for truncated PRG")
		}
	})
}

func TestLoad_UnknownMapper_ShouldReturnMapperError(t *testing.T) {
	_, err := Image{PRG: make([]uint8, 0x4000), MapperID: 0x45}.Cartridge()
	if !errors.Is(err, ErrUnimplementedMapper) {
		t.Fatalf("err = %v, want ErrUnimplementedMapper", err)
	}
	var me *MapperError
	if !errors.As(err, &me) {
		t.Fatalf("err = %T, want *MapperError", err)
	}
	if me.ID != 0x45 {
		t.Errorf("mapper id = %d, want 69", me.ID)
	}
}

func TestLoad_DirtyPadding_ShouldIgnoreUpperMapperNibble(t *testing.T) {
	data := Image{PRG: make([]uint8, 0x4000), MapperID: 0x02}.Bytes()
	data[7] = 'D' // "DiskDude!" style garbage
	copy(data[12:16], "ude!")

	cart, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cart.MapperID() != 2 {
		t.Errorf("mapper = %d, want 2", cart.MapperID())
	}
}

func TestSaveRAM_RoundTrip(t *testing.T) {
	cart, err := NROM(nil).Cartridge()
	if err != nil {
		t.Fatal(err)
	}
	cart.WritePRG(0x6000, 0x12)
	cart.WritePRG(0x7FFF, 0x34)

	var buf bytes.Buffer
	if err := cart.SaveRAM(&buf); err != nil {
		t.Fatal(err)
	}

	other, _ := NROM(nil).Cartridge()
	if err := other.LoadRAM(&buf); err != nil {
		t.Fatal(err)
	}
	if other.ReadPRG(0x6000) != 0x12 || other.ReadPRG(0x7FFF) != 0x34 {
		t.Error("PRG RAM not restored")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.nes")
	if err := os.WriteFile(path, NROM([]uint8{0xEA}).Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	cart, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cart.ReadPRG(0x8000) != 0xEA {
		t.Error("first PRG byte not loaded")
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.nes")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want os.ErrNotExist", err)
	}

	os.WriteFile(path, []byte("not a rom"), 0644)
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("err = %v, want ErrInvalidHeader", err)
	}
}
