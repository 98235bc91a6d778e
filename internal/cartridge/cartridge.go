// Package cartridge implements ROM loading and the bank-switching logic of NES cartridges.
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrInvalidHeader is returned for images that are not iNES or NES 2.0 files.
	ErrInvalidHeader = errors.New("invalid iNES header")

	// ErrUnimplementedMapper is returned when a cartridge declares a mapper
	// this package does not implement.
	ErrUnimplementedMapper = errors.New("unimplemented mapper")
)

// MapperError reports the mapper id a cartridge asked for.
type MapperError struct {
	ID uint16
}

func (e *MapperError) Error() string {
	return fmt.Sprintf("mapper %d: %v", e.ID, ErrUnimplementedMapper)
}

func (e *MapperError) Unwrap() error { return ErrUnimplementedMapper }

// Mirror is the nametable mirroring arrangement.
type Mirror uint8

const (
	MirrorHorizontal Mirror = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

func (m Mirror) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorSingleScreen0:
		return "single-screen 0"
	case MirrorSingleScreen1:
		return "single-screen 1"
	case MirrorFourScreen:
		return "four-screen"
	}
	return "unknown"
}

const (
	prgBankSize = 0x4000
	chrBankSize = 0x2000
	sramSize    = 0x2000
	trainerSize = 512
)

// Mapper is the bank-switching logic of a cartridge board.
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)

	// Mirroring returns the current nametable arrangement. Some boards
	// change it at runtime.
	Mirroring() Mirror

	// Decodes reports whether the board responds at a CPU address in
	// 0x4020-0xFFFF.
	Decodes(address uint16) bool

	// IRQClock is called by the PPU once per rendered scanline and
	// reports whether the board is requesting an interrupt.
	IRQClock(scanline int) bool

	// IRQPending is the level of the board's interrupt line.
	IRQPending() bool
}

// Cartridge is a loaded game image plus its mapper.
type Cartridge struct {
	prg  []uint8
	chr  []uint8
	sram []uint8

	mapperID uint16
	mapper   Mapper
	mirror   Mirror

	battery bool
	chrRAM  bool
}

// iNES header layout.
type header struct {
	Magic    [4]uint8
	PRGBanks uint8
	CHRBanks uint8
	Flags6   uint8
	Flags7   uint8
	Flags8   uint8
	Flags9   uint8
	Flags10  uint8
	Padding  [5]uint8
}

func (h *header) nes20() bool {
	return h.Flags7&0x0C == 0x08
}

// mapperID decodes the mapper number. Archaic iNES dumps often carry
// garbage in bytes 7-15, so the upper nibble is only trusted when the
// padding is clean.
func (h *header) mapperID() uint16 {
	low := uint16(h.Flags6 >> 4)
	if h.nes20() {
		return low | uint16(h.Flags7&0xF0) | uint16(h.Flags8&0x0F)<<8
	}
	for _, b := range h.Padding[1:] {
		if b != 0 {
			return low
		}
	}
	return low | uint16(h.Flags7&0xF0)
}

// LoadFile loads a cartridge from an iNES file on disk.
func LoadFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cart, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return cart, nil
}

// Load parses an iNES or NES 2.0 image.
func Load(r io.Reader) (*Cartridge, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	if string(h.Magic[:]) != "NES\x1A" {
		return nil, ErrInvalidHeader
	}
	if h.PRGBanks == 0 {
		return nil, fmt.Errorf("%w: no PRG ROM", ErrInvalidHeader)
	}

	if h.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, fmt.Errorf("reading trainer: %w", err)
		}
	}

	prg := make([]uint8, int(h.PRGBanks)*prgBankSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("reading PRG ROM: %w", err)
	}

	var chr []uint8
	if h.CHRBanks > 0 {
		chr = make([]uint8, int(h.CHRBanks)*chrBankSize)
		if _, err := io.ReadFull(r, chr); err != nil {
			return nil, fmt.Errorf("reading CHR ROM: %w", err)
		}
	}

	mirror := MirrorHorizontal
	switch {
	case h.Flags6&0x08 != 0:
		mirror = MirrorFourScreen
	case h.Flags6&0x01 != 0:
		mirror = MirrorVertical
	}

	cart, err := New(prg, chr, h.mapperID(), mirror)
	if err != nil {
		return nil, err
	}
	cart.battery = h.Flags6&0x02 != 0
	return cart, nil
}

// New builds a cartridge from flat PRG and CHR images. An empty CHR image
// gets 8KB of CHR RAM.
func New(prg, chr []uint8, mapperID uint16, mirror Mirror) (*Cartridge, error) {
	if len(prg) == 0 || len(prg)%prgBankSize != 0 {
		return nil, fmt.Errorf("%w: PRG size %d", ErrInvalidHeader, len(prg))
	}
	c := &Cartridge{
		prg:      prg,
		chr:      chr,
		sram:     make([]uint8, sramSize),
		mapperID: mapperID,
		mirror:   mirror,
	}
	if len(c.chr) == 0 {
		c.chr = make([]uint8, chrBankSize)
		c.chrRAM = true
	}

	m, err := createMapper(mapperID, c)
	if err != nil {
		return nil, err
	}
	c.mapper = m
	return c, nil
}

func createMapper(id uint16, c *Cartridge) (Mapper, error) {
	switch id {
	case 0:
		return newMapper000(c), nil
	case 1:
		return newMapper001(c), nil
	case 2:
		return newMapper002(c), nil
	case 3:
		return newMapper003(c), nil
	case 4:
		return newMapper004(c), nil
	}
	return nil, &MapperError{ID: id}
}

func (c *Cartridge) ReadPRG(address uint16) uint8         { return c.mapper.ReadPRG(address) }
func (c *Cartridge) WritePRG(address uint16, value uint8) { c.mapper.WritePRG(address, value) }
func (c *Cartridge) ReadCHR(address uint16) uint8         { return c.mapper.ReadCHR(address) }
func (c *Cartridge) WriteCHR(address uint16, value uint8) { c.mapper.WriteCHR(address, value) }
func (c *Cartridge) Mirroring() Mirror                    { return c.mapper.Mirroring() }
func (c *Cartridge) Decodes(address uint16) bool          { return c.mapper.Decodes(address) }
func (c *Cartridge) IRQClock(scanline int) bool           { return c.mapper.IRQClock(scanline) }
func (c *Cartridge) IRQPending() bool                     { return c.mapper.IRQPending() }

// MapperID returns the header mapper number.
func (c *Cartridge) MapperID() uint16 { return c.mapperID }

// HasBattery reports whether PRG RAM should survive power cycles.
func (c *Cartridge) HasBattery() bool { return c.battery }

// PRGSize and CHRSize are in bytes.
func (c *Cartridge) PRGSize() int { return len(c.prg) }
func (c *Cartridge) CHRSize() int { return len(c.chr) }

// HasCHRRAM reports whether pattern memory is writable.
func (c *Cartridge) HasCHRRAM() bool { return c.chrRAM }

// SaveRAM writes PRG RAM to w.
func (c *Cartridge) SaveRAM(w io.Writer) error {
	_, err := w.Write(c.sram)
	return err
}

// LoadRAM restores PRG RAM previously written by SaveRAM.
func (c *Cartridge) LoadRAM(r io.Reader) error {
	if _, err := io.ReadFull(r, c.sram); err != nil {
		return fmt.Errorf("restoring PRG RAM: %w", err)
	}
	return nil
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("mapper %d, PRG %dK, CHR %dK (%s), %s mirroring, battery=%t",
		c.mapperID, len(c.prg)/1024, len(c.chr)/1024, chrKind(c.chrRAM), c.mirror, c.battery)
}

func chrKind(ram bool) string {
	if ram {
		return "RAM"
	}
	return "ROM"
}
