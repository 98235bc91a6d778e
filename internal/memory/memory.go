// Package memory implements the CPU address decoder and the PPU's video memory.
package memory

import (
	"errors"
	"fmt"

	"nesdot/internal/cartridge"
)

// ErrUnmappedAddress is the fault raised for an access no device decodes.
var ErrUnmappedAddress = errors.New("unmapped address")

// AddressError records the first unmapped access of a session.
type AddressError struct {
	Address uint16
	Write   bool
	Value   uint8
}

func (e *AddressError) Error() string {
	if e.Write {
		return fmt.Sprintf("write $%02X to $%04X: %v", e.Value, e.Address, ErrUnmappedAddress)
	}
	return fmt.Sprintf("read from $%04X: %v", e.Address, ErrUnmappedAddress)
}

func (e *AddressError) Unwrap() error { return ErrUnmappedAddress }

// VideoCartridge is the part of the cartridge the PPU addresses.
type VideoCartridge interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirroring() cartridge.Mirror
}

// Cartridge is the cartridge as the CPU bus sees it.
type Cartridge interface {
	VideoCartridge
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	Decodes(address uint16) bool
}

// PPU is the register file at 0x2000-0x2007. The cartridge is passed in
// so PPUDATA can reach pattern memory.
type PPU interface {
	ReadRegister(address uint16, cart VideoCartridge) uint8
	WriteRegister(address uint16, value uint8, cart VideoCartridge)
}

// APU is the audio register file.
type APU interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// Controller is a serial input latch.
type Controller interface {
	Read() uint8
	Write(value uint8)
}

// Memory routes CPU addresses to RAM and the devices.
type Memory struct {
	ram [0x800]uint8

	ppu  PPU
	apu  APU
	cart Cartridge
	pads [2]Controller

	dma func(page uint8)

	// last value on the data bus, returned by write-only ports
	openBus uint8

	err error
}

// New creates a bus over the given devices. The cartridge may be nil
// until one is inserted; the cartridge window is unmapped until then.
func New(ppu PPU, apu APU, cart Cartridge) *Memory {
	return &Memory{ppu: ppu, apu: apu, cart: cart}
}

// SetControllers attaches the two controller ports.
func (m *Memory) SetControllers(one, two Controller) {
	m.pads = [2]Controller{one, two}
}

// SetDMAHandler registers the callback for writes to 0x4014.
func (m *Memory) SetDMAHandler(fn func(page uint8)) {
	m.dma = fn
}

// SetCartridge swaps the cartridge.
func (m *Memory) SetCartridge(cart Cartridge) {
	m.cart = cart
}

// Err returns the first unmapped access since the last ClearErr.
func (m *Memory) Err() error {
	return m.err
}

// ClearErr forgets a recorded fault.
func (m *Memory) ClearErr() {
	m.err = nil
}

func (m *Memory) fault(address uint16, write bool, value uint8) {
	if m.err == nil {
		m.err = &AddressError{Address: address, Write: write, Value: value}
	}
}

// Read reads one byte as the CPU would, with device side effects.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8

	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]

	case address < 0x4000:
		var video VideoCartridge
		if m.cart != nil {
			video = m.cart
		}
		value = m.ppu.ReadRegister(0x2000+address&0x0007, video)

	case address == 0x4015:
		value = m.apu.ReadStatus()

	case address == 0x4016 || address == 0x4017:
		value = m.openBus & 0xE0
		if pad := m.pads[address-0x4016]; pad != nil {
			value = value&^0x1F | pad.Read()&0x1F
		}

	case address < 0x4018:
		// write-only APU and DMA ports
		value = m.openBus

	case address < 0x4020:
		m.fault(address, false, 0)
		return m.openBus

	default:
		if m.cart == nil || !m.cart.Decodes(address) {
			m.fault(address, false, 0)
			return m.openBus
		}
		value = m.cart.ReadPRG(address)
	}

	m.openBus = value
	return value
}

// Write writes one byte as the CPU would.
func (m *Memory) Write(address uint16, value uint8) {
	m.openBus = value

	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		var video VideoCartridge
		if m.cart != nil {
			video = m.cart
		}
		m.ppu.WriteRegister(0x2000+address&0x0007, value, video)

	case address == 0x4014:
		if m.dma != nil {
			m.dma(value)
		}

	case address == 0x4016:
		for _, pad := range m.pads {
			if pad != nil {
				pad.Write(value)
			}
		}

	case address < 0x4018:
		m.apu.WriteRegister(address, value)

	case address < 0x4020:
		m.fault(address, true, value)

	default:
		if m.cart == nil || !m.cart.Decodes(address) {
			m.fault(address, true, value)
			return
		}
		m.cart.WritePRG(address, value)
	}
}

// Peek reads RAM and cartridge space without side effects. Device
// registers read as zero.
func (m *Memory) Peek(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]
	case address >= 0x4020 && m.cart != nil && m.cart.Decodes(address):
		return m.cart.ReadPRG(address)
	}
	return 0
}

// Peek16 reads a little-endian word with Peek.
func (m *Memory) Peek16(address uint16) uint16 {
	return uint16(m.Peek(address)) | uint16(m.Peek(address+1))<<8
}
