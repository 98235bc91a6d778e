// Package ppu implements the Picture Processing Unit for the NES.
package ppu

import "nesdot/internal/memory"

const (
	ScreenWidth  = 256
	ScreenHeight = 240

	dotsPerLine    = 341
	preRenderLine  = -1
	vblankLine     = 241
	lastLine       = 260
	irqClockDot    = 260
	statusOverflow = 0x20
	statusHit      = 0x40
	statusVBlank   = 0x80

	// power-on PPUSTATUS: vblank and overflow set
	powerOnStatus = statusVBlank | statusOverflow
)

// Cartridge is what the PPU needs from the cartridge while rendering:
// pattern memory, mirroring, and the scanline counter some boards use
// to raise interrupts.
type Cartridge interface {
	memory.VideoCartridge
	IRQClock(scanline int) bool
}

// Signals are the interrupt and frame events produced by one Step.
type Signals struct {
	NMI   bool
	IRQ   bool
	Frame bool
}

// PPU represents the NES Picture Processing Unit (2C02).
type PPU struct {
	ctrl   Control
	mask   Mask
	status uint8

	oamAddr uint8
	oam     [256]uint8

	// loopy registers
	v uint16 // current VRAM address (15 bits)
	t uint16 // temporary VRAM address (15 bits)
	x uint8  // fine X scroll (3 bits)
	w bool   // write toggle shared by PPUSCROLL and PPUADDR

	readBuffer uint8
	openBus    uint8

	vram memory.VRAM

	scanline int // -1 (pre-render) to 260
	dot      int // 0 to 340
	frame    uint64
	oddFrame bool

	// one-shot latches, cleared at pre-render dot 1
	nmiDelivered      bool
	spriteZeroLatched bool

	nmiRequest        bool // raised by a PPUCTRL write during vblank
	spriteZeroPending bool

	// background pipeline
	bgLo, bgHi     uint16
	attrLo, attrHi uint16

	// per-line buffers
	bgOpaque     [ScreenWidth]bool
	spriteColor  [ScreenWidth]uint8 // palette address 0x10-0x1F, 0 when empty
	spriteBehind [ScreenWidth]bool
	spriteZero   [ScreenWidth]bool

	frameBuffer [ScreenWidth * ScreenHeight]uint32
}

// New creates a PPU in its power-on state.
func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// Reset returns the PPU to its power-on state. OAM and VRAM contents are kept.
func (p *PPU) Reset() {
	p.ctrl = decodeControl(0)
	p.mask = decodeMask(0)
	p.status = powerOnStatus
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.openBus = 0
	p.scanline = preRenderLine
	p.dot = 0
	p.frame = 0
	p.oddFrame = false
	p.nmiDelivered = false
	p.spriteZeroLatched = false
	p.nmiRequest = false
	p.spriteZeroPending = false
}

// Step advances the PPU by the given number of dots.
func (p *PPU) Step(dots int, cart Cartridge) Signals {
	var sig Signals
	if p.nmiRequest {
		sig.NMI = true
		p.nmiRequest = false
	}
	for i := 0; i < dots; i++ {
		p.tick(cart, &sig)
	}
	// a hit found during this batch becomes visible at its end
	if p.spriteZeroPending {
		p.spriteZeroPending = false
		if !p.spriteZeroLatched {
			p.status |= statusHit
			p.spriteZeroLatched = true
		}
	}
	return sig
}

func (p *PPU) tick(cart Cartridge, sig *Signals) {
	rendering := p.mask.Rendering()

	switch {
	case p.scanline == preRenderLine:
		if p.dot == 1 {
			p.status &^= statusVBlank | statusHit | statusOverflow
			p.nmiDelivered = false
			p.spriteZeroLatched = false
			p.spriteZeroPending = false
		}
		if rendering {
			p.renderDot(cart, false)
			if p.dot >= 280 && p.dot <= 304 {
				p.copyY()
			}
		}
	case p.scanline < ScreenHeight:
		if p.dot == 0 {
			p.beginLine(cart)
		}
		if rendering {
			p.renderDot(cart, true)
		}
	case p.scanline == vblankLine && p.dot == 1:
		p.status |= statusVBlank
		sig.Frame = true
		if p.ctrl.NMI && !p.nmiDelivered {
			p.nmiDelivered = true
			sig.NMI = true
		}
	}

	if rendering && p.dot == irqClockDot && p.scanline < ScreenHeight && cart != nil {
		if cart.IRQClock(p.scanline) {
			sig.IRQ = true
		}
	}

	p.advance(rendering)
}

func (p *PPU) advance(rendering bool) {
	p.dot++
	if p.scanline == preRenderLine && p.dot == dotsPerLine-1 && p.oddFrame && rendering {
		p.dot = dotsPerLine
	}
	if p.dot < dotsPerLine {
		return
	}
	p.dot = 0
	p.scanline++
	if p.scanline > lastLine {
		p.scanline = preRenderLine
		p.frame++
		p.oddFrame = !p.oddFrame
	}
}

// WriteOAM stores one byte of a DMA transfer at OAMADDR and increments it.
func (p *PPU) WriteOAM(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// OAM returns a copy of sprite memory.
func (p *PPU) OAM() [256]uint8 {
	return p.oam
}

// FrameBuffer returns the 0xAARRGGBB image of the last rendered frame.
func (p *PPU) FrameBuffer() *[ScreenWidth * ScreenHeight]uint32 {
	return &p.frameBuffer
}

// State is a snapshot of the PPU timing and registers.
type State struct {
	Scanline int
	Dot      int
	Frame    uint64
	Status   uint8
	V, T     uint16
	FineX    uint8
	W        bool
	Control  Control
	Mask     Mask
}

// State returns the current timing and registers.
func (p *PPU) State() State {
	return State{
		Scanline: p.scanline,
		Dot:      p.dot,
		Frame:    p.frame,
		Status:   p.status,
		V:        p.v,
		T:        p.t,
		FineX:    p.x,
		W:        p.w,
		Control:  p.ctrl,
		Mask:     p.mask,
	}
}

// InVBlank reports whether the vblank flag is set.
func (p *PPU) InVBlank() bool {
	return p.status&statusVBlank != 0
}
