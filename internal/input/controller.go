// Package input implements the NES standard controller.
package input

import "strings"

// Button is one bit of the controller report, in shift order.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// open bus bits that come back on the upper data lines
const openBusBits = 0x40

var buttonNames = [8]string{"A", "B", "Select", "Start", "Up", "Down", "Left", "Right"}

func (b Button) String() string {
	var names []string
	for i, name := range buttonNames {
		if b&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// ParseButton maps a button name, as used in key mappings, to its bit.
func ParseButton(name string) (Button, bool) {
	for i, n := range buttonNames {
		if strings.EqualFold(n, name) {
			return Button(1 << i), true
		}
	}
	return 0, false
}

// Controller is a standard pad: eight buttons behind a parallel-in,
// serial-out shift register.
type Controller struct {
	buttons Button

	shiftRegister uint8
	reads         int
	strobe        bool
}

// New creates a Controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton presses or releases one button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= button
	} else {
		c.buttons &^= button
	}
	if c.strobe {
		c.reload()
	}
}

// SetButtons replaces the whole button state.
func (c *Controller) SetButtons(buttons Button) {
	c.buttons = buttons
	if c.strobe {
		c.reload()
	}
}

// Buttons returns the held buttons.
func (c *Controller) Buttons() Button {
	return c.buttons
}

// IsPressed reports whether the button is held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&button != 0
}

// Write handles the strobe line ($4016 bit 0). While strobe is high
// the shift register keeps reloading from the buttons.
func (c *Controller) Write(value uint8) {
	c.strobe = value&0x01 != 0
	if c.strobe {
		c.reload()
	}
}

// Read shifts out the next button. After all eight have been read
// the register returns 1s.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.reload()
		return openBusBits | uint8(c.buttons&ButtonA)
	}
	if c.reads >= 8 {
		return openBusBits | 1
	}
	bit := c.shiftRegister & 1
	c.shiftRegister >>= 1
	c.reads++
	return openBusBits | bit
}

func (c *Controller) reload() {
	c.shiftRegister = uint8(c.buttons)
	c.reads = 0
}

// Reset releases all buttons and clears the latch.
func (c *Controller) Reset() {
	*c = Controller{}
}

// Ports holds the two controller ports.
type Ports struct {
	One *Controller
	Two *Controller
}

// NewPorts creates two empty controller ports.
func NewPorts() *Ports {
	return &Ports{One: New(), Two: New()}
}

// Reset resets both controllers.
func (p *Ports) Reset() {
	p.One.Reset()
	p.Two.Reset()
}

// Port returns controller 0 or 1.
func (p *Ports) Port(n int) *Controller {
	if n == 1 {
		return p.Two
	}
	return p.One
}
