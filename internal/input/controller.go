// Package input implements the standard NES controller's shift-register
// protocol on $4016/$4017.
package input

// Button identifies one of the eight standard-controller buttons, ordered
// the way the hardware shift register reports them.
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

// Controller is one NES joypad: a latch plus an 8-bit parallel-in,
// serial-out shift register.
type Controller struct {
	buttons uint8

	strobe        bool
	shiftRegister uint8
}

// New creates a Controller with no buttons pressed.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or clears a single button's pressed state.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a write to the controller's strobe line. While strobe is
// held high the shift register continuously reloads from the live button
// state; the falling edge latches whatever was loaded at that instant, and
// subsequent reads shift it out one bit at a time.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// Read returns the next bit (A first, then B, Select, Start, Up, Down,
// Left, Right) in bit 0, shifting the register. With strobe held high it
// keeps returning the A button's live state and never advances. Past the
// eighth bit the hardware shift register has run dry and reads as 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 1
	}
	result := c.shiftRegister & 1
	c.shiftRegister = c.shiftRegister>>1 | 0x80
	return result
}

// Reset clears latch state but preserves which buttons are currently held,
// matching power-on/reset behavior on real hardware where the controller
// itself is unaffected by a console reset.
func (c *Controller) Reset() {
	c.strobe = false
	c.shiftRegister = 0
}

// Ports holds the two standard controller ports and multiplexes bus
// accesses to $4016/$4017 onto them.
type Ports struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewPorts creates a Ports with both controllers attached and unpressed.
func NewPorts() *Ports {
	return &Ports{Controller1: New(), Controller2: New()}
}

func (p *Ports) Reset() {
	p.Controller1.Reset()
	p.Controller2.Reset()
}

// Read dispatches $4016/$4017 reads. Bit 6 of the result is open bus on
// real hardware and conventionally reads back as 1 on both ports.
func (p *Ports) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return p.Controller1.Read() | 0x40
	case 0x4017:
		return p.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write broadcasts a $4016 strobe write to both controllers; $4017 has no
// controller-port write effect.
func (p *Ports) Write(address uint16, value uint8) {
	if address == 0x4016 {
		p.Controller1.Write(value)
		p.Controller2.Write(value)
	}
}
