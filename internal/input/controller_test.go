package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftRegisterOrder(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)

	c.Write(1) // strobe high, continuously reload
	c.Write(0) // falling edge latches

	var bits [8]uint8
	for i := range bits {
		bits[i] = c.Read() & 1
	}

	assert.Equal(t, uint8(1), bits[0]) // A
	assert.Equal(t, uint8(0), bits[1]) // B
	assert.Equal(t, uint8(0), bits[2]) // Select
	assert.Equal(t, uint8(1), bits[3]) // Start
}

func TestReadPastEighthBitReturnsOne(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	assert.Equal(t, uint8(1), c.Read()&1)
}

func TestStrobeHighAlwaysReturnsA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)
	assert.Equal(t, uint8(1), c.Read()&1)
	assert.Equal(t, uint8(1), c.Read()&1)
	c.SetButton(ButtonA, false)
	assert.Equal(t, uint8(0), c.Read()&1)
}

func TestPortsOpenBusBit6(t *testing.T) {
	p := NewPorts()
	assert.NotZero(t, p.Read(0x4016)&0x40)
	assert.NotZero(t, p.Read(0x4017)&0x40)
}

func TestResetPreservesHeldButtons(t *testing.T) {
	c := New()
	c.SetButton(ButtonB, true)
	c.Reset()
	assert.True(t, c.IsPressed(ButtonB))
}
