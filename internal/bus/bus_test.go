package bus

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	b := New(ppu.New(), apu.New(), input.NewPorts())
	rom := make([]byte, 16+16384)
	copy(rom[0:4], []byte("NES\x1A"))
	rom[4] = 1 // 16KB PRG
	rom[5] = 0 // CHR RAM
	cart, err := cartridge.Load(bytes.NewReader(rom))
	require.NoError(t, err)
	b.AttachCartridge(cart)
	return b
}

func TestRAMMirroredOnBus(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x77)
	assert.Equal(t, uint8(0x77), b.Read(0x0800))
}

func TestNMIOnlyLatchesOnRisingEdge(t *testing.T) {
	b := newTestBus(t)
	b.SetNMILine(true)
	assert.True(t, b.TakeNMIEdge())
	assert.False(t, b.TakeNMIEdge())

	// Holding the line high generates no second edge.
	b.SetNMILine(true)
	assert.False(t, b.TakeNMIEdge())

	b.SetNMILine(false)
	b.SetNMILine(true)
	assert.True(t, b.TakeNMIEdge())
}

func TestIRQAssertedORsMapperAndAPU(t *testing.T) {
	b := newTestBus(t)
	assert.False(t, b.IRQAsserted())
	b.SetMapperIRQ(true)
	assert.True(t, b.IRQAsserted())
}

func TestOpenBusLatchesLastRead(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x99)
	b.Read(0x0000)
	assert.Equal(t, uint8(0x99), b.Read(0x4018)) // disabled test-mode region
}

func TestControllerPortRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.ports.Controller1.SetButton(input.ButtonA, true)
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	assert.Equal(t, uint8(1), b.Read(0x4016)&1)
}
