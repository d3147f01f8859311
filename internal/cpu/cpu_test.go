package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64KB address space with independently controllable
// NMI/IRQ lines, used to drive the sequencer in isolation from the real
// bus/memory/cartridge wiring.
type testBus struct {
	mem      [0x10000]uint8
	nmiEdge  bool
	irqLevel bool
	oam      [256]uint8
	accesses []busAccess // every Read/Write, in order
}

type busAccess struct {
	addr  uint16
	write bool
	value uint8
}

func (b *testBus) Read(addr uint16) uint8 {
	b.accesses = append(b.accesses, busAccess{addr, false, b.mem[addr]})
	return b.mem[addr]
}
func (b *testBus) Write(addr uint16, value uint8) {
	b.accesses = append(b.accesses, busAccess{addr, true, value})
	b.mem[addr] = value
}
func (b *testBus) TakeNMIEdge() bool {
	v := b.nmiEdge
	b.nmiEdge = false
	return v
}
func (b *testBus) IRQAsserted() bool            { return b.irqLevel }
func (b *testBus) LoadOAMData(data *[256]uint8) { b.oam = *data }

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80
	c := New(bus)
	c.Reset()
	for c.cycleCounter > 0 {
		c.Tick()
	}
	return c, bus
}

// run executes whole instructions until n have retired.
func run(c *CPU, n int) {
	for i := 0; i < n; i++ {
		c.Tick()
		for c.pending != nil || c.cycleCounter > 0 {
			c.Tick()
		}
	}
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU()
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.True(t, c.I)
}

func TestLDAImmediateSetsZN(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0xA9 // LDA #$00
	bus.mem[0x8001] = 0x00
	run(c, 1)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.Z)
	assert.False(t, c.N)
}

func TestADCOverflow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x50
	c.C = false
	bus.mem[0x8000] = 0x69 // ADC #imm
	bus.mem[0x8001] = 0x50
	run(c, 1)
	assert.Equal(t, uint8(0xA0), c.A)
	assert.False(t, c.C)
	assert.True(t, c.V)
	assert.True(t, c.N)
	assert.False(t, c.Z)
}

func TestSBCUnderflow(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x50
	c.C = true
	bus.mem[0x8000] = 0xE9 // SBC #imm
	bus.mem[0x8001] = 0xB0
	run(c, 1)
	assert.Equal(t, uint8(0xA0), c.A)
	assert.False(t, c.C)
	assert.True(t, c.V)
	assert.True(t, c.N)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x6C // JMP ($10FF)
	bus.mem[0x8001] = 0xFF
	bus.mem[0x8002] = 0x10
	bus.mem[0x10FF] = 0x34
	bus.mem[0x1000] = 0x56 // wraps to $1000, not $1100
	bus.mem[0x1100] = 0x12
	run(c, 1)
	assert.Equal(t, uint16(0x5634), c.PC)
}

func TestBranchPageCrossCosts4Cycles(t *testing.T) {
	c, bus := newTestCPU()
	c.PC = 0x80FD
	c.Z = true
	bus.mem[0x80FD] = 0xF0 // BEQ +5
	bus.mem[0x80FE] = 0x05
	before := c.totalCycles
	c.Tick()
	for c.pending != nil || c.cycleCounter > 0 {
		c.Tick()
	}
	assert.Equal(t, uint64(4), c.totalCycles-before)
	assert.Equal(t, uint16(0x8104), c.PC)
}

func TestBRKPushesPCPlus2AndSetsB(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x00 // BRK
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x90
	run(c, 1)
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.I)

	status := bus.mem[c.StackAddress()+1]
	pcLo := bus.mem[c.StackAddress()+2]
	pcHi := bus.mem[c.StackAddress()+3]
	assert.Equal(t, uint8(0x80), pcHi)
	assert.Equal(t, uint8(0x02), pcLo)
	assert.NotZero(t, status&flagB)
}

func TestNMIHijacksPendingIRQ(t *testing.T) {
	c, bus := newTestCPU()
	c.I = false
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x90 // IRQ vector
	bus.mem[0xFFFA] = 0x00
	bus.mem[0xFFFB] = 0xA0 // NMI vector
	bus.irqLevel = true

	c.Tick() // begins the IRQ sequence
	require.True(t, c.irqVectorPending)

	// Assert NMI while the IRQ sequence is mid-flight; it must win the race.
	bus.nmiEdge = true
	for c.cycleCounter > 0 {
		c.Tick()
	}
	assert.Equal(t, uint16(0xA000), c.PC)
}

func TestOAMDMATiming(t *testing.T) {
	c, bus := newTestCPU()
	for i := 0; i < 256; i++ {
		bus.mem[0x0200+i] = uint8(i)
	}

	c.totalCycles = 10 // even
	c.cycleCounter = 0
	c.performOAMDMA(0x02)
	assert.Equal(t, 513, c.cycleCounter)
	assert.Equal(t, uint8(0x7F), bus.oam[0x7F])

	c.totalCycles = 11 // odd
	c.cycleCounter = 0
	c.performOAMDMA(0x02)
	assert.Equal(t, 514, c.cycleCounter)
}

func TestStackWraps(t *testing.T) {
	c, _ := newTestCPU()
	c.S = 0x00
	c.push(0xAB)
	assert.Equal(t, uint8(0xFF), c.S)
}

func TestPHPAlwaysSetsBit5AndB(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x08 // PHP
	run(c, 1)
	pushed := bus.mem[c.StackAddress()+1]
	assert.NotZero(t, pushed&flagU)
	assert.NotZero(t, pushed&flagB)
}

func TestPLARoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x42
	bus.mem[0x8000] = 0x48 // PHA
	bus.mem[0x8001] = 0xA9 // LDA #$00
	bus.mem[0x8002] = 0x00
	bus.mem[0x8003] = 0x68 // PLA
	run(c, 3)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x8000] = 0x20 // JSR $9000
	bus.mem[0x8001] = 0x00
	bus.mem[0x8002] = 0x90
	bus.mem[0x9000] = 0x60 // RTS
	run(c, 2)
	assert.Equal(t, uint16(0x8003), c.PC)
}

func TestRMWThreeBusAccesses(t *testing.T) {
	c, bus := newTestCPU()
	bus.mem[0x0010] = 0x7F
	bus.mem[0x8000] = 0xE6 // INC $10
	bus.mem[0x8001] = 0x10
	bus.accesses = nil
	run(c, 1)
	assert.Equal(t, uint8(0x80), bus.mem[0x0010])
	assert.True(t, c.N)

	var atTarget []busAccess
	for _, a := range bus.accesses {
		if a.addr == 0x0010 {
			atTarget = append(atTarget, a)
		}
	}
	// read, dummy-write of the old value, write of the new value
	assert.Equal(t, []busAccess{{0x0010, false, 0x7F}, {0x0010, true, 0x7F}, {0x0010, true, 0x80}}, atTarget)
}
