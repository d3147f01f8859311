// Package clock implements the master-clock divider that keeps the CPU,
// PPU, and APU in lockstep the way the real 2A03/2C02 pair is, despite
// running at different effective rates off the same crystal.
package clock

// Ticker is anything driven directly by the master clock divider.
type Ticker interface {
	Tick()
}

// Clock divides an NTSC master clock tick stream: the CPU runs at 1/12 the
// master rate, the PPU at 1/4 (three PPU dots per CPU cycle), matching the
// real NTSC NES's 21.477MHz crystal divided by 12 and by 4 respectively.
type Clock struct {
	cpu Ticker
	ppu Ticker
	apu Ticker

	master uint64
}

func New(cpu, ppu, apu Ticker) *Clock {
	return &Clock{cpu: cpu, ppu: ppu, apu: apu}
}

// Tick advances the master clock by one tick, driving the CPU, PPU, and
// APU whenever their divider boundary is reached.
func (c *Clock) Tick() {
	if c.master%4 == 0 {
		c.ppu.Tick()
	}
	if c.master%12 == 0 {
		c.cpu.Tick()
		c.apu.Tick()
	}
	c.master++
}

// MasterCycles returns the number of master-clock ticks elapsed.
func (c *Clock) MasterCycles() uint64 {
	return c.master
}
