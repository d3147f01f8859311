// Package bus wires the CPU to RAM, the PPU and APU register windows,
// controller ports, and the cartridge, and implements the shared open-bus
// and interrupt-line semantics the spec requires of the system bus.
package bus

import (
	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

// Bus is the NES system bus the CPU talks to through the cpu.Bus
// interface. It owns RAM and the controller ports directly and delegates
// PPU/APU/cartridge regions to their own packages.
type Bus struct {
	ram   *memory.RAM
	ppu   *ppu.PPU
	apu   *apu.APU
	ports *input.Ports
	cart  *cartridge.Cartridge

	lastRead uint8

	nmiLine     bool // current physical NMI input level
	nmiPrevious bool // level on the previous poll, for edge detection
	nmiPending  bool // sticky latch, cleared by TakeNMIEdge

	mapperIRQ bool
}

func New(ppu *ppu.PPU, apu *apu.APU, ports *input.Ports) *Bus {
	return &Bus{
		ram:   memory.NewRAM(),
		ppu:   ppu,
		apu:   apu,
		ports: ports,
	}
}

// AttachCartridge plugs a parsed cartridge into the bus's $4020-$FFFF
// window. A nil cartridge leaves that window reading open bus.
func (b *Bus) AttachCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
}

// SetMapperIRQ lets the cartridge's mapper assert the shared IRQ line
// (unused by mapper 0, present so a future mapper needs no bus change).
func (b *Bus) SetMapperIRQ(asserted bool) {
	b.mapperIRQ = asserted
}

// Read performs a CPU-initiated read and updates the open-bus latch.
func (b *Bus) Read(address uint16) uint8 {
	value := b.read(address)
	b.lastRead = value
	return value
}

func (b *Bus) read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram.Read(address)
	case address < 0x4000:
		return b.ppu.ReadRegister(uint8(address))
	case address == 0x4015:
		return b.apu.ReadStatus()
	case address == 0x4016, address == 0x4017:
		return b.ports.Read(address)
	case address < 0x4018:
		return b.lastRead
	case address < 0x4020:
		return b.lastRead // APU/IO test mode, normally disabled
	case b.cart != nil:
		return b.cart.ReadPRG(address)
	default:
		return b.lastRead
	}
}

// Write performs a CPU-initiated write. $4014 (OAM DMA) is handled by the
// CPU package itself before reaching here, since triggering it stalls the
// CPU in a way the bus has no business knowing about.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram.Write(address, value)
	case address < 0x4000:
		b.ppu.WriteRegister(uint8(address), value)
	case address == 0x4016:
		b.ports.Write(address, value)
	case address >= 0x4000 && address < 0x4018 && address != 0x4016:
		b.apu.WriteRegister(address, value)
	case address >= 0x6000 && b.cart != nil:
		b.cart.WritePRG(address, value)
	}
}

// LoadOAMData services OAM DMA, forwarding the 256-byte page to the PPU.
func (b *Bus) LoadOAMData(data *[256]uint8) {
	b.ppu.LoadOAMData(data)
}

// SetNMILine sets the current physical level of the PPU's NMI output. The
// rising edge (false -> true) is what actually latches a pending NMI; a
// line held high generates only one request, matching real hardware and
// spec.md's edge-triggered requirement.
func (b *Bus) SetNMILine(level bool) {
	b.nmiLine = level
	if level && !b.nmiPrevious {
		b.nmiPending = true
	}
	b.nmiPrevious = level
}

// TakeNMIEdge reports and clears a latched NMI edge.
func (b *Bus) TakeNMIEdge() bool {
	v := b.nmiPending
	b.nmiPending = false
	return v
}

// IRQAsserted ORs together every maskable interrupt source: the APU frame
// sequencer, the APU DMC channel, and the cartridge mapper.
func (b *Bus) IRQAsserted() bool {
	return b.apu.IRQAsserted() || b.mapperIRQ
}

// Reset clears bus-local latch state. RAM contents are left as they are;
// the PPU and APU are reset independently by the caller.
func (b *Bus) Reset() {
	b.lastRead = 0
	b.nmiLine = false
	b.nmiPrevious = false
	b.nmiPending = false
}
