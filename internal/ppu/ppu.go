// Package ppu provides the minimal 2C02 register and timing surface the
// CPU core needs to drive vblank NMI and OAM DMA correctly. It is
// explicitly not a pixel renderer: no sprite evaluation, no background
// fetch pipeline, no framebuffer compositing. It still runs a real
// scanline/dot counter so vblank timing and PPUSTATUS reads behave like
// hardware, and its $2007 (PPUDATA) path is backed by real nametable,
// palette, and cartridge CHR storage rather than a stub, since spec.md §3
// lists that VRAM as its own memory region object.
package ppu

import (
	"nescore/internal/cartridge"
	"nescore/internal/memory"
)

const (
	dotsPerScanline     = 341
	scanlinesPerFrame   = 262
	visibleScanlines    = 240
	postRenderScanline  = 240
	vblankStartScanline = 241
	preRenderScanline   = 261

	FrameWidth  = 256
	FrameHeight = 240
)

// CHR is what the PPU needs from an attached cartridge: pattern-table
// storage and the nametable mirroring its wiring selects. *cartridge.Cartridge
// satisfies it without either package importing the other's concrete type.
type CHR interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	MirrorMode() cartridge.MirrorMode
}

// PPU tracks register state and scanline/dot position. Registers not
// needed to drive CPU-visible timing (scroll, fine-x) are kept only
// insofar as writing them must not panic or corrupt other state.
type PPU struct {
	scanline int
	dot      int
	frame    uint64

	ctrl   uint8 // $2000
	mask   uint8 // $2001
	status uint8 // $2002

	oam *memory.OAM

	nametables *memory.Nametable
	palette    *memory.Palette
	cart       CHR

	addrLatch     bool
	addrLatchHigh uint8
	vramAddr      uint16
	vramBuffer    uint8

	nmiPending bool // rising-edge NMI request surfaced to the bus

	frameBuffer [FrameWidth * FrameHeight]uint8
}

func New() *PPU {
	return &PPU{
		oam:        memory.NewOAM(),
		nametables: memory.NewNametable(),
		palette:    memory.NewPalette(),
	}
}

// AttachCartridge wires the cartridge's CHR storage and mirroring mode into
// the PPUDATA address space. Passing nil detaches it (UnloadCartridge).
func (p *PPU) AttachCartridge(cart CHR) {
	p.cart = cart
}

func (p *PPU) Reset() {
	p.scanline = 0
	p.dot = 0
	p.frame = 0
	p.ctrl = 0
	p.mask = 0
	p.addrLatch = false
	p.nmiPending = false
}

// Tick advances the PPU by one PPU dot (the caller's clock divider runs
// this at 1/4 of the master clock rate, 3x the CPU rate).
func (p *PPU) Tick() {
	p.dot++
	if p.dot >= dotsPerScanline {
		p.dot = 0
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frame++
		}
	}

	switch {
	case p.scanline == vblankStartScanline && p.dot == 1:
		p.status |= 0x80
		if p.ctrl&0x80 != 0 {
			p.nmiPending = true
		}
	case p.scanline == preRenderScanline && p.dot == 1:
		p.status &^= 0x80
		p.status &^= 0x40 // sprite 0 hit
		p.status &^= 0x20 // sprite overflow
	}
}

// TakeNMI reports and clears a pending vblank NMI request.
func (p *PPU) TakeNMI() bool {
	v := p.nmiPending
	p.nmiPending = false
	return v
}

// InVBlank reports whether the PPU is currently in its vertical blank
// period, independent of whether PPUSTATUS has been read (and thus
// cleared) this frame.
func (p *PPU) InVBlank() bool {
	return p.scanline >= vblankStartScanline
}

// Frame returns the number of frames completed since power-on/reset.
func (p *PPU) Frame() uint64 {
	return p.frame
}

// FrameBuffer exposes the placeholder per-pixel buffer an outer shell can
// paint; it is not populated by real pixel rendering.
func (p *PPU) FrameBuffer() *[FrameWidth * FrameHeight]uint8 {
	return &p.frameBuffer
}

// addrIncrement returns the PPUCTRL-selected VRAM address step: 1 across a
// row, 32 down a column.
func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

// mirrorMode reports the attached cartridge's nametable wiring, defaulting
// to horizontal (as if no cartridge were present) rather than panicking.
func (p *PPU) mirrorMode() cartridge.MirrorMode {
	if p.cart == nil {
		return cartridge.MirrorHorizontal
	}
	return p.cart.MirrorMode()
}

// readVRAM dispatches a $0000-$3FFF PPU-bus read across pattern tables
// (cartridge CHR), nametable RAM, and palette RAM, per spec.md §3's VRAM
// region split.
func (p *PPU) readVRAM(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if p.cart == nil {
			return 0
		}
		return p.cart.ReadCHR(address)
	case address < 0x3F00:
		return p.nametables.Read(address, p.mirrorMode())
	default:
		return p.palette.Read(address)
	}
}

func (p *PPU) writeVRAM(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		if p.cart != nil {
			p.cart.WriteCHR(address, value)
		}
	case address < 0x3F00:
		p.nametables.Write(address, value, p.mirrorMode())
	default:
		p.palette.Write(address, value)
	}
}

// ReadRegister handles a CPU read of one of the eight PPU registers
// mirrored across $2000-$3FFF.
func (p *PPU) ReadRegister(reg uint8) uint8 {
	switch reg & 7 {
	case 2: // PPUSTATUS
		v := p.status
		p.status &^= 0x80
		p.addrLatch = false
		return v
	case 4: // OAMDATA
		return p.oam.ReadData()
	case 7: // PPUDATA
		addr := p.vramAddr & 0x3FFF
		var value uint8
		if addr >= 0x3F00 {
			// Palette reads bypass the read buffer; the buffer instead
			// picks up the nametable byte that would mirror underneath.
			value = p.readVRAM(addr)
			p.vramBuffer = p.readVRAM(addr - 0x1000)
		} else {
			value = p.vramBuffer
			p.vramBuffer = p.readVRAM(addr)
		}
		p.vramAddr += p.addrIncrement()
		return value
	default:
		return 0
	}
}

// WriteRegister handles a CPU write to one of the eight PPU registers.
func (p *PPU) WriteRegister(reg uint8, value uint8) {
	switch reg & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oam.SetAddress(value)
	case 4: // OAMDATA
		p.oam.WriteData(value)
	case 5: // PPUSCROLL: shares the $2006 write latch, no scroll state kept
		p.addrLatch = !p.addrLatch
	case 6: // PPUADDR
		if !p.addrLatch {
			p.addrLatchHigh = value
			p.addrLatch = true
		} else {
			p.vramAddr = uint16(p.addrLatchHigh)<<8 | uint16(value)
			p.addrLatch = false
		}
	case 7: // PPUDATA
		p.writeVRAM(p.vramAddr&0x3FFF, value)
		p.vramAddr += p.addrIncrement()
	}
}

// LoadOAMData services $4014 OAM DMA, starting at the current OAMADDR.
func (p *PPU) LoadOAMData(data *[256]uint8) {
	p.oam.DMAWrite(data)
}
