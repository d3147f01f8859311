// Package nescore implements a cycle-accurate 2A03/6502 CPU core for the
// Nintendo Entertainment System: the sequencer, addressing modes, official
// and unofficial instruction set, interrupt sequencing, OAM DMA, system
// bus, and an NROM-only cartridge loader. PPU pixel rendering and APU
// sample synthesis are out of scope; both packages exist here only to the
// extent the CPU core depends on their register and timing surface.
package nescore

import (
	"bytes"
	"errors"
	"log"

	"nescore/internal/apu"
	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/clock"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/ppu"
)

// ErrCartridgeLoaded is returned by LoadCartridge when a cartridge is
// already inserted; call UnloadCartridge first.
var ErrCartridgeLoaded = errors.New("nescore: a cartridge is already loaded")

// ErrNoCartridge is returned by PowerOn/Reset when no cartridge has been
// loaded yet.
var ErrNoCartridge = errors.New("nescore: no cartridge loaded")

// RunMode records the step granularity a debugger front-end has selected.
// Tick and RunFrame do not consult it; the front-end decides what to call.
type RunMode uint8

const (
	Paused RunMode = iota
	Running
	StepCycle
	StepInstruction
	StepFrame
)

// System is the assembled console: CPU, PPU/APU stubs, controller ports,
// bus, and an optional cartridge, all driven by one master clock divider.
type System struct {
	cpu   *cpu.CPU
	ppu   *ppu.PPU
	apu   *apu.APU
	ports *input.Ports
	bus   *bus.Bus
	clock *clock.Clock

	cart      *cartridge.Cartridge
	poweredOn bool
	mode      RunMode

	debug *log.Logger
}

// New assembles a System with no cartridge loaded and RunMode Paused.
func New() *System {
	p := ppu.New()
	a := apu.New()
	ports := input.NewPorts()
	b := bus.New(p, a, ports)
	c := cpu.New(b)

	s := &System{
		cpu:   c,
		ppu:   p,
		apu:   a,
		ports: ports,
		bus:   b,
		mode:  Paused,
	}
	s.clock = clock.New(tickerFunc(s.tickCPU), p, a)
	return s
}

// tickerFunc adapts a plain function to clock.Ticker.
type tickerFunc func()

func (f tickerFunc) Tick() { f() }

// tickCPU runs one CPU cycle and forwards the PPU's vblank NMI request to
// the bus's edge latch, since the PPU and bus packages don't know about
// each other.
func (s *System) tickCPU() {
	if s.ppu.TakeNMI() {
		s.bus.SetNMILine(true)
	} else {
		s.bus.SetNMILine(false)
	}
	s.cpu.Tick()
}

// SetDebugLog attaches a per-instruction trace logger to the CPU.
func (s *System) SetDebugLog(l *log.Logger) {
	s.cpu.SetDebugLog(l)
}

// LoadCartridge parses an iNES image and attaches it to the bus. It
// refuses to replace an already-loaded cartridge; call UnloadCartridge
// first.
func (s *System) LoadCartridge(data []byte) error {
	if s.cart != nil {
		return ErrCartridgeLoaded
	}
	cart, err := cartridge.Load(bytes.NewReader(data))
	if err != nil {
		return err
	}
	s.cart = cart
	s.bus.AttachCartridge(cart)
	s.ppu.AttachCartridge(cart)
	return nil
}

// UnloadCartridge detaches the current cartridge, if any, and powers the
// system off.
func (s *System) UnloadCartridge() {
	s.cart = nil
	s.bus.AttachCartridge(nil)
	s.ppu.AttachCartridge(nil)
	s.poweredOn = false
}

// PowerOn resets every component to its power-on state. Requires a
// cartridge to already be loaded, since the CPU's reset vector comes from
// cartridge PRG ROM.
func (s *System) PowerOn() error {
	if s.cart == nil {
		return ErrNoCartridge
	}
	s.bus.Reset()
	s.ppu.Reset()
	s.apu.Reset()
	s.ports.Reset()
	s.cpu.Reset()
	s.poweredOn = true
	return nil
}

// Reset performs a soft reset: unlike PowerOn, controller state and PPU
// frame position are left alone, matching the real console's reset button.
func (s *System) Reset() error {
	if s.cart == nil {
		return ErrNoCartridge
	}
	s.cpu.Reset()
	s.poweredOn = true
	return nil
}

// IsPoweredOn reports whether PowerOn or Reset has run since the last
// UnloadCartridge.
func (s *System) IsPoweredOn() bool {
	return s.poweredOn
}

// RunMode returns the current run mode.
func (s *System) RunMode() RunMode {
	return s.mode
}

// SetRunMode stores mode; it does not change what Tick or RunFrame do.
func (s *System) SetRunMode(mode RunMode) {
	s.mode = mode
}

// Tick advances the master clock by one tick, driving the CPU, PPU, and
// APU at their respective divided rates.
func (s *System) Tick() {
	s.clock.Tick()
}

// RunFrame advances the system until one full PPU frame has completed.
// Callers using StepFrame mode should call this once per iteration rather
// than looping on Tick themselves.
func (s *System) RunFrame() {
	target := s.ppu.Frame() + 1
	for s.ppu.Frame() < target {
		s.Tick()
	}
}

// CPUHalted reports whether the CPU has executed a JAM/KIL opcode.
func (s *System) CPUHalted() bool {
	return s.cpu.Halted()
}

// Registers exposes the CPU's programmer-visible state for a debugger
// front-end. The returned value is a snapshot, not a live view.
func (s *System) Registers() cpu.Registers {
	return s.cpu.Registers
}

// Ports exposes the controller ports so a front-end can set button state.
func (s *System) Ports() *input.Ports {
	return s.ports
}

// FrameBuffer exposes the PPU's placeholder per-frame pixel buffer.
func (s *System) FrameBuffer() *[ppu.FrameWidth * ppu.FrameHeight]uint8 {
	return s.ppu.FrameBuffer()
}
