package cpu

// AddressingMode identifies one of the thirteen 6502 addressing modes.
type AddressingMode uint8

const (
	Implicit AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // (zp,X)
	IndirectY // (zp),Y
	Relative
)

const zeroPageMask = 0x00FF
const pageMask = 0xFF00

// accumulatorSentinel is returned by resolve for Accumulator mode so that
// ASL/LSR/ROL/ROR can tell "operate on A" apart from a real zero-page
// address $0000. $FFFF is also a valid memory address, so an Absolute or
// AbsoluteX operand that resolves to exactly $FFFF is indistinguishable
// from Accumulator mode and is treated as "operate on A".
const accumulatorSentinel uint16 = 0xFFFF

// resolve computes the effective address for mode, advancing PC past the
// instruction's operand bytes. isStore tells it which page-cross regime to
// use: read-class accesses only dummy-read and pay the extra cycle when a
// page is actually crossed; store-class accesses always do both, since the
// 6502 can't know ahead of the write whether the fixup was needed.
//
// It returns the effective address and whether the extra cycle must be
// charged. Implicit returns (0, false); Accumulator returns
// (accumulatorSentinel, false) so ASL/LSR/ROL/ROR can tell it apart from a
// real zero-page address.
func (c *CPU) resolve(mode AddressingMode, isStore bool) (uint16, bool) {
	switch mode {
	case Implicit:
		return 0, false

	case Accumulator:
		return accumulatorSentinel, false

	case Immediate:
		addr := c.PC
		c.IncPC(1)
		return addr, false

	case ZeroPage:
		addr := uint16(c.fetch())
		return addr, false

	case ZeroPageX:
		base := c.fetch()
		return uint16(base+c.X) & zeroPageMask, false

	case ZeroPageY:
		base := c.fetch()
		return uint16(base+c.Y) & zeroPageMask, false

	case Absolute:
		lo := uint16(c.fetch())
		hi := uint16(c.fetch())
		return hi<<8 | lo, false

	case AbsoluteX:
		lo := uint16(c.fetch())
		hi := uint16(c.fetch())
		base := hi<<8 | lo
		addr := base + uint16(c.X)
		return c.indexedAddress(base, addr, isStore)

	case AbsoluteY:
		lo := uint16(c.fetch())
		hi := uint16(c.fetch())
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return c.indexedAddress(base, addr, isStore)

	case Indirect: // JMP only
		lo := uint16(c.fetch())
		hi := uint16(c.fetch())
		ptr := hi<<8 | lo
		// Hardware bug: the high byte wraps within the same page instead of
		// carrying into the next one.
		hiAddr := ptr&pageMask | (ptr+1)&zeroPageMask
		rlo := uint16(c.bus.Read(ptr))
		rhi := uint16(c.bus.Read(hiAddr))
		return rhi<<8 | rlo, false

	case IndirectX:
		base := c.fetch()
		ptr := (base + c.X) & 0xFF
		lo := uint16(c.bus.Read(uint16(ptr)))
		hi := uint16(c.bus.Read(uint16((ptr + 1) & 0xFF)))
		return hi<<8 | lo, false

	case IndirectY:
		ptr := c.fetch()
		lo := uint16(c.bus.Read(uint16(ptr)))
		hi := uint16(c.bus.Read(uint16((ptr + 1) & 0xFF)))
		base := hi<<8 | lo
		addr := base + uint16(c.Y)
		return c.indexedAddress(base, addr, isStore)

	case Relative:
		offset := int8(c.fetch())
		base := c.PC
		target := uint16(int32(base) + int32(offset))
		return target, base&pageMask != target&pageMask

	default:
		return 0, false
	}
}

// indexedAddress applies the common AbsoluteX/AbsoluteY/IndirectY dummy-read
// and page-cross accounting described in spec.md §4.5.
func (c *CPU) indexedAddress(base, addr uint16, isStore bool) (uint16, bool) {
	crossed := base&pageMask != addr&pageMask
	if isStore || crossed {
		// Dummy read at the "wrong page" address: the high byte of the
		// uncrossed base combined with the low byte of the crossed result.
		wrong := base&pageMask | addr&zeroPageMask
		c.bus.Read(wrong)
	}
	return addr, isStore || crossed
}

// fetch reads the byte at PC and advances PC by one. Used by the resolver
// to pull operand bytes one at a time, matching the 6502's own fetch order.
func (c *CPU) fetch() uint8 {
	v := c.bus.Read(c.PC)
	c.IncPC(1)
	return v
}
