package cpu

import "github.com/nesgo/nesgo/pkg/cpuinst"

// Operand is the decoded operand location for one instruction. For
// Implied/Accumulator there is no addressable location; HasAddr is false
// and the opcode operates directly on registers.
type Operand struct {
	Addr    uint16
	HasAddr bool
}

// resolveOperand derives the operand address for desc's addressing mode,
// per spec.md §4.2 "Operand addressing". c.PC points at the first operand
// byte (pc0) on entry and is left unmodified here; Step advances it past
// the operand afterward unless the opcode itself redirected PC.
func (c *CPU) resolveOperand(desc *cpuinst.Descriptor) Operand {
	pc := c.PC

	switch desc.Mode {
	case cpuinst.Implied, cpuinst.Accumulator:
		return Operand{HasAddr: false}

	case cpuinst.Immediate:
		return Operand{Addr: pc, HasAddr: true}

	case cpuinst.ZeroPage:
		return Operand{Addr: uint16(c.Bus.Read(pc)), HasAddr: true}

	case cpuinst.ZeroPageX:
		base := c.Bus.Read(pc)
		return Operand{Addr: uint16(base + c.X), HasAddr: true} // 8-bit wrap

	case cpuinst.ZeroPageY:
		base := c.Bus.Read(pc)
		return Operand{Addr: uint16(base + c.Y), HasAddr: true} // 8-bit wrap

	case cpuinst.Absolute:
		return Operand{Addr: c.readAbs(pc), HasAddr: true}

	case cpuinst.AbsoluteX:
		return Operand{Addr: c.readAbs(pc) + uint16(c.X), HasAddr: true}

	case cpuinst.AbsoluteY:
		return Operand{Addr: c.readAbs(pc) + uint16(c.Y), HasAddr: true}

	case cpuinst.Indirect:
		ptr := c.readAbs(pc)
		return Operand{Addr: c.readIndirectBug(ptr), HasAddr: true}

	case cpuinst.IndirectX:
		base := c.Bus.Read(pc) + c.X // 8-bit wrap
		lo := uint16(c.Bus.Read(uint16(base)))
		hi := uint16(c.Bus.Read(uint16(base + 1))) // high byte also wraps in 8 bits
		return Operand{Addr: hi<<8 | lo, HasAddr: true}

	case cpuinst.IndirectY:
		base := c.Bus.Read(pc)
		lo := uint16(c.Bus.Read(uint16(base)))
		hi := uint16(c.Bus.Read(uint16(base + 1))) // 8-bit wrap on second byte
		ptr := hi<<8 | lo
		return Operand{Addr: ptr + uint16(c.Y), HasAddr: true}

	case cpuinst.Relative:
		offset := int8(c.Bus.Read(pc))
		target := pc + 1 + uint16(offset)
		return Operand{Addr: target, HasAddr: true}
	}

	return Operand{HasAddr: false}
}

func (c *CPU) readAbs(addr uint16) uint16 {
	lo := uint16(c.Bus.Read(addr))
	hi := uint16(c.Bus.Read(addr + 1))
	return hi<<8 | lo
}

// readIndirectBug implements the JMP ($xxFF) hardware bug (spec.md §4.2):
// if the pointer's low byte is $FF, the high byte is fetched from the same
// page's byte $00 instead of crossing into the next page.
func (c *CPU) readIndirectBug(ptr uint16) uint16 {
	lo := uint16(c.Bus.Read(ptr))
	var hi uint16
	if ptr&0x00FF == 0x00FF {
		hi = uint16(c.Bus.Read(ptr & 0xFF00))
	} else {
		hi = uint16(c.Bus.Read(ptr + 1))
	}
	return hi<<8 | lo
}

// read loads the 8-bit value at an operand's location.
func (c *CPU) read(op Operand) uint8 {
	if !op.HasAddr {
		return c.A
	}
	return c.Bus.Read(op.Addr)
}

// write stores an 8-bit value to an operand's location, or to A for the
// Accumulator addressing mode.
func (c *CPU) write(op Operand, v uint8) {
	if !op.HasAddr {
		c.A = v
		return
	}
	c.Bus.Write(op.Addr, v)
}
