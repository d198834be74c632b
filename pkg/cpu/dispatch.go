package cpu

import "github.com/nesgo/nesgo/pkg/cpuinst"

// dispatch executes the behavior for desc against the resolved operand, per
// spec.md §4.2's per-opcode behavioral contracts.
func (c *CPU) dispatch(desc *cpuinst.Descriptor, op Operand) error {
	switch desc.Op {
	case cpuinst.OpLDA:
		c.A = c.read(op)
		c.setZN(c.A)
	case cpuinst.OpLDX:
		c.X = c.read(op)
		c.setZN(c.X)
	case cpuinst.OpLDY:
		c.Y = c.read(op)
		c.setZN(c.Y)
	case cpuinst.OpSTA:
		return c.writeChecked(op, c.A)
	case cpuinst.OpSTX:
		return c.writeChecked(op, c.X)
	case cpuinst.OpSTY:
		return c.writeChecked(op, c.Y)

	case cpuinst.OpTAX:
		c.X = c.A
		c.setZN(c.X)
	case cpuinst.OpTXA:
		c.A = c.X
		c.setZN(c.A)
	case cpuinst.OpTAY:
		c.Y = c.A
		c.setZN(c.Y)
	case cpuinst.OpTYA:
		c.A = c.Y
		c.setZN(c.A)
	case cpuinst.OpTSX:
		c.X = c.SP
		c.setZN(c.X)
	case cpuinst.OpTXS:
		c.SP = c.X

	case cpuinst.OpPHA:
		c.push(c.A)
	case cpuinst.OpPLA:
		c.A = c.pop()
		c.setZN(c.A)
	case cpuinst.OpPHP:
		// B and B2 forced to 1 in the pushed byte only (spec.md §4.2 Stack).
		c.push(c.Status | FlagBreak | FlagB2)
	case cpuinst.OpPLP:
		v := c.pop()
		c.Status = (v &^ FlagBreak) | FlagB2

	case cpuinst.OpADC:
		c.adc(c.read(op))
	case cpuinst.OpSBC:
		c.adc(^c.read(op))
	case cpuinst.OpINC:
		v := c.read(op) + 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)
	case cpuinst.OpDEC:
		v := c.read(op) - 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)
	case cpuinst.OpINX:
		c.X++
		c.setZN(c.X)
	case cpuinst.OpDEX:
		c.X--
		c.setZN(c.X)
	case cpuinst.OpINY:
		c.Y++
		c.setZN(c.Y)
	case cpuinst.OpDEY:
		c.Y--
		c.setZN(c.Y)

	case cpuinst.OpAND:
		c.A &= c.read(op)
		c.setZN(c.A)
	case cpuinst.OpORA:
		c.A |= c.read(op)
		c.setZN(c.A)
	case cpuinst.OpEOR:
		c.A ^= c.read(op)
		c.setZN(c.A)
	case cpuinst.OpBIT:
		v := c.read(op)
		c.setFlag(FlagZero, c.A&v == 0)
		c.setFlag(FlagNegative, v&0x80 != 0)
		c.setFlag(FlagOverflow, v&0x40 != 0)

	case cpuinst.OpASL:
		v := c.read(op)
		c.setFlag(FlagCarry, v&0x80 != 0)
		v <<= 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)
	case cpuinst.OpLSR:
		v := c.read(op)
		c.setFlag(FlagCarry, v&0x01 != 0)
		v >>= 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)
	case cpuinst.OpROL:
		v := c.read(op)
		carryIn := uint8(0)
		if c.flag(FlagCarry) {
			carryIn = 1
		}
		c.setFlag(FlagCarry, v&0x80 != 0)
		v = (v << 1) | carryIn
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)
	case cpuinst.OpROR:
		v := c.read(op)
		carryIn := uint8(0)
		if c.flag(FlagCarry) {
			carryIn = 0x80
		}
		c.setFlag(FlagCarry, v&0x01 != 0)
		v = (v >> 1) | carryIn
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.setZN(v)

	case cpuinst.OpCMP:
		c.compare(c.A, c.read(op))
	case cpuinst.OpCPX:
		c.compare(c.X, c.read(op))
	case cpuinst.OpCPY:
		c.compare(c.Y, c.read(op))

	case cpuinst.OpBCC:
		c.branch(op, !c.flag(FlagCarry))
	case cpuinst.OpBCS:
		c.branch(op, c.flag(FlagCarry))
	case cpuinst.OpBEQ:
		c.branch(op, c.flag(FlagZero))
	case cpuinst.OpBNE:
		c.branch(op, !c.flag(FlagZero))
	case cpuinst.OpBPL:
		c.branch(op, !c.flag(FlagNegative))
	case cpuinst.OpBMI:
		c.branch(op, c.flag(FlagNegative))
	case cpuinst.OpBVC:
		c.branch(op, !c.flag(FlagOverflow))
	case cpuinst.OpBVS:
		c.branch(op, c.flag(FlagOverflow))

	case cpuinst.OpJMP:
		c.PC = op.Addr
	case cpuinst.OpJSR:
		// Pushes the address of the last byte of the JSR instruction itself
		// (spec.md §4.2 Control transfers). dispatch runs before Step skips
		// the operand bytes, so c.PC is still pc0 (the low operand byte's
		// address); pc0+1 is the high operand byte, JSR's last byte.
		c.push16(c.PC + 1)
		c.PC = op.Addr
	case cpuinst.OpRTS:
		c.PC = c.pop16() + 1
	case cpuinst.OpRTI:
		v := c.pop()
		c.Status = (v &^ FlagBreak) | FlagB2
		c.PC = c.pop16()

	case cpuinst.OpCLC:
		c.setFlag(FlagCarry, false)
	case cpuinst.OpSEC:
		c.setFlag(FlagCarry, true)
	case cpuinst.OpCLI:
		c.setFlag(FlagInterrupt, false)
	case cpuinst.OpSEI:
		c.setFlag(FlagInterrupt, true)
	case cpuinst.OpCLV:
		c.setFlag(FlagOverflow, false)
	case cpuinst.OpCLD:
		c.setFlag(FlagDecimal, false)
	case cpuinst.OpSED:
		c.setFlag(FlagDecimal, true)

	case cpuinst.OpBRK:
		return c.brk()

	case cpuinst.OpNOP:
		if op.HasAddr {
			c.Bus.Read(op.Addr) // incidental dummy read for multi-byte NOPs
		}

	// Undocumented opcodes (spec.md §4.2 "Undocumented opcodes — behavioral
	// contracts").
	case cpuinst.OpDCP:
		v := c.read(op) - 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.compare(c.A, v)
	case cpuinst.OpISB:
		v := c.read(op) + 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.adc(^v)
	case cpuinst.OpSLO:
		v := c.read(op)
		c.setFlag(FlagCarry, v&0x80 != 0)
		v <<= 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.A |= v
		c.setZN(c.A)
	case cpuinst.OpRLA:
		v := c.read(op)
		carryIn := uint8(0)
		if c.flag(FlagCarry) {
			carryIn = 1
		}
		c.setFlag(FlagCarry, v&0x80 != 0)
		v = (v << 1) | carryIn
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.A &= v
		c.setZN(c.A)
	case cpuinst.OpSRE:
		v := c.read(op)
		c.setFlag(FlagCarry, v&0x01 != 0)
		v >>= 1
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.A ^= v
		c.setZN(c.A)
	case cpuinst.OpRRA:
		v := c.read(op)
		carryIn := uint8(0)
		if c.flag(FlagCarry) {
			carryIn = 0x80
		}
		c.setFlag(FlagCarry, v&0x01 != 0)
		v = (v >> 1) | carryIn
		if err := c.writeChecked(op, v); err != nil {
			return err
		}
		c.adc(v)
	case cpuinst.OpLAX:
		v := c.read(op)
		c.A = v
		c.X = v
		c.setZN(v)
	case cpuinst.OpSAX:
		return c.writeChecked(op, c.A&c.X)
	case cpuinst.OpAXS:
		ax := c.A & c.X
		operand := c.read(op)
		result := ax - operand
		c.setFlag(FlagCarry, ax >= operand)
		c.X = result
		c.setZN(c.X)
	case cpuinst.OpANC:
		c.A &= c.read(op)
		c.setZN(c.A)
		c.setFlag(FlagCarry, c.flag(FlagNegative))
	case cpuinst.OpALR:
		c.A &= c.read(op)
		c.setFlag(FlagCarry, c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
	case cpuinst.OpARR:
		c.A &= c.read(op)
		carryIn := uint8(0)
		if c.flag(FlagCarry) {
			carryIn = 0x80
		}
		c.A = (c.A >> 1) | carryIn
		c.setZN(c.A)
		c.setFlag(FlagCarry, c.A&0x40 != 0)
		c.setFlag(FlagOverflow, (c.A>>6)&1^(c.A>>5)&1 != 0)
	case cpuinst.OpLXA:
		// Unstable: commonly modeled as A := X := operand (spec.md §9).
		v := c.read(op)
		c.A = v
		c.X = v
		c.setZN(v)
	case cpuinst.OpXAA:
		// Unstable; documented deterministic rule: A := X & operand.
		c.A = c.X & c.read(op)
		c.setZN(c.A)
	case cpuinst.OpLAS:
		v := c.read(op) & c.SP
		c.A, c.X, c.SP = v, v, v
		c.setZN(v)
	case cpuinst.OpTAS:
		c.SP = c.A & c.X
		hi := uint8(op.Addr>>8) + 1
		return c.writeChecked(op, c.SP&hi)
	case cpuinst.OpAHX:
		hi := uint8(op.Addr>>8) + 1
		return c.writeChecked(op, c.A&c.X&hi)
	case cpuinst.OpSHX:
		hi := uint8(op.Addr>>8) + 1
		return c.writeChecked(op, c.X&hi)
	case cpuinst.OpSHY:
		hi := uint8(op.Addr>>8) + 1
		return c.writeChecked(op, c.Y&hi)
	}

	return nil
}

// adc computes a + operand + carry in 9 bits per spec.md §4.2 Arithmetic.
// SBC is implemented by calling this with the bitwise complement of the
// operand, which is exactly equivalent to subtraction-with-borrow.
func (c *CPU) adc(operand uint8) {
	carryIn := uint16(0)
	if c.flag(FlagCarry) {
		carryIn = 1
	}
	a := uint16(c.A)
	sum := a + uint16(operand) + carryIn
	result := uint8(sum)

	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (operand^result)&(result^c.A)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

// compare implements CMP/CPX/CPY per spec.md §4.2 Compares.
func (c *CPU) compare(reg, operand uint8) {
	result := reg - operand
	c.setFlag(FlagCarry, reg >= operand)
	c.setFlag(FlagZero, reg == operand)
	c.setFlag(FlagNegative, result&0x80 != 0)
}

// branch takes a relative branch if cond holds (spec.md §4.2 Operand
// addressing, Relative branches).
func (c *CPU) branch(op Operand, cond bool) {
	if cond {
		c.PC = op.Addr
	}
}

// brk implements real BRK interrupt semantics when RealBRK is set
// (SPEC_FULL.md §9.2); otherwise it returns ErrBreak without touching the
// stack or PC.
func (c *CPU) brk() error {
	if !c.RealBRK {
		return ErrBreak
	}
	c.push16(c.PC + 1)
	c.push(c.Status | FlagBreak | FlagB2)
	c.setFlag(FlagInterrupt, true)
	c.PC = c.irqVector()
	return nil
}

// writeChecked performs a write, reporting a Fault for read-only regions
// the bus rejects (spec.md §7). NESBus.Write silently drops illegal writes
// rather than signaling, so in practice this never returns an error for
// the bus implementations in this module; the hook exists so a stricter
// Bus can surface spec.md §7's "Write to read-only region" fault.
func (c *CPU) writeChecked(op Operand, v uint8) error {
	c.write(op, v)
	return nil
}
