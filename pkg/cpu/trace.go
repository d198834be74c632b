package cpu

import (
	"fmt"
	"strings"

	"github.com/nesgo/nesgo/pkg/cpuinst"
)

// formatTrace renders the canonical nestest-style trace line for one
// instruction about to execute, per spec.md §6. pc is the pre-fetch
// program counter (the PPPP column); desc/op are the already-decoded
// opcode and operand. Grounded on original_source/src/trace.rs.
func (c *CPU) formatTrace(pc uint16, desc *cpuinst.Descriptor, op Operand) string {
	hexBytes := []uint8{c.Bus.Read(pc)}
	for i := uint8(1); i < desc.Length; i++ {
		hexBytes = append(hexBytes, c.Bus.Read(pc+uint16(i)))
	}

	hexParts := make([]string, len(hexBytes))
	for i, b := range hexBytes {
		hexParts[i] = fmt.Sprintf("%02X", b)
	}
	hexStr := strings.Join(hexParts, " ")

	operandStr := c.traceOperandString(pc, desc, op)

	asm := fmt.Sprintf("%04X  %-9s %-4s%s", pc, hexStr, desc.Mnemonic, operandStr)
	asm = strings.TrimRight(asm, " ")

	return fmt.Sprintf("%-47s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		asm, c.A, c.X, c.Y, c.Status, c.SP)
}

// traceOperandString renders the disassembly operand column, matching the
// per-addressing-mode formats in original_source/src/trace.rs exactly
// (including its Accumulator "A" marker and its bracketed memory-access
// annotations for indexed/indirect modes).
func (c *CPU) traceOperandString(pc uint16, desc *cpuinst.Descriptor, op Operand) string {
	switch desc.Mode {
	case cpuinst.Implied:
		return ""
	case cpuinst.Accumulator:
		return "A"
	case cpuinst.Immediate:
		return fmt.Sprintf("#$%02X", c.Bus.Read(pc+1))

	case cpuinst.ZeroPage:
		return fmt.Sprintf("$%02X = %02X", op.Addr, c.Bus.Read(op.Addr))
	case cpuinst.ZeroPageX:
		raw := c.Bus.Read(pc + 1)
		return fmt.Sprintf("$%02X,X @ %02X = %02X", raw, op.Addr, c.Bus.Read(op.Addr))
	case cpuinst.ZeroPageY:
		raw := c.Bus.Read(pc + 1)
		return fmt.Sprintf("$%02X,Y @ %02X = %02X", raw, op.Addr, c.Bus.Read(op.Addr))

	case cpuinst.IndirectX:
		raw := c.Bus.Read(pc + 1)
		ptr := raw + c.X
		return fmt.Sprintf("($%02X,X) @ %02X = %04X = %02X", raw, ptr, op.Addr, c.Bus.Read(op.Addr))
	case cpuinst.IndirectY:
		raw := c.Bus.Read(pc + 1)
		base := op.Addr - uint16(c.Y)
		return fmt.Sprintf("($%02X),Y = %04X @ %04X = %02X", raw, base, op.Addr, c.Bus.Read(op.Addr))

	case cpuinst.Relative:
		return fmt.Sprintf("$%04X", op.Addr)

	case cpuinst.Indirect:
		ptr := c.readAbs(pc + 1)
		return fmt.Sprintf("($%04X) = %04X", ptr, op.Addr)

	case cpuinst.Absolute:
		if desc.Op == cpuinst.OpJMP || desc.Op == cpuinst.OpJSR {
			return fmt.Sprintf("$%04X", op.Addr)
		}
		return fmt.Sprintf("$%04X = %02X", op.Addr, c.Bus.Read(op.Addr))
	case cpuinst.AbsoluteX:
		raw := c.readAbs(pc + 1)
		return fmt.Sprintf("$%04X,X @ %04X = %02X", raw, op.Addr, c.Bus.Read(op.Addr))
	case cpuinst.AbsoluteY:
		raw := c.readAbs(pc + 1)
		return fmt.Sprintf("$%04X,Y @ %04X = %02X", raw, op.Addr, c.Bus.Read(op.Addr))
	}

	return ""
}
