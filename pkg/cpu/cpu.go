// Package cpu implements the MOS 6502-derived CPU core: registers, status
// flags, the addressing-mode decoder, the opcode dispatcher, and reset/NMI/
// BRK handling, per spec §3 and §4.2.
//
// The CPU owns no memory of its own beyond its registers; all reads and
// writes go through the Bus it is attached to.
package cpu

import (
	"fmt"

	"github.com/nesgo/nesgo/pkg/cpuinst"
)

// Status flag bits (spec.md §3).
const (
	FlagCarry     uint8 = 1 << 0
	FlagZero      uint8 = 1 << 1
	FlagInterrupt uint8 = 1 << 2
	FlagDecimal   uint8 = 1 << 3
	FlagBreak     uint8 = 1 << 4
	FlagB2        uint8 = 1 << 5 // always read as 1 when pushed
	FlagOverflow  uint8 = 1 << 6
	FlagNegative  uint8 = 1 << 7
)

const (
	stackBase         = 0x0100
	nmiVectorLo       = 0xFFFA
	resetVectorLo     = 0xFFFC
	irqVectorLo       = 0xFFFE
	resetStatus       = FlagInterrupt | FlagB2
	resetStackPointer = 0xFD
)

// Bus is everything the CPU needs from the rest of the system.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)

	// ReportCycles tells the bus how many CPU cycles the last instruction
	// consumed, so it can advance the PPU (spec.md §4.3: bus multiplies by
	// three and advances PPU).
	ReportCycles(n uint8)

	// PollNMI returns true exactly once per PPU-raised NMI request and
	// clears the pending signal (spec.md §3 "nmi_pending").
	PollNMI() bool
}

// FaultKind distinguishes the deterministic-bug error categories of
// spec.md §7.
type FaultKind int

const (
	FaultUnimplementedOpcode FaultKind = iota
	FaultIllegalWrite
)

// Fault is a deterministic emulation error: an unrecognized opcode or a
// write to a read-only region. Grounded on jmchacon-6502's typed
// InvalidCPUState/HaltOpcode errors.
type Fault struct {
	Kind FaultKind
	PC   uint16
	Byte uint8
}

func (f *Fault) Error() string {
	switch f.Kind {
	case FaultUnimplementedOpcode:
		return fmt.Sprintf("cpu: unrecognized opcode $%02X at $%04X", f.Byte, f.PC)
	case FaultIllegalWrite:
		return fmt.Sprintf("cpu: illegal write of $%02X at $%04X", f.Byte, f.PC)
	default:
		return "cpu: fault"
	}
}

// ErrBreak is returned by Step when BRK is executed and RealBRK is false
// (the default): the spec's "treat as halt the core" behavior, see
// spec.md §4.2 and SPEC_FULL.md §9.2.
var ErrBreak = fmt.Errorf("cpu: BRK encountered (halt)")

// CPU is the MOS 6502-derived processor core.
type CPU struct {
	PC      uint16
	SP      uint8
	A, X, Y uint8
	Status  uint8

	Bus Bus

	// RealBRK switches BRK from "halt the core" (default, matches
	// nestest-style test ROMs) to the real hardware interrupt dispatch
	// (push PC+1, push status with B=1/B2=1, set I, vector through
	// $FFFE/$FFFF). See SPEC_FULL.md §9.2.
	RealBRK bool

	// Trace, if non-nil, is invoked with the canonical trace line (spec.md
	// §6) before each instruction executes.
	Trace func(line string)
}

// New creates a CPU attached to the given bus. Call Reset before running.
func New(bus Bus) *CPU {
	return &CPU{Bus: bus}
}

// Reset reinitializes the CPU to its power-on state (spec.md §3 Lifecycle).
func (c *CPU) Reset() {
	lo := uint16(c.Bus.Read(resetVectorLo))
	hi := uint16(c.Bus.Read(resetVectorLo + 1))
	c.PC = hi<<8 | lo
	c.SP = resetStackPointer
	c.Status = resetStatus
	c.A, c.X, c.Y = 0, 0, 0
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.Status |= mask
	} else {
		c.Status &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool {
	return c.Status&mask != 0
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

func (c *CPU) push(v uint8) {
	c.Bus.Write(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop() uint8 {
	c.SP++
	return c.Bus.Read(stackBase + uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push(uint8(v >> 8))
	c.push(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := uint16(c.pop())
	hi := uint16(c.pop())
	return hi<<8 | lo
}

// NMI services a non-maskable interrupt (spec.md §4.2 Interrupts).
func (c *CPU) NMI() {
	c.push16(c.PC)
	c.push((c.Status &^ FlagBreak) | FlagB2)
	c.setFlag(FlagInterrupt, true)
	lo := uint16(c.Bus.Read(nmiVectorLo))
	hi := uint16(c.Bus.Read(nmiVectorLo + 1))
	c.PC = hi<<8 | lo
	c.Bus.ReportCycles(2) // NMI reports 2 extra CPU cycles (spec.md §4.2)
}

func (c *CPU) irqVector() uint16 {
	lo := uint16(c.Bus.Read(irqVectorLo))
	hi := uint16(c.Bus.Read(irqVectorLo + 1))
	return hi<<8 | lo
}

// Step executes exactly one instruction, per the main loop in spec.md §4.2.
func (c *CPU) Step() error {
	if c.Bus.PollNMI() {
		c.NMI()
	}

	preFetchPC := c.PC
	opcode := c.Bus.Read(c.PC)
	c.PC++
	pc0 := c.PC // post-fetch position (spec.md §4.2 step 3)

	desc := cpuinst.Table[opcode]
	if desc == nil {
		return &Fault{Kind: FaultUnimplementedOpcode, PC: preFetchPC, Byte: opcode}
	}

	operand := c.resolveOperand(desc)

	if c.Trace != nil {
		c.Trace(c.formatTrace(preFetchPC, desc, operand))
	}

	err := c.dispatch(desc, operand)

	// Baseline cycle accounting: declared base cycles only (spec.md §4.2
	// step 6 permits this; page-cross/branch-taken extra cycles are not
	// implemented, see DESIGN.md "Open Questions resolved" #4).
	c.Bus.ReportCycles(desc.Cycles)

	if c.PC == pc0 {
		// Dispatch did not itself redirect PC (JMP/JSR/RTS/RTI/branch all
		// overwrite PC); skip the remaining operand bytes.
		c.PC += uint16(desc.Length) - 1
	}

	return err
}
