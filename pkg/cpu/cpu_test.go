package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBus is a flat 64KB RAM bus with no PPU/mapper behind it, grounded on
// hejops-gone/mem.Bus's FakeRam pattern.
type fakeBus struct {
	ram    [65536]uint8
	nmi    bool
	cycles int
}

func (b *fakeBus) Read(addr uint16) uint8       { return b.ram[addr] }
func (b *fakeBus) Write(addr uint16, v uint8)   { b.ram[addr] = v }
func (b *fakeBus) ReportCycles(n uint8)         { b.cycles += int(n) }
func (b *fakeBus) PollNMI() bool {
	n := b.nmi
	b.nmi = false
	return n
}

func (b *fakeBus) load(program []byte, at uint16) {
	copy(b.ram[at:], program)
}

func (b *fakeBus) setResetVector(addr uint16) {
	b.ram[0xFFFC] = uint8(addr)
	b.ram[0xFFFD] = uint8(addr >> 8)
}

func newTestCPU(program []byte, at uint16) (*CPU, *fakeBus) {
	bus := &fakeBus{}
	bus.load(program, at)
	bus.setResetVector(at)
	c := New(bus)
	c.Reset()
	return c, bus
}

func TestResetVectorAndStackPointer(t *testing.T) {
	c, _ := newTestCPU([]byte{0xEA}, 0x8000)
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.True(t, c.flag(FlagInterrupt))
}

func TestLDAImmediateSetsZeroAndNegative(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA9, 0x00, 0xA9, 0x80, 0xA9, 0x05}, 0x8000)

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x80), c.A)
	assert.False(t, c.flag(FlagZero))
	assert.True(t, c.flag(FlagNegative))

	assert.NoError(t, c.Step())
	assert.Equal(t, uint8(0x05), c.A)
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	// LDA #$7F; CLC; ADC #$01 -> A=$80, overflow set (positive+positive=negative)
	c, _ := newTestCPU([]byte{0xA9, 0x7F, 0x18, 0x69, 0x01}, 0x8000)
	assert.NoError(t, c.Step())
	assert.NoError(t, c.Step())
	assert.NoError(t, c.Step())

	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.flag(FlagOverflow))
	assert.False(t, c.flag(FlagCarry))
}

func TestSBCBorrow(t *testing.T) {
	// LDA #$00; SEC; SBC #$01 -> A=$FF, carry clear (borrow occurred)
	c, _ := newTestCPU([]byte{0xA9, 0x00, 0x38, 0xE9, 0x01}, 0x8000)
	assert.NoError(t, c.Step())
	assert.NoError(t, c.Step())
	assert.NoError(t, c.Step())

	assert.Equal(t, uint8(0xFF), c.A)
	assert.False(t, c.flag(FlagCarry))
	assert.True(t, c.flag(FlagNegative))
}

func TestBranchTaken(t *testing.T) {
	// LDA #$00; BEQ +2 (skip the next LDA); LDA #$FF (skipped); LDA #$11
	program := []byte{0xA9, 0x00, 0xF0, 0x02, 0xA9, 0xFF, 0xA9, 0x11}
	c, _ := newTestCPU(program, 0x8000)
	assert.NoError(t, c.Step()) // LDA #$00
	assert.NoError(t, c.Step()) // BEQ (taken)
	assert.Equal(t, uint16(0x8006), c.PC)
	assert.NoError(t, c.Step()) // LDA #$11
	assert.Equal(t, uint8(0x11), c.A)
}

func TestJSRPushesLastByteOfJSR(t *testing.T) {
	// JSR $9000 at $8000: occupies $8000-$8002; must push $8002 (pc0+1).
	program := make([]byte, 0x1000)
	program[0] = 0x20 // JSR
	program[1] = 0x00
	program[2] = 0x90
	c, bus := newTestCPU(program, 0x8000)

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x9000), c.PC)

	hi := bus.Read(stackBase + uint16(c.SP+2))
	lo := bus.Read(stackBase + uint16(c.SP+1))
	pushed := uint16(hi)<<8 | uint16(lo)
	assert.Equal(t, uint16(0x8002), pushed)
}

func TestJSRThenRTSReturnsToInstructionAfterJSR(t *testing.T) {
	program := make([]byte, 0x1000)
	program[0] = 0x20 // JSR $8010
	program[1] = 0x10
	program[2] = 0x80
	program[3] = 0xEA // NOP, should be reached after RTS
	program[0x10] = 0x60 // RTS
	c, _ := newTestCPU(program, 0x8000)

	assert.NoError(t, c.Step()) // JSR
	assert.Equal(t, uint16(0x8010), c.PC)
	assert.NoError(t, c.Step()) // RTS
	assert.Equal(t, uint16(0x8003), c.PC)
}

func TestBRKDefaultHalts(t *testing.T) {
	c, _ := newTestCPU([]byte{0x00}, 0x8000)
	err := c.Step()
	assert.ErrorIs(t, err, ErrBreak)
}

func TestBRKRealDispatchesThroughIRQVector(t *testing.T) {
	program := make([]byte, 0x10000-0x8000)
	program[0] = 0x00 // BRK
	c, bus := newTestCPU(program, 0x8000)
	c.RealBRK = true
	bus.ram[0xFFFE] = 0x00
	bus.ram[0xFFFF] = 0x90

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x9000), c.PC)
	assert.True(t, c.flag(FlagInterrupt))
}

func TestUnrecognizedOpcodeIsAFault(t *testing.T) {
	c, _ := newTestCPU([]byte{0x02}, 0x8000) // no undocumented table entry at $02
	err := c.Step()
	var fault *Fault
	assert.ErrorAs(t, err, &fault)
	assert.Equal(t, FaultUnimplementedOpcode, fault.Kind)
}

func TestNMIPushesPCAndStatusAndVectorsThroughFFFA(t *testing.T) {
	c, bus := newTestCPU([]byte{0xEA}, 0x8000)
	bus.ram[0xFFFA] = 0x00
	bus.ram[0xFFFB] = 0x90
	bus.ram[0x9000] = 0xEA // NOP: Step services the NMI, then runs this
	bus.nmi = true

	assert.NoError(t, c.Step())
	assert.Equal(t, uint16(0x9001), c.PC)
	assert.True(t, c.flag(FlagInterrupt))

	// Pushed PC ($8000, high byte first) and status (B clear, B2 set).
	assert.Equal(t, uint8(0x80), bus.ram[0x01FD])
	assert.Equal(t, uint8(0x00), bus.ram[0x01FC])
	assert.Equal(t, uint8(0x24), bus.ram[0x01FB])
}

func TestTraceHookInvokedBeforeExecution(t *testing.T) {
	c, _ := newTestCPU([]byte{0xA2, 0x01}, 0x8000) // LDX #$01
	var lines []string
	c.Trace = func(line string) { lines = append(lines, line) }

	assert.NoError(t, c.Step())
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "8000")
	assert.Contains(t, lines[0], "LDX #$01")
	assert.Contains(t, lines[0], "A:00 X:00 Y:00")
}
