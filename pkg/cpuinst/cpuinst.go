// Package cpuinst holds the static description of every opcode byte the
// CPU must recognize: its mnemonic, addressing mode, declared length and
// base cycle count. The table is built once at package init and never
// mutated afterward.
package cpuinst

// Mode identifies how an instruction's operand address is derived.
type Mode int

const (
	Implied Mode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

// Op is the operation an opcode dispatches to. Several opcode bytes with
// distinct addressing modes share one Op (e.g. LDA immediate/absolute/...).
type Op int

const (
	OpLDA Op = iota
	OpLDX
	OpLDY
	OpSTA
	OpSTX
	OpSTY
	OpTAX
	OpTXA
	OpTAY
	OpTYA
	OpTSX
	OpTXS
	OpPHA
	OpPLA
	OpPHP
	OpPLP
	OpADC
	OpSBC
	OpINC
	OpDEC
	OpINX
	OpDEX
	OpINY
	OpDEY
	OpAND
	OpORA
	OpEOR
	OpBIT
	OpASL
	OpLSR
	OpROL
	OpROR
	OpCMP
	OpCPX
	OpCPY
	OpBCC
	OpBCS
	OpBEQ
	OpBNE
	OpBPL
	OpBMI
	OpBVC
	OpBVS
	OpJMP
	OpJSR
	OpRTS
	OpRTI
	OpCLC
	OpSEC
	OpCLI
	OpSEI
	OpCLV
	OpCLD
	OpSED
	OpBRK
	OpNOP
	// Undocumented opcodes (spec.md §4.1, "Undocumented opcodes present in
	// real cartridges").
	OpDCP
	OpRLA
	OpSLO
	OpSRE
	OpRRA
	OpISB
	OpLAX
	OpSAX
	OpAXS
	OpARR
	OpALR
	OpANC
	OpLXA
	OpXAA
	OpLAS
	OpTAS
	OpAHX
	OpSHX
	OpSHY
)

// Descriptor is the complete static metadata for one opcode byte.
type Descriptor struct {
	Opcode   uint8
	Mnemonic string // 3-letter mnemonic, used verbatim in trace output
	Op       Op
	Mode     Mode
	Length   uint8 // declared instruction length in bytes, 1-3
	Cycles   uint8 // declared base cycle count

	// Unofficial marks an opcode as one of the undocumented-but-stable
	// opcodes real cartridges rely on (spec.md §4.1).
	Unofficial bool
}

// Table maps every recognized opcode byte to its Descriptor. Opcode bytes
// absent from Table are unrecognized and must fault (spec.md §7).
var Table [256]*Descriptor

func reg(op uint8, mnem string, o Op, m Mode, length, cycles uint8, unofficial bool) {
	if Table[op] != nil {
		panic("cpuinst: duplicate registration for opcode " + mnem)
	}
	Table[op] = &Descriptor{Opcode: op, Mnemonic: mnem, Op: o, Mode: m, Length: length, Cycles: cycles, Unofficial: unofficial}
}

func init() {
	// Load/store.
	reg(0xA9, "LDA", OpLDA, Immediate, 2, 2, false)
	reg(0xA5, "LDA", OpLDA, ZeroPage, 2, 3, false)
	reg(0xB5, "LDA", OpLDA, ZeroPageX, 2, 4, false)
	reg(0xAD, "LDA", OpLDA, Absolute, 3, 4, false)
	reg(0xBD, "LDA", OpLDA, AbsoluteX, 3, 4, false)
	reg(0xB9, "LDA", OpLDA, AbsoluteY, 3, 4, false)
	reg(0xA1, "LDA", OpLDA, IndirectX, 2, 6, false)
	reg(0xB1, "LDA", OpLDA, IndirectY, 2, 5, false)

	reg(0xA2, "LDX", OpLDX, Immediate, 2, 2, false)
	reg(0xA6, "LDX", OpLDX, ZeroPage, 2, 3, false)
	reg(0xB6, "LDX", OpLDX, ZeroPageY, 2, 4, false)
	reg(0xAE, "LDX", OpLDX, Absolute, 3, 4, false)
	reg(0xBE, "LDX", OpLDX, AbsoluteY, 3, 4, false)

	reg(0xA0, "LDY", OpLDY, Immediate, 2, 2, false)
	reg(0xA4, "LDY", OpLDY, ZeroPage, 2, 3, false)
	reg(0xB4, "LDY", OpLDY, ZeroPageX, 2, 4, false)
	reg(0xAC, "LDY", OpLDY, Absolute, 3, 4, false)
	reg(0xBC, "LDY", OpLDY, AbsoluteX, 3, 4, false)

	reg(0x85, "STA", OpSTA, ZeroPage, 2, 3, false)
	reg(0x95, "STA", OpSTA, ZeroPageX, 2, 4, false)
	reg(0x8D, "STA", OpSTA, Absolute, 3, 4, false)
	reg(0x9D, "STA", OpSTA, AbsoluteX, 3, 5, false)
	reg(0x99, "STA", OpSTA, AbsoluteY, 3, 5, false)
	reg(0x81, "STA", OpSTA, IndirectX, 2, 6, false)
	reg(0x91, "STA", OpSTA, IndirectY, 2, 6, false)

	reg(0x86, "STX", OpSTX, ZeroPage, 2, 3, false)
	reg(0x96, "STX", OpSTX, ZeroPageY, 2, 4, false)
	reg(0x8E, "STX", OpSTX, Absolute, 3, 4, false)

	reg(0x84, "STY", OpSTY, ZeroPage, 2, 3, false)
	reg(0x94, "STY", OpSTY, ZeroPageX, 2, 4, false)
	reg(0x8C, "STY", OpSTY, Absolute, 3, 4, false)

	// Transfers.
	reg(0xAA, "TAX", OpTAX, Implied, 1, 2, false)
	reg(0x8A, "TXA", OpTXA, Implied, 1, 2, false)
	reg(0xA8, "TAY", OpTAY, Implied, 1, 2, false)
	reg(0x98, "TYA", OpTYA, Implied, 1, 2, false)
	reg(0xBA, "TSX", OpTSX, Implied, 1, 2, false)
	reg(0x9A, "TXS", OpTXS, Implied, 1, 2, false)

	// Stack.
	reg(0x48, "PHA", OpPHA, Implied, 1, 3, false)
	reg(0x68, "PLA", OpPLA, Implied, 1, 4, false)
	reg(0x08, "PHP", OpPHP, Implied, 1, 3, false)
	reg(0x28, "PLP", OpPLP, Implied, 1, 4, false)

	// Arithmetic.
	reg(0x69, "ADC", OpADC, Immediate, 2, 2, false)
	reg(0x65, "ADC", OpADC, ZeroPage, 2, 3, false)
	reg(0x75, "ADC", OpADC, ZeroPageX, 2, 4, false)
	reg(0x6D, "ADC", OpADC, Absolute, 3, 4, false)
	reg(0x7D, "ADC", OpADC, AbsoluteX, 3, 4, false)
	reg(0x79, "ADC", OpADC, AbsoluteY, 3, 4, false)
	reg(0x61, "ADC", OpADC, IndirectX, 2, 6, false)
	reg(0x71, "ADC", OpADC, IndirectY, 2, 5, false)

	reg(0xE9, "SBC", OpSBC, Immediate, 2, 2, false)
	reg(0xE5, "SBC", OpSBC, ZeroPage, 2, 3, false)
	reg(0xF5, "SBC", OpSBC, ZeroPageX, 2, 4, false)
	reg(0xED, "SBC", OpSBC, Absolute, 3, 4, false)
	reg(0xFD, "SBC", OpSBC, AbsoluteX, 3, 4, false)
	reg(0xF9, "SBC", OpSBC, AbsoluteY, 3, 4, false)
	reg(0xE1, "SBC", OpSBC, IndirectX, 2, 6, false)
	reg(0xF1, "SBC", OpSBC, IndirectY, 2, 5, false)
	reg(0xEB, "SBC", OpSBC, Immediate, 2, 2, true) // unofficial SBC

	reg(0xE6, "INC", OpINC, ZeroPage, 2, 5, false)
	reg(0xF6, "INC", OpINC, ZeroPageX, 2, 6, false)
	reg(0xEE, "INC", OpINC, Absolute, 3, 6, false)
	reg(0xFE, "INC", OpINC, AbsoluteX, 3, 7, false)

	reg(0xC6, "DEC", OpDEC, ZeroPage, 2, 5, false)
	reg(0xD6, "DEC", OpDEC, ZeroPageX, 2, 6, false)
	reg(0xCE, "DEC", OpDEC, Absolute, 3, 6, false)
	reg(0xDE, "DEC", OpDEC, AbsoluteX, 3, 7, false)

	reg(0xE8, "INX", OpINX, Implied, 1, 2, false)
	reg(0xCA, "DEX", OpDEX, Implied, 1, 2, false)
	reg(0xC8, "INY", OpINY, Implied, 1, 2, false)
	reg(0x88, "DEY", OpDEY, Implied, 1, 2, false)

	// Logic.
	reg(0x29, "AND", OpAND, Immediate, 2, 2, false)
	reg(0x25, "AND", OpAND, ZeroPage, 2, 3, false)
	reg(0x35, "AND", OpAND, ZeroPageX, 2, 4, false)
	reg(0x2D, "AND", OpAND, Absolute, 3, 4, false)
	reg(0x3D, "AND", OpAND, AbsoluteX, 3, 4, false)
	reg(0x39, "AND", OpAND, AbsoluteY, 3, 4, false)
	reg(0x21, "AND", OpAND, IndirectX, 2, 6, false)
	reg(0x31, "AND", OpAND, IndirectY, 2, 5, false)

	reg(0x09, "ORA", OpORA, Immediate, 2, 2, false)
	reg(0x05, "ORA", OpORA, ZeroPage, 2, 3, false)
	reg(0x15, "ORA", OpORA, ZeroPageX, 2, 4, false)
	reg(0x0D, "ORA", OpORA, Absolute, 3, 4, false)
	reg(0x1D, "ORA", OpORA, AbsoluteX, 3, 4, false)
	reg(0x19, "ORA", OpORA, AbsoluteY, 3, 4, false)
	reg(0x01, "ORA", OpORA, IndirectX, 2, 6, false)
	reg(0x11, "ORA", OpORA, IndirectY, 2, 5, false)

	reg(0x49, "EOR", OpEOR, Immediate, 2, 2, false)
	reg(0x45, "EOR", OpEOR, ZeroPage, 2, 3, false)
	reg(0x55, "EOR", OpEOR, ZeroPageX, 2, 4, false)
	reg(0x4D, "EOR", OpEOR, Absolute, 3, 4, false)
	reg(0x5D, "EOR", OpEOR, AbsoluteX, 3, 4, false)
	reg(0x59, "EOR", OpEOR, AbsoluteY, 3, 4, false)
	reg(0x41, "EOR", OpEOR, IndirectX, 2, 6, false)
	reg(0x51, "EOR", OpEOR, IndirectY, 2, 5, false)

	reg(0x24, "BIT", OpBIT, ZeroPage, 2, 3, false)
	reg(0x2C, "BIT", OpBIT, Absolute, 3, 4, false)

	// Shifts/rotates.
	reg(0x0A, "ASL", OpASL, Accumulator, 1, 2, false)
	reg(0x06, "ASL", OpASL, ZeroPage, 2, 5, false)
	reg(0x16, "ASL", OpASL, ZeroPageX, 2, 6, false)
	reg(0x0E, "ASL", OpASL, Absolute, 3, 6, false)
	reg(0x1E, "ASL", OpASL, AbsoluteX, 3, 7, false)

	reg(0x4A, "LSR", OpLSR, Accumulator, 1, 2, false)
	reg(0x46, "LSR", OpLSR, ZeroPage, 2, 5, false)
	reg(0x56, "LSR", OpLSR, ZeroPageX, 2, 6, false)
	reg(0x4E, "LSR", OpLSR, Absolute, 3, 6, false)
	reg(0x5E, "LSR", OpLSR, AbsoluteX, 3, 7, false)

	reg(0x2A, "ROL", OpROL, Accumulator, 1, 2, false)
	reg(0x26, "ROL", OpROL, ZeroPage, 2, 5, false)
	reg(0x36, "ROL", OpROL, ZeroPageX, 2, 6, false)
	reg(0x2E, "ROL", OpROL, Absolute, 3, 6, false)
	reg(0x3E, "ROL", OpROL, AbsoluteX, 3, 7, false)

	reg(0x6A, "ROR", OpROR, Accumulator, 1, 2, false)
	reg(0x66, "ROR", OpROR, ZeroPage, 2, 5, false)
	reg(0x76, "ROR", OpROR, ZeroPageX, 2, 6, false)
	reg(0x6E, "ROR", OpROR, Absolute, 3, 6, false)
	reg(0x7E, "ROR", OpROR, AbsoluteX, 3, 7, false)

	// Compares.
	reg(0xC9, "CMP", OpCMP, Immediate, 2, 2, false)
	reg(0xC5, "CMP", OpCMP, ZeroPage, 2, 3, false)
	reg(0xD5, "CMP", OpCMP, ZeroPageX, 2, 4, false)
	reg(0xCD, "CMP", OpCMP, Absolute, 3, 4, false)
	reg(0xDD, "CMP", OpCMP, AbsoluteX, 3, 4, false)
	reg(0xD9, "CMP", OpCMP, AbsoluteY, 3, 4, false)
	reg(0xC1, "CMP", OpCMP, IndirectX, 2, 6, false)
	reg(0xD1, "CMP", OpCMP, IndirectY, 2, 5, false)

	reg(0xE0, "CPX", OpCPX, Immediate, 2, 2, false)
	reg(0xE4, "CPX", OpCPX, ZeroPage, 2, 3, false)
	reg(0xEC, "CPX", OpCPX, Absolute, 3, 4, false)

	reg(0xC0, "CPY", OpCPY, Immediate, 2, 2, false)
	reg(0xC4, "CPY", OpCPY, ZeroPage, 2, 3, false)
	reg(0xCC, "CPY", OpCPY, Absolute, 3, 4, false)

	// Branches.
	reg(0x90, "BCC", OpBCC, Relative, 2, 2, false)
	reg(0xB0, "BCS", OpBCS, Relative, 2, 2, false)
	reg(0xF0, "BEQ", OpBEQ, Relative, 2, 2, false)
	reg(0xD0, "BNE", OpBNE, Relative, 2, 2, false)
	reg(0x10, "BPL", OpBPL, Relative, 2, 2, false)
	reg(0x30, "BMI", OpBMI, Relative, 2, 2, false)
	reg(0x50, "BVC", OpBVC, Relative, 2, 2, false)
	reg(0x70, "BVS", OpBVS, Relative, 2, 2, false)

	// Jumps.
	reg(0x4C, "JMP", OpJMP, Absolute, 3, 3, false)
	reg(0x6C, "JMP", OpJMP, Indirect, 3, 5, false)
	reg(0x20, "JSR", OpJSR, Absolute, 3, 6, false)
	reg(0x60, "RTS", OpRTS, Implied, 1, 6, false)
	reg(0x40, "RTI", OpRTI, Implied, 1, 6, false)

	// Flags.
	reg(0x18, "CLC", OpCLC, Implied, 1, 2, false)
	reg(0x38, "SEC", OpSEC, Implied, 1, 2, false)
	reg(0x58, "CLI", OpCLI, Implied, 1, 2, false)
	reg(0x78, "SEI", OpSEI, Implied, 1, 2, false)
	reg(0xB8, "CLV", OpCLV, Implied, 1, 2, false)
	reg(0xD8, "CLD", OpCLD, Implied, 1, 2, false)
	reg(0xF8, "SED", OpSED, Implied, 1, 2, false)

	reg(0x00, "BRK", OpBRK, Implied, 1, 7, false)

	// Official NOP.
	reg(0xEA, "NOP", OpNOP, Implied, 1, 2, false)

	// Undocumented opcodes (spec.md §4.1).
	regDCP()
	regRLA()
	regSLO()
	regSRE()
	regRRA()
	regISB()
	regLAX()
	regSAX()
	reg(0xCB, "AXS", OpAXS, Immediate, 2, 2, true)
	reg(0x6B, "ARR", OpARR, Immediate, 2, 2, true)
	reg(0x4B, "ALR", OpALR, Immediate, 2, 2, true)
	reg(0x0B, "ANC", OpANC, Immediate, 2, 2, true)
	reg(0x2B, "ANC", OpANC, Immediate, 2, 2, true)
	reg(0xAB, "LXA", OpLXA, Immediate, 2, 2, true)
	reg(0x8B, "XAA", OpXAA, Immediate, 2, 2, true)
	reg(0xBB, "LAS", OpLAS, AbsoluteY, 3, 4, true)
	reg(0x9B, "TAS", OpTAS, AbsoluteY, 3, 5, true)
	reg(0x9F, "AHX", OpAHX, AbsoluteY, 3, 5, true)
	reg(0x93, "AHX", OpAHX, IndirectY, 2, 6, true)
	reg(0x9E, "SHX", OpSHX, AbsoluteY, 3, 5, true)
	reg(0x9C, "SHY", OpSHY, AbsoluteX, 3, 5, true)

	regNOPFamily()
}

func regDCP() {
	for _, e := range []struct {
		op     uint8
		m      Mode
		l, c   uint8
	}{
		{0xC7, ZeroPage, 2, 5}, {0xD7, ZeroPageX, 2, 6}, {0xCF, Absolute, 3, 6},
		{0xDF, AbsoluteX, 3, 7}, {0xDB, AbsoluteY, 3, 7}, {0xC3, IndirectX, 2, 8}, {0xD3, IndirectY, 2, 8},
	} {
		reg(e.op, "DCP", OpDCP, e.m, e.l, e.c, true)
	}
}

func regRLA() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0x27, ZeroPage, 2, 5}, {0x37, ZeroPageX, 2, 6}, {0x2F, Absolute, 3, 6},
		{0x3F, AbsoluteX, 3, 7}, {0x3B, AbsoluteY, 3, 7}, {0x23, IndirectX, 2, 8}, {0x33, IndirectY, 2, 8},
	} {
		reg(e.op, "RLA", OpRLA, e.m, e.l, e.c, true)
	}
}

func regSLO() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0x07, ZeroPage, 2, 5}, {0x17, ZeroPageX, 2, 6}, {0x0F, Absolute, 3, 6},
		{0x1F, AbsoluteX, 3, 7}, {0x1B, AbsoluteY, 3, 7}, {0x03, IndirectX, 2, 8}, {0x13, IndirectY, 2, 8},
	} {
		reg(e.op, "SLO", OpSLO, e.m, e.l, e.c, true)
	}
}

func regSRE() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0x47, ZeroPage, 2, 5}, {0x57, ZeroPageX, 2, 6}, {0x4F, Absolute, 3, 6},
		{0x5F, AbsoluteX, 3, 7}, {0x5B, AbsoluteY, 3, 7}, {0x43, IndirectX, 2, 8}, {0x53, IndirectY, 2, 8},
	} {
		reg(e.op, "SRE", OpSRE, e.m, e.l, e.c, true)
	}
}

func regRRA() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0x67, ZeroPage, 2, 5}, {0x77, ZeroPageX, 2, 6}, {0x6F, Absolute, 3, 6},
		{0x7F, AbsoluteX, 3, 7}, {0x7B, AbsoluteY, 3, 7}, {0x63, IndirectX, 2, 8}, {0x73, IndirectY, 2, 8},
	} {
		reg(e.op, "RRA", OpRRA, e.m, e.l, e.c, true)
	}
}

func regISB() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0xE7, ZeroPage, 2, 5}, {0xF7, ZeroPageX, 2, 6}, {0xEF, Absolute, 3, 6},
		{0xFF, AbsoluteX, 3, 7}, {0xFB, AbsoluteY, 3, 7}, {0xE3, IndirectX, 2, 8}, {0xF3, IndirectY, 2, 8},
	} {
		reg(e.op, "ISB", OpISB, e.m, e.l, e.c, true)
	}
}

func regLAX() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0xA7, ZeroPage, 2, 3}, {0xB7, ZeroPageY, 2, 4}, {0xAF, Absolute, 3, 4},
		{0xBF, AbsoluteY, 3, 4}, {0xA3, IndirectX, 2, 6}, {0xB3, IndirectY, 2, 5},
	} {
		reg(e.op, "LAX", OpLAX, e.m, e.l, e.c, true)
	}
}

func regSAX() {
	for _, e := range []struct {
		op   uint8
		m    Mode
		l, c uint8
	}{
		{0x87, ZeroPage, 2, 3}, {0x97, ZeroPageY, 2, 4}, {0x8F, Absolute, 3, 4}, {0x83, IndirectX, 2, 6},
	} {
		reg(e.op, "SAX", OpSAX, e.m, e.l, e.c, true)
	}
}

// regNOPFamily registers the multi-byte NOP opcodes real cartridges contain:
// 1-byte (implied), 2-byte (zero page / zero page,X / immediate, with an
// incidental dummy read), and 3-byte (absolute / absolute,X) forms.
func regNOPFamily() {
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		reg(op, "NOP", OpNOP, Implied, 1, 2, true)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		reg(op, "NOP", OpNOP, Immediate, 2, 2, true)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		reg(op, "NOP", OpNOP, ZeroPage, 2, 3, true)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		reg(op, "NOP", OpNOP, ZeroPageX, 2, 4, true)
	}
	reg(0x0C, "NOP", OpNOP, Absolute, 3, 4, true)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		reg(op, "NOP", OpNOP, AbsoluteX, 3, 4, true)
	}
}
