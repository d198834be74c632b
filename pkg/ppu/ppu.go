// Package ppu implements the NES Picture Processing Unit (2C02): its six
// CPU-visible registers, VRAM/OAM memory, nametable mirroring, and the
// scanline/dot timing clock that raises vblank and NMI.
//
// Hardware Specifications:
//   - Runs 3x faster than CPU (~1.79 MHz)
//   - 341 PPU cycles per scanline
//   - 262 scanlines per frame (NTSC)
//   - Output: 256 pixels wide x 240 pixels tall
//
// Memory Map:
//   - $0000-$0FFF: Pattern Table 0 (4KB, CHR-ROM/RAM)
//   - $1000-$1FFF: Pattern Table 1 (4KB, CHR-ROM/RAM)
//   - $2000-$23FF: Nametable 0 (1KB)
//   - $2400-$27FF: Nametable 1 (1KB)
//   - $2800-$2BFF: Nametable 2 (1KB)
//   - $2C00-$2FFF: Nametable 3 (1KB)
//   - $3000-$3EFF: Mirrors of $2000-$2EFF
//   - $3F00-$3F1F: Palette RAM (32 bytes)
//   - $3F20-$3FFF: Mirrors of $3F00-$3F1F
//
// This core renders once per completed frame rather than dot-by-dot; the
// timing clock below tracks only what a once-per-frame renderer and the
// CPU's vblank/NMI observations need.
package ppu

import "github.com/nesgo/nesgo/pkg/cartridge"

// Mirroring modes for nametables.
const (
	MirrorHorizontal = 0
	MirrorVertical   = 1
	MirrorSingleLow  = 2 // Single-screen, lower bank
	MirrorSingleHigh = 3 // Single-screen, upper bank
	MirrorFourScreen = 4
)

// Screen dimensions.
const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// Timing constants (NTSC).
const (
	CyclesPerScanline = 341
	ScanlinesPerFrame = 262
	VBlankScanline    = 241
)

// PPU represents the NES Picture Processing Unit (2C02).
type PPU struct {
	// Nametable RAM (2KB internal); the full 4KB logical nametable space
	// ($2000-$2FFF) maps onto this via the cartridge's mirroring mode.
	nametable [2048]uint8

	// Palette RAM (32 bytes): $3F00-$3F0F background, $3F10-$3F1F sprite.
	paletteRAM [32]uint8

	// Object Attribute Memory: 64 sprites x 4 bytes (Y, tile, attributes, X).
	OAM [256]uint8

	oamAddress uint8

	control PPUControl // PPUCTRL ($2000)
	mask    PPUMask    // PPUMASK ($2001)
	status  PPUStatus  // PPUSTATUS ($2002)

	// vramAddress is the current 14-bit VRAM address ("v"). writeLatch
	// tracks whether the next $2005/$2006 write is the first or second of
	// the pair.
	vramAddress uint16
	writeLatch  bool

	// readBuffer holds the byte returned by the *next* $2007 read below
	// the palette range (buffered VRAM reads).
	readBuffer uint8

	scanline int
	dot      int
	frame    uint64

	nmiPending bool

	mapper        cartridge.Mapper
	mirroringMode uint8
}

// New creates a PPU with no cartridge attached yet; call SetMapper and
// SetMirroring before Reset.
func New() *PPU {
	return &PPU{}
}

// SetMapper connects a cartridge mapper for CHR-ROM/RAM access.
func (p *PPU) SetMapper(mapper cartridge.Mapper) {
	p.mapper = mapper
}

// SetMirroring sets the nametable mirroring mode.
func (p *PPU) SetMirroring(mode uint8) {
	p.mirroringMode = mode
}

// Reset initializes the PPU to its power-on state.
func (p *PPU) Reset() {
	p.control.Set(0)
	p.mask.Set(0)
	p.status.Set(0)
	p.oamAddress = 0
	p.writeLatch = false
	p.vramAddress = 0
	p.readBuffer = 0
	p.scanline = 0
	p.dot = 0
	p.nmiPending = false
}

// Tick advances the PPU clock by n PPU cycles (the bus calls this with
// CPU-cycles*3). Returns true exactly when a visible field has just
// completed (scanline wraps past 261), per spec's tick model.
func (p *PPU) Tick(n int) bool {
	frameComplete := false
	for i := 0; i < n; i++ {
		p.dot++
		if p.dot >= CyclesPerScanline {
			p.dot = 0
			p.scanline++
			if p.mapper != nil {
				p.mapper.Scanline()
			}

			if p.scanline == VBlankScanline {
				p.status.SetVBlank(true)
				if p.control.EnableNMI() {
					p.nmiPending = true
				}
			}

			if p.scanline >= ScanlinesPerFrame {
				p.scanline = 0
				p.status.SetVBlank(false)
				p.status.SetSprite0Hit(false)
				p.frame++
				frameComplete = true
			}
		}
	}
	return frameComplete
}

// PollNMI returns and clears a pending NMI request.
func (p *PPU) PollNMI() bool {
	nmi := p.nmiPending
	p.nmiPending = false
	return nmi
}

// Control, Mask, Nametable, Mirroring, Mapper expose PPU state to the
// renderer, which runs outside this package. Control and Mask return
// copies; Nametable returns a pointer to the live nametable RAM.
func (p *PPU) Control() PPUControl      { return p.control }
func (p *PPU) Mask() PPUMask            { return p.mask }
func (p *PPU) Nametable() *[2048]uint8  { return &p.nametable }
func (p *PPU) Mirroring() uint8         { return p.mirroringMode }
func (p *PPU) Mapper() cartridge.Mapper { return p.mapper }

// ReadCHRForRenderer reads one byte of pattern-table data for the
// renderer, bypassing the nametable/palette dispatch in ppuRead since
// pattern reads always go straight to the cartridge.
func (p *PPU) ReadCHRForRenderer(addr uint16) uint8 {
	if p.mapper == nil {
		return 0
	}
	return p.mapper.ReadCHR(addr & 0x1FFF)
}

// WriteCPURegister handles writes from the CPU to PPU registers ($2000-$2007).
func (p *PPU) WriteCPURegister(addr uint16, value uint8) {
	switch addr {
	case 0x2000: // PPUCTRL
		wasNMIEnabled := p.control.EnableNMI()
		p.control.Set(value)
		// A 0->1 transition of the NMI-enable bit while vblank is already
		// in progress raises NMI immediately, rather than waiting for the
		// next vblank.
		if !wasNMIEnabled && p.control.EnableNMI() && p.status.VBlank() {
			p.nmiPending = true
		}

	case 0x2001: // PPUMASK
		p.mask.Set(value)

	case 0x2003: // OAMADDR
		p.oamAddress = value

	case 0x2004: // OAMDATA
		p.OAM[p.oamAddress] = value
		p.oamAddress++

	case 0x2005: // PPUSCROLL (latched; this core does not act on scroll)
		p.writeLatch = !p.writeLatch

	case 0x2006: // PPUADDR
		if !p.writeLatch {
			p.vramAddress = (p.vramAddress & 0x00FF) | ((uint16(value) & 0x3F) << 8)
			p.writeLatch = true
		} else {
			p.vramAddress = (p.vramAddress & 0xFF00) | uint16(value)
			p.writeLatch = false
		}

	case 0x2007: // PPUDATA
		p.ppuWrite(p.vramAddress, value)
		p.vramAddress = (p.vramAddress + p.control.IncrementMode()) & 0x3FFF
	}
}

// ReadCPURegister handles reads from the CPU to PPU registers ($2000-$2007).
func (p *PPU) ReadCPURegister(addr uint16) uint8 {
	var value uint8

	switch addr {
	case 0x2002: // PPUSTATUS
		value = p.status.Get()
		p.status.SetVBlank(false)
		p.writeLatch = false

	case 0x2004: // OAMDATA
		value = p.OAM[p.oamAddress]

	case 0x2007: // PPUDATA
		if p.vramAddress >= 0x3F00 {
			value = p.ppuRead(p.vramAddress)
		} else {
			value = p.readBuffer
		}
		p.readBuffer = p.ppuRead(p.vramAddress)
		p.vramAddress = (p.vramAddress + p.control.IncrementMode()) & 0x3FFF
	}

	return value
}

// ppuRead reads from PPU memory space ($0000-$3FFF).
func (p *PPU) ppuRead(addr uint16) uint8 {
	addr &= 0x3FFF

	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			return p.mapper.ReadCHR(addr)
		}
		return 0

	case addr < 0x3F00:
		return p.nametable[p.mirrorNametableAddress(addr)]

	default:
		return p.paletteRAM[p.mirrorPaletteAddress(addr)]
	}
}

// ppuWrite writes to PPU memory space ($0000-$3FFF).
func (p *PPU) ppuWrite(addr uint16, value uint8) {
	addr &= 0x3FFF

	switch {
	case addr < 0x2000:
		if p.mapper != nil {
			p.mapper.WriteCHR(addr, value)
		}

	case addr < 0x3F00:
		p.nametable[p.mirrorNametableAddress(addr)] = value

	default:
		p.paletteRAM[p.mirrorPaletteAddress(addr)] = value
	}
}

// mirrorNametableAddress maps a logical nametable address onto the 2KB of
// physical VRAM per the cartridge's mirroring mode.
func (p *PPU) mirrorNametableAddress(addr uint16) uint16 {
	i := (addr - 0x2000) % 0x1000
	q := i / 0x0400
	offset := i % 0x0400

	switch p.mirroringMode {
	case MirrorVertical:
		return i % 0x0800
	case MirrorHorizontal:
		return (q/2)*0x0400 + offset
	case MirrorSingleLow:
		return offset
	case MirrorSingleHigh:
		return 0x0400 + offset
	default: // MirrorFourScreen: only two physical pages backing four logical ones
		return i % 0x0800
	}
}

// mirrorPaletteAddress applies the $3F10/14/18/1C -> $3F00/04/08/0C aliasing.
func (p *PPU) mirrorPaletteAddress(addr uint16) uint16 {
	a := (addr - 0x3F00) % 32
	if a >= 16 && a%4 == 0 {
		a -= 16
	}
	return a
}
