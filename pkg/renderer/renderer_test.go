package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nesgo/nesgo/pkg/cartridge"
	"github.com/nesgo/nesgo/pkg/ppu"
)

func newTestPPU() (*ppu.PPU, *cartridge.Mapper0) {
	mapper := cartridge.NewMapper0(make([]uint8, 16384), nil, ppu.MirrorVertical) // nil CHR -> CHR-RAM
	p := ppu.New()
	p.SetMapper(mapper)
	p.SetMirroring(ppu.MirrorVertical)
	p.Reset()
	return p, mapper
}

func writeCHRTile(mapper *cartridge.Mapper0, tileIndex int, lowPlane, highPlane [8]uint8) {
	base := uint16(tileIndex * 16)
	for i, b := range lowPlane {
		mapper.WriteCHR(base+uint16(i), b)
	}
	for i, b := range highPlane {
		mapper.WriteCHR(base+8+uint16(i), b)
	}
}

func writePalette(p *ppu.PPU, paletteIndex, pixel, colorIndex uint8) {
	addr := uint16(0x3F00) | uint16(paletteIndex<<2|pixel&0x03)
	p.WriteCPURegister(0x2006, uint8(addr>>8))
	p.WriteCPURegister(0x2006, uint8(addr))
	p.WriteCPURegister(0x2007, colorIndex)
}

func TestRenderBackgroundDecodesTilePixels(t *testing.T) {
	p, mapper := newTestPPU()

	// Tile 1: a single fully-set row so pixel value 3 (lo=1,hi=1) appears
	// across row 0.
	writeCHRTile(mapper, 1, [8]uint8{0xFF, 0, 0, 0, 0, 0, 0, 0}, [8]uint8{0xFF, 0, 0, 0, 0, 0, 0, 0})
	writePalette(p, 0, 3, 0x16) // background sub-palette 0, pixel 3 -> color index 0x16

	nt := p.Nametable()
	nt[0] = 1 // tile (0,0) uses tile index 1
	// attribute byte for the top-left quadrant stays 0 -> sub-palette 0

	f := Render(p)
	want := ppu.HardwarePalette[0x16]
	for x := 0; x < 8; x++ {
		i := (0*ppu.ScreenWidth + x) * 3
		assert.Equal(t, want.R, f[i])
		assert.Equal(t, want.G, f[i+1])
		assert.Equal(t, want.B, f[i+2])
	}
}

func TestRenderBackgroundPixelZeroUsesUniversalBackdrop(t *testing.T) {
	p, _ := newTestPPU()
	writePalette(p, 0, 0, 0x0F) // universal backdrop
	writePalette(p, 1, 0, 0x20) // a different sub-palette's slot 0 must not matter

	nt := p.Nametable()
	nt[0] = 0 // blank tile (all-zero CHR-RAM) -> every pixel is palette index 0
	nt[0x3C0] = 0x01 // select sub-palette 1 for this tile's quadrant

	f := Render(p)
	want := ppu.HardwarePalette[0x0F]
	assert.Equal(t, want.R, f[0])
	assert.Equal(t, want.G, f[1])
	assert.Equal(t, want.B, f[2])
}

func TestRenderSpritesHonorsHorizontalFlipAndTransparency(t *testing.T) {
	p, mapper := newTestPPU()
	p.WriteCPURegister(0x2001, 0x10) // enable sprite rendering

	// Tile with pixel value 1 only in the leftmost column (bit 7).
	writeCHRTile(mapper, 0, [8]uint8{0x80, 0, 0, 0, 0, 0, 0, 0}, [8]uint8{0, 0, 0, 0, 0, 0, 0, 0})
	writePalette(p, 4, 1, 0x21)

	oam := &p.OAM
	oam[0] = 10  // Y
	oam[1] = 0   // tile index
	oam[2] = 0x40 // flip horizontal, sub-palette 0
	oam[3] = 20  // X

	f := Render(p)
	want := ppu.HardwarePalette[0x21]
	// Flipped horizontally, the lit pixel moves from column 0 to column 7.
	i := (10*ppu.ScreenWidth + 20 + 7) * 3
	assert.Equal(t, want.R, f[i])
	i0 := (10*ppu.ScreenWidth + 20) * 3
	assert.NotEqual(t, want.R, f[i0])
}
