// Package renderer composes a completed frame's nametable, pattern, and
// OAM data into an RGB framebuffer. It runs once per completed field
// rather than dot-by-dot, against whatever PPU state is present at the
// moment it is invoked from the bus's frame callback.
package renderer

import "github.com/nesgo/nesgo/pkg/ppu"

// Frame is a 256x240 RGB byte buffer, 3 bytes (R,G,B) per pixel,
// row-major.
type Frame [ppu.ScreenWidth * ppu.ScreenHeight * 3]uint8

func (f *Frame) set(x, y int, c ppu.Color) {
	if x < 0 || x >= ppu.ScreenWidth || y < 0 || y >= ppu.ScreenHeight {
		return
	}
	i := (y*ppu.ScreenWidth + x) * 3
	f[i], f[i+1], f[i+2] = c.R, c.G, c.B
}

// Render draws one complete frame from p's current nametable, pattern,
// OAM, and palette state, per the background-then-sprites algorithm.
func Render(p *ppu.PPU) *Frame {
	var f Frame
	renderBackground(p, &f)
	renderSprites(p, &f)
	return &f
}

// backgroundColor implements "pixel 0 maps to palette[0] (universal
// background); pixels 1-3 map to the selected sub-palette's entries" —
// the universal backdrop slot is shared across all four background
// sub-palettes regardless of which one is otherwise selected.
func backgroundColor(p *ppu.PPU, subPalette, pixel uint8) ppu.Color {
	if pixel == 0 {
		return p.GetColorFromPalette(0, 0)
	}
	return p.GetColorFromPalette(subPalette, pixel)
}

func renderBackground(p *ppu.PPU, f *Frame) {
	ctrl := p.Control()
	nt := p.Nametable()
	patternBank := ctrl.BackgroundPatternTable()

	for tileY := 0; tileY < 30; tileY++ {
		for tileX := 0; tileX < 32; tileX++ {
			tileIndex := nt[tileY*32+tileX]

			attrAddr := 0x3C0 + (tileY/4)*8 + (tileX / 4)
			attr := nt[attrAddr]
			col := (tileX % 4) / 2
			row := (tileY % 4) / 2
			shift := uint(row*2+col) * 2
			subPalette := (attr >> shift) & 0x03

			patternAddr := patternBank + uint16(tileIndex)*16
			var pattern [16]uint8
			for i := range pattern {
				pattern[i] = p.ReadCHRForRenderer(patternAddr + uint16(i))
			}

			for py := 0; py < 8; py++ {
				lo := pattern[py]
				hi := pattern[py+8]
				for px := 0; px < 8; px++ {
					bit := uint(7 - px)
					pixel := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
					color := backgroundColor(p, subPalette, pixel)
					f.set(tileX*8+px, tileY*8+py, color)
				}
			}
		}
	}
}

// renderSprites draws OAM entries in reverse order so earlier entries end
// up drawn on top, matching real hardware sprite priority.
func renderSprites(p *ppu.PPU, f *Frame) {
	ctrl := p.Control()
	mask := p.Mask()
	if !mask.RenderSprites() {
		return
	}

	oam := p.OAM
	spriteBank := ctrl.SpritePatternTable()

	for i := 63; i >= 0; i-- {
		base := i * 4
		spriteY := int(oam[base])
		tileIndex := oam[base+1]
		attr := oam[base+2]
		spriteX := int(oam[base+3])

		subPalette := attr & 0x03
		flipH := attr&0x40 != 0
		flipV := attr&0x80 != 0

		patternAddr := spriteBank + uint16(tileIndex)*16
		var pattern [16]uint8
		for b := range pattern {
			pattern[b] = p.ReadCHRForRenderer(patternAddr + uint16(b))
		}

		for py := 0; py < 8; py++ {
			row := py
			if flipV {
				row = 7 - py
			}
			lo := pattern[row]
			hi := pattern[row+8]
			for px := 0; px < 8; px++ {
				col := px
				if flipH {
					col = 7 - px
				}
				bit := uint(7 - col)
				pixel := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
				if pixel == 0 {
					continue // transparent
				}
				color := p.GetColorFromPalette(4+subPalette, pixel)
				f.set(spriteX+px, spriteY+py, color)
			}
		}
	}
}
