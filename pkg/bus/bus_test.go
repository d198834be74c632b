package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nesgo/nesgo/pkg/cartridge"
	"github.com/nesgo/nesgo/pkg/ppu"
)

func newTestBus(onFrame FrameCallback) *NESBus {
	mapper := cartridge.NewMapper0(make([]uint8, 16384), make([]uint8, 8192), ppu.MirrorVertical)
	p := ppu.New()
	p.SetMapper(mapper)
	p.SetMirroring(ppu.MirrorVertical)
	p.Reset()
	return New(p, mapper, onFrame)
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(nil)
	b.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0800))
	assert.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(nil)
	b.Write(0x2006, 0x20) // PPUADDR high
	b.Write(0x200E, 0x05) // mirror of $2006 (0x200E & 0x2007 == 0x2006), PPUADDR low
	b.Write(0x2007, 0x99)

	b.Write(0x2006, 0x20)
	b.Write(0x2006, 0x05)
	b.Read(0x2007) // discard buffered byte
	assert.Equal(t, uint8(0x99), b.Read(0x2007))
}

func TestReportCyclesTicksPPUThreeToOneAndFiresFrameCallback(t *testing.T) {
	fired := false
	b := newTestBus(func(p *ppu.PPU) { fired = true })

	cyclesPerFrame := ppu.CyclesPerScanline * ppu.ScanlinesPerFrame
	// 341*262 isn't divisible by 3; round the CPU cycle count up so the
	// PPU side reaches the frame boundary instead of falling short by the
	// truncated remainder.
	cpuCyclesPerFrame := (cyclesPerFrame + 2) / 3

	for i := 0; i < cpuCyclesPerFrame; i++ {
		b.ReportCycles(1)
	}
	assert.True(t, fired)
}

func TestOAMDMATransferCopiesPageIntoOAM(t *testing.T) {
	b := newTestBus(nil)
	for i := 0; i < 256; i++ {
		b.cpuRAM[i] = uint8(i)
	}

	b.Write(0x4014, 0x00) // DMA from page $00

	// One dummy cycle, then 256 read/write pairs: 513 cycles total.
	for i := 0; i < 513; i++ {
		b.ReportCycles(1)
	}

	assert.False(t, b.dmaTransfer)
	assert.Equal(t, uint8(0), b.ppu.OAM[0])
	assert.Equal(t, uint8(255), b.ppu.OAM[255])
}

func TestControllerReadWriteRoundTrip(t *testing.T) {
	b := newTestBus(nil)
	b.controller1.SetButton(0, true) // ButtonA

	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	assert.Equal(t, uint8(1), b.Read(0x4016))
	assert.Equal(t, uint8(0), b.Read(0x4016)) // ButtonB, not pressed
}
