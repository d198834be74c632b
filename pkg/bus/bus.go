// Package bus implements the NES system bus connecting CPU, RAM, PPU, and cartridge.
package bus

import (
	"github.com/nesgo/nesgo/pkg/cartridge"
	"github.com/nesgo/nesgo/pkg/controller"
	"github.com/nesgo/nesgo/pkg/ppu"
)

// FrameCallback is invoked once per completed visible field with
// read-only access to the PPU. It is expected to consume the PPU's state
// (typically via the renderer package) and may pump input.
type FrameCallback func(p *ppu.PPU)

// NESBus implements the cpu.Bus interface for the NES system.
//
// CPU Memory Map:
//
//	$0000-$07FF: 2KB internal RAM
//	$0800-$1FFF: Mirrors of $0000-$07FF
//	$2000-$2007: PPU registers
//	$2008-$3FFF: Mirrors of $2000-$2007
//	$4000-$4017: APU and I/O registers
//	$4018-$401F: APU and I/O functionality (rarely used)
//	$4020-$FFFF: Cartridge space (PRG-ROM, PRG-RAM, mapper registers)
type NESBus struct {
	cpuRAM [2048]uint8

	ppu    *ppu.PPU
	mapper cartridge.Mapper

	controller1 *controller.Controller
	controller2 *controller.Controller

	onFrame FrameCallback

	// OAM DMA ($4014) transfer state: copies 256 bytes from page*0x100
	// into OAM over 513 reported CPU cycles (one dummy alignment cycle,
	// then alternating read/write). The alignment cycle is taken whatever
	// the parity of the current CPU cycle, and the CPU is not stalled: the
	// transfer advances alongside the cycles the CPU reports.
	dmaPage         uint8
	dmaAddr         uint8
	dmaData         uint8
	dmaDummy        bool
	dmaTransfer     bool
	dmaWritePending bool // true after the read half of the current byte

	cpuCycles uint64
}

// New creates a new NES system bus wired to the given PPU and cartridge
// mapper.
func New(ppuUnit *ppu.PPU, mapper cartridge.Mapper, onFrame FrameCallback) *NESBus {
	return &NESBus{
		ppu:         ppuUnit,
		mapper:      mapper,
		controller1: controller.NewController(),
		controller2: controller.NewController(),
		onFrame:     onFrame,
		dmaDummy:    true,
	}
}

// Read implements cpu.Bus.Read.
func (b *NESBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.cpuRAM[addr&0x07FF]

	case addr < 0x4000:
		return b.ppu.ReadCPURegister(0x2000 + (addr & 0x0007))

	case addr == 0x4016:
		return b.controller1.Read()

	case addr == 0x4017:
		return b.controller2.Read()

	case addr >= 0x4020:
		return b.mapper.ReadPRG(addr)
	}

	return 0
}

// Write implements cpu.Bus.Write.
func (b *NESBus) Write(addr uint16, data uint8) {
	switch {
	case addr < 0x2000:
		b.cpuRAM[addr&0x07FF] = data

	case addr < 0x4000:
		b.ppu.WriteCPURegister(0x2000+(addr&0x0007), data)

	case addr == 0x4014:
		b.dmaPage = data
		b.dmaAddr = 0x00
		b.dmaTransfer = true

	case addr == 0x4016:
		b.controller1.Write(data)
		b.controller2.Write(data)

	case addr >= 0x4020:
		b.mapper.WritePRG(addr, data)
	}
}

// ReportCycles implements cpu.Bus.ReportCycles: each CPU cycle is three
// PPU cycles, and an active OAM DMA transfer is serviced in lockstep with
// the CPU cycles it consumes.
func (b *NESBus) ReportCycles(n uint8) {
	for i := uint8(0); i < n; i++ {
		b.tickOne()
	}
}

func (b *NESBus) tickOne() {
	b.cpuCycles++

	if frameComplete := b.ppu.Tick(3); frameComplete {
		if b.onFrame != nil {
			b.onFrame(b.ppu)
		}
	}

	if b.dmaTransfer {
		if b.dmaDummy {
			// One alignment cycle before the read/write pairs begin.
			b.dmaDummy = false
			return
		}

		if !b.dmaWritePending {
			addr := uint16(b.dmaPage)<<8 | uint16(b.dmaAddr)
			b.dmaData = b.Read(addr)
			b.dmaWritePending = true
			return
		}

		b.ppu.WriteCPURegister(0x2004, b.dmaData)
		b.dmaWritePending = false

		b.dmaAddr++
		if b.dmaAddr == 0 {
			b.dmaTransfer = false
			b.dmaDummy = true
		}
	}
}

// PollNMI implements cpu.Bus.PollNMI.
func (b *NESBus) PollNMI() bool {
	return b.ppu.PollNMI()
}

// GetPPU returns the bus's PPU.
func (b *NESBus) GetPPU() *ppu.PPU {
	return b.ppu
}

// GetController returns the specified controller (0 or 1).
func (b *NESBus) GetController(num int) *controller.Controller {
	if num == 0 {
		return b.controller1
	}
	return b.controller2
}
