// Command nesgo runs an iNES ROM against the CPU/PPU core, optionally
// tracing every instruction and dumping the final frame to a BMP.
package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"golang.org/x/image/bmp"
	"gopkg.in/urfave/cli.v2"

	"github.com/nesgo/nesgo/pkg/bus"
	"github.com/nesgo/nesgo/pkg/cartridge"
	"github.com/nesgo/nesgo/pkg/cpu"
	"github.com/nesgo/nesgo/pkg/ppu"
	"github.com/nesgo/nesgo/pkg/renderer"
)

func main() {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "iNES ROM file to run",
			},
			&cli.IntFlag{
				Name:    "frames",
				Aliases: []string{"f"},
				Usage:   "number of frames to run before stopping",
				Value:   60,
			},
			&cli.BoolFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "print a nestest-style trace line for every instruction",
			},
			&cli.StringFlag{
				Name:    "screenshot",
				Aliases: []string{"s"},
				Usage:   "write the last completed frame to this BMP file",
			},
			&cli.BoolFlag{
				Name:  "real-brk",
				Usage: "dispatch BRK as a real hardware interrupt instead of halting",
			},
			&cli.BoolFlag{
				Name:  "dump-state",
				Usage: "dump full CPU state to stderr on an emulation fault",
			},
		},
		Name:    "nesgo",
		Usage:   "Run an NES ROM against the CPU/PPU emulation core",
		Version: "v0.1.0",
		Action:  run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("", 86)
	}

	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("failed to load ROM: %v", err), 1)
	}

	ppuUnit := ppu.New()
	ppuUnit.SetMapper(cart.GetMapper())
	ppuUnit.SetMirroring(cart.GetMirroring())
	ppuUnit.Reset()

	var lastFrame *renderer.Frame
	framesCompleted := 0
	onFrame := func(p *ppu.PPU) {
		lastFrame = renderer.Render(p)
		framesCompleted++
	}

	nesBus := bus.New(ppuUnit, cart.GetMapper(), onFrame)
	nesCPU := cpu.New(nesBus)
	nesCPU.RealBRK = c.Bool("real-brk")
	nesCPU.Reset()

	if c.Bool("trace") {
		w := bufio.NewWriter(os.Stdout)
		defer w.Flush()
		nesCPU.Trace = func(line string) {
			fmt.Fprintln(w, line)
		}
	}

	maxFrames := c.Int("frames")
	for framesCompleted < maxFrames {
		if err := nesCPU.Step(); err != nil {
			if err == cpu.ErrBreak {
				break
			}
			if c.Bool("dump-state") {
				spew.Fdump(os.Stderr, nesCPU)
			}
			return cli.Exit(fmt.Sprintf("emulation fault: %v", err), 1)
		}
	}

	if shot := c.String("screenshot"); shot != "" && lastFrame != nil {
		if err := writeBMP(shot, lastFrame); err != nil {
			return cli.Exit(fmt.Sprintf("failed to write screenshot: %v", err), 1)
		}
	}

	return nil
}

func writeBMP(path string, f *renderer.Frame) error {
	img := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			i := (y*ppu.ScreenWidth + x) * 3
			img.Set(x, y, color.RGBA{f[i], f[i+1], f[i+2], 255})
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	return bmp.Encode(out, img)
}
