// Command nesrun is a thin outer shell around the nescore CPU/bus core: it
// opens a window, polls the keyboard into the two controller ports, and
// paints the PPU stub's placeholder frame buffer. It is not a debugger and
// does not implement real pixel rendering.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore"
	"nescore/internal/input"
	"nescore/internal/ppu"
	"nescore/internal/version"
)

var keymap = map[ebiten.Key]input.Button{
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyShift:      input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

type game struct {
	sys *nescore.System
	img *ebiten.Image
}

func (g *game) Update() error {
	ports := g.sys.Ports()
	for key, button := range keymap {
		ports.Controller1.SetButton(button, ebiten.IsKeyPressed(key))
	}

	if g.sys.RunMode() == nescore.Running {
		g.sys.RunFrame()
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.sys.FrameBuffer()
	pix := make([]byte, ppu.FrameWidth*ppu.FrameHeight*4)
	for i, v := range fb {
		pix[i*4+0] = v
		pix[i*4+1] = v
		pix[i*4+2] = v
		pix[i*4+3] = 0xFF
	}
	g.img.WritePixels(pix)
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.FrameWidth, ppu.FrameHeight
}

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM file (mapper 0/NROM only)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		version.PrintBuildInfo()
		return
	}

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "nesrun: -rom is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	sys := nescore.New()
	if err := sys.LoadCartridge(data); err != nil {
		log.Fatalf("loading cartridge: %v", err)
	}
	if err := sys.PowerOn(); err != nil {
		log.Fatalf("power on: %v", err)
	}
	sys.SetRunMode(nescore.Running)

	g := &game{sys: sys, img: ebiten.NewImage(ppu.FrameWidth, ppu.FrameHeight)}

	ebiten.SetWindowSize(ppu.FrameWidth*2, ppu.FrameHeight*2)
	ebiten.SetWindowTitle(fmt.Sprintf("nesrun (%s)", version.GetVersion()))
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
