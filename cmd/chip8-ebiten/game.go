// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/paul-mannino/chip8/pkg/machine"
)

const statusHeight = 18

var (
	pixelOn   = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
	pixelOff  = color.RGBA{0x10, 0x10, 0x10, 0xFF}
	labelText = color.RGBA{190, 190, 190, 255}
	soundText = color.RGBA{0, 220, 90, 255}
)

// 1 2 3 4      1 2 3 C
// Q W E R  ->  4 5 6 D
// A S D F      7 8 9 E
// Z X C V      A 0 B F
var keymap = [machine.KEY_COUNT]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

func keyMask(pressed func(ebiten.Key) bool) uint16 {
	var mask uint16

	for key, ekey := range keymap {
		if pressed(ekey) {
			mask |= 1 << key
		}
	}

	return mask
}

// Expands a flattened 0/1 framebuffer into RGBA bytes for WritePixels
func expandPixels(dst []byte, display []byte) {
	for i, pixel := range display {
		c := pixelOff
		if pixel != 0 {
			c = pixelOn
		}

		dst[i*4+0] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = c.A
	}
}

type Game struct {
	mc     *machine.Machine
	reload func() error

	cycles     int
	scale      int
	showStatus bool

	screen *ebiten.Image
	pixels []byte
}

func NewGame(mc *machine.Machine, reload func() error, cycles, scale int, status bool) *Game {
	return &Game{
		mc:         mc,
		reload:     reload,
		cycles:     cycles,
		scale:      scale,
		showStatus: status,
		pixels:     make([]byte, machine.DISPLAY_WIDTH*machine.DISPLAY_HEIGHT*4),
	}
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showStatus = !g.showStatus
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		if err := g.reload(); err != nil {
			return err
		}
	}

	g.mc.SetKeys(keyMask(ebiten.IsKeyPressed))

	for i := 0; i < g.cycles; i++ {
		if err := g.mc.Step(); err != nil {
			return err
		}

		if g.mc.DisplayDirty() {
			expandPixels(g.pixels, g.mc.FlattenedDisplay())
		}
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screen == nil {
		g.screen = ebiten.NewImage(machine.DISPLAY_WIDTH, machine.DISPLAY_HEIGHT)
	}

	g.screen.WritePixels(g.pixels)

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.screen, opts)

	if g.showStatus {
		g.drawStatusBar(screen)
	}
}

func (g *Game) drawStatusBar(screen *ebiten.Image) {
	width := machine.DISPLAY_WIDTH * g.scale
	y := machine.DISPLAY_HEIGHT * g.scale

	ebitenutil.DrawRect(
		screen, 0, float64(y), float64(width), statusHeight, color.RGBA{0, 0, 0, 255},
	)

	face := basicfont.Face7x13
	label := fmt.Sprintf(
		"PC %#04x  I %#04x  DT %3d  ST %3d",
		g.mc.State.Program,
		g.mc.State.Index,
		g.mc.DelayTimer(),
		g.mc.SoundTimer(),
	)

	text.Draw(screen, label, face, 6, y+13, labelText)

	x := 6 + text.BoundString(face, label).Dx() + 8

	if g.mc.Status() == machine.STATUS_AWAITING_KEY {
		text.Draw(screen, "KEY", face, x, y+13, labelText)
		x += text.BoundString(face, "KEY").Dx() + 8
	}

	if g.mc.Sounding() {
		text.Draw(screen, "BEEP", face, x, y+13, soundText)
	}
}

func (g *Game) Layout(_, _ int) (int, int) {
	height := machine.DISPLAY_HEIGHT * g.scale

	if g.showStatus {
		height += statusHeight
	}

	return machine.DISPLAY_WIDTH * g.scale, height
}
