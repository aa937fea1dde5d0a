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
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/paul-mannino/chip8/pkg/machine"
)

func TestKeyMask(t *testing.T) {
	pressed := map[ebiten.Key]bool{
		ebiten.KeyX: true,
		ebiten.Key4: true,
		ebiten.KeyV: true,
	}

	have := keyMask(func(key ebiten.Key) bool { return pressed[key] })

	if want := uint16(1<<0x0 | 1<<0xC | 1<<0xF); have != want {
		t.Fatalf("Key mask mismatch\nwant:%016b\nhave:%016b", want, have)
	}
}

func TestExpandPixels(t *testing.T) {
	display := []byte{1, 0}
	dst := make([]byte, len(display)*4)

	expandPixels(dst, display)

	if dst[0] != pixelOn.R || dst[3] != 0xFF {
		t.Fatalf("Lit pixel mismatch\nwant:%v\nhave:%v", pixelOn, dst[:4])
	}

	if dst[4] != pixelOff.R || dst[7] != 0xFF {
		t.Fatalf("Unlit pixel mismatch\nwant:%v\nhave:%v", pixelOff, dst[4:])
	}
}

func TestGameUpdateSteps(t *testing.T) {
	var mc machine.Machine
	mc.Reset()
	mc.LoadProgram([]byte{
		0x70, 0x01, // ADD V0, 0x01
		0x12, 0x00, // JP 0x200
	})

	game := NewGame(&mc, func() error { return nil }, 10, 4, false)

	for i := 0; i < game.cycles; i++ {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}

	if have := mc.State.Registers[0]; have != 5 {
		t.Fatalf("Register mismatch\nwant:5\nhave:%d", have)
	}

	if w, h := game.Layout(0, 0); w != 256 || h != 128 {
		t.Fatalf("Layout mismatch\nwant:256x128\nhave:%dx%d", w, h)
	}

	game.showStatus = true

	if _, h := game.Layout(0, 0); h != 128+statusHeight {
		t.Fatalf("Layout mismatch\nwant:%d\nhave:%d", 128+statusHeight, h)
	}
}
