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
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/paul-mannino/chip8/pkg/machine"
)

var helpvar bool
var hzvar int
var scalevar int
var statusvar bool

const usage = "chip8-ebiten [-hz cycles] [-scale factor] [-status] filename"

const ticksPerSecond = 60

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.IntVar(&hzvar, "hz", 600, "Instructions executed per second")
	flag.IntVar(&scalevar, "scale", 10, "Window pixels per CHIP-8 pixel")
	flag.BoolVar(&statusvar, "status", false, "Shows the status bar (toggle with F1)")
	flag.Parse()
}

func chip8_ebiten() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 || hzvar < ticksPerSecond || scalevar < 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	var mc machine.Machine

	reload := func() error {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			return err
		}

		return mc.LoadBin(file)
	}

	if err := reload(); err != nil {
		log.Println(err)
		return 1
	}

	game := NewGame(&mc, reload, hzvar/ticksPerSecond, scalevar, statusvar)

	ebiten.SetWindowSize(game.Layout(0, 0))
	ebiten.SetWindowTitle(filepath.Base(args[0]))
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(chip8_ebiten())
}
