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
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/term"

	"github.com/paul-mannino/chip8/pkg/assembler"
	"github.com/paul-mannino/chip8/pkg/debugger"
	"github.com/paul-mannino/chip8/pkg/machine"
)

var helpvar bool
var debugvar bool
var hzvar int
var keyholdvar time.Duration
var seedvar int64

var shouldexit bool
var redraw bool

const usage = "chip8 [-debug] [-hz cycles] [-keyhold duration] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.IntVar(&hzvar, "hz", 500, "Instructions executed per second")
	flag.DurationVar(
		&keyholdvar, "keyhold", 150*time.Millisecond,
		"How long a key stays pressed after the terminal reports it",
	)
	flag.Int64Var(
		&seedvar, "seed", 0,
		"Seed for the RND instruction, the current time when zero",
	)
}

func loadSymTable(binary string) (*assembler.SymTable, error) {
	filename := filepath.Join(
		filepath.Dir(binary),
		strings.TrimSuffix(filepath.Base(binary), filepath.Ext(binary))+".c8db",
	)

	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	var symtable assembler.SymTable

	if err := gob.NewDecoder(file).Decode(&symtable); err != nil {
		return nil, err
	}

	return &symtable, nil
}

func chip8() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 || hzvar <= 0 {
		log.Println(usage)
		return 1
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Println("stdin is not a terminal")
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	var mc machine.Machine

	if seedvar == 0 {
		seedvar = time.Now().UnixNano()
	}

	mc.Random = rand.New(rand.NewSource(seedvar))

	var interrupted atomic.Bool

	c := make(chan os.Signal, 1)
	defer close(c)

	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		dbg.Binary = file
		mc.Debugger = &dbg

		if symtable, err := loadSymTable(args[0]); err == nil {
			dbg.SymTable = symtable
		} else {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		if dbg.SymTable != nil && dbg.SymTable.Source != "" {
			if file, err := os.Open(dbg.SymTable.Source); err == nil {
				dbg.Source = file
				defer file.Close()
			} else {
				log.Println("Error loading source file")
				log.Println(err)
			}
		}

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	} else {
		go func() {
			for range c {
				interrupted.Store(true)
			}
		}()
	}

	if err := mc.LoadBin(file); err != nil {
		log.Println(err)
		return 1
	}

	if fits, width, height := termFits(); !fits {
		log.Printf(
			"Terminal is %dx%d, the display needs %dx%d",
			width, height, screenColumns, screenRows,
		)
	}

	enterRawTerm()
	defer func() {
		fmt.Printf("\033[%d;1H\n", screenRows)
		exitRawTerm()
	}()

	if debugvar {
		debugREPL(mc.Debugger.(*debugger.Debugger), &mc)
	}

	kb := keyboard{hold: keyholdvar}
	input := make([]byte, 64)
	sounding := false
	redraw = true

	ticker := time.NewTicker(time.Second / time.Duration(hzvar))
	defer ticker.Stop()

	for !shouldexit && !interrupted.Load() {
		<-ticker.C

		now := time.Now()

		if kb.press(readPending(input), now) {
			break
		}

		mc.SetKeys(kb.mask(now))

		if err := mc.Step(); err != nil {
			fmt.Printf("\033[%d;1H\n", screenRows)
			log.Println(err)
			return 1
		}

		if mc.DisplayDirty() || redraw {
			display := mc.Display()

			if err := renderScreen(os.Stdout, &display, statusLine(&mc)); err != nil {
				log.Println(err)
				return 1
			}

			redraw = false
		}

		on := mc.Sounding()

		if on && !sounding {
			os.Stdout.WriteString("\a")
		}

		sounding = on
	}

	return 0
}

func main() {
	flag.Parse()
	os.Exit(chip8())
}
