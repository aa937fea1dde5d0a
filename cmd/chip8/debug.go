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
	"bufio"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/paul-mannino/chip8/pkg/debugger"
	"github.com/paul-mannino/chip8/pkg/encoding"
	"github.com/paul-mannino/chip8/pkg/machine"
)

var lastcmd []string

// Accepts either a hex address or a label from the symbol table
func parseAddr(dbg *debugger.Debugger, arg string) (uint16, error) {
	if addr, ok := dbg.LabelAddr(arg); ok {
		return addr, nil
	}

	return encoding.DecodeHex(arg)
}

// Parses the optional trailing [0x####|label] [#] arguments shared by the
// source, memory and disasm commands.
func parseRange(dbg *debugger.Debugger, mc *machine.MachineState, args []string, size uint16) (uint16, uint16, bool) {
	var addr uint16 = mc.Program

	if len(args) > 0 {
		var err error

		addr, err = parseAddr(dbg, args[0])

		if err != nil {
			value, err := strconv.ParseInt(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return 0, 0, false
			}

			addr = mc.Program
			size = uint16(value)
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return 0, 0, false
		}

		size = uint16(value)
	}

	return addr, size, true
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := parseAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func watchName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	case debugger.ReadWriteWatch:
		return "readwrite"
	}

	return "<invalid>"
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x####|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := parseAddr(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%#04x] (%s)\n", addr, watchName(wtype))
		}

	case "l", "ls", "list":
		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: %%#04x %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [V#|I|PC|DT|ST] [0x####]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	name := strings.ToUpper(args[0])

	switch {
	case name == "PC":
		mc.Program = value % machine.MEMORY_SIZE
	case name == "I":
		mc.Index = value
	case name == "DT", name == "ST", len(name) == 2 && name[0] == 'V':
		if value > math.MaxUint8 {
			log.Printf("%s only holds a byte", name)
			return
		}

		switch name {
		case "DT":
			mc.Delay = uint8(value)
		case "ST":
			mc.Sound = uint8(value)
		default:
			reg, err := strconv.ParseUint(name[1:], 16, 8)

			if err != nil {
				log.Println("Invalid register")
				return
			}

			mc.Registers[reg] = uint8(value)
		}
	default:
		log.Println("Invalid register")
		return
	}

	fmt.Printf("\033[1m%s:\033[0m %#04x\n", name, value)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [0x####|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, size, ok := parseRange(dbg, mc, args, 3); ok {
		dbg.PrintSource(addr, size)
	}
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		fmt.Println(usage)
		return
	}

	if dbg.SymTable == nil {
		fmt.Println("No symbol table loaded")
		return
	}

	keys := make([]uint16, 0, len(dbg.SymTable.Labels))
	for addr := range dbg.SymTable.Labels {
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, addr := range keys {
		fmt.Printf(
			"\033[1m[%#04x]\033[0m %s\n", addr, dbg.SymTable.Labels[addr],
		)
	}
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [0x####|label]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	addr, err := parseAddr(dbg, args[0])

	if err != nil {
		fmt.Printf("Unable to find '%s'\n", args[0])
		return
	}

	mc.Program = addr % machine.MEMORY_SIZE

	fmt.Printf("\033[1mPC:\033[0m %#04x\n", mc.Program)
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, size, ok := parseRange(dbg, mc, args, 1); ok {
		dbg.PrintMem(mc, addr, size)
	}
}

func debugDisasm(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "disasm [0x####|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	if addr, size, ok := parseRange(dbg, mc, args, 8); ok {
		dbg.PrintDisassembly(mc, addr, size)
	}
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x####] [0x##]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := parseAddr(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	if value > math.MaxUint8 {
		log.Println("Memory cells only hold a byte")
		return
	}

	addr %= machine.MEMORY_SIZE

	mc.Memory[addr] = uint8(value)
	dbg.PrintMem(mc, addr, 1)
}

func debugReset(dbg *debugger.Debugger, mc *machine.Machine) {
	if _, err := dbg.Binary.Seek(0, io.SeekStart); err != nil {
		log.Println(err)
		return
	}

	if err := mc.LoadBin(dbg.Binary); err != nil {
		log.Println(err)
		return
	}

	fmt.Println("Machine reset")
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	exitRawTerm()
	defer enterRawTerm()

	fmt.Printf("\033[%d;1H\n", screenRows)

	// The screen is cleared on the way back into raw mode
	redraw = true

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "d", "dis", "disasm":
			debugDisasm(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "screen", "display":
			dbg.PrintDisplay(&mc.State)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			debugReset(dbg, mc)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
	}

	if dbg.SymTable != nil && dbg.Source != nil {
		dbg.PrintSource(mc.State.Program, 1)
	} else {
		dbg.PrintDisassembly(&mc.State, mc.State.Program, 1)
	}

	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Printf("Program stopped (read %#04x)\n", addr)
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Printf("Program stopped (write %#04x)\n", addr)
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
