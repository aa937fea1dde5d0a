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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/paul-mannino/chip8/pkg/machine"
)

var _ machine.MachineDebugger = (*Debugger)(nil)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}
	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&ReadWatch == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&WriteWatch == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// Adds a breakpoint, returning false if one already exists at addr
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// Adds a watchpoint, returning false if an identical one already exists
func (dbg *Debugger) AddWatchpoint(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})
	return true
}

// Looks up a label in the symbol table
func (dbg *Debugger) LabelAddr(label string) (uint16, bool) {
	if dbg.SymTable == nil {
		return 0, false
	}

	for addr, name := range dbg.SymTable.Labels {
		if name == label {
			return addr, true
		}
	}

	return 0, false
}

func (dbg *Debugger) PrintSource(addr uint16, count uint16) {
	w := dbg.out()

	if dbg.Source == nil {
		fmt.Fprintln(w, "No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	if offset, exists := dbg.SymTable.Symbols[addr]; exists {
		if _, err := dbg.Source.Seek(offset, io.SeekStart); err != nil {
			panic(err)
		}

		scanner := bufio.NewScanner(dbg.Source)
		scanner.Split(bufio.ScanLines)

		for i := uint16(0); i < count; i++ {
			if !scanner.Scan() {
				break
			}

			line := scanner.Text()

			foundaddr := false
			for lineaddr, linebyte := range dbg.SymTable.Symbols {
				if linebyte == offset {
					fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", lineaddr)
					foundaddr = true
					break
				}
			}

			if !foundaddr {
				fmt.Fprint(w, "\033[1;30m~~~~~~~~\033[0m ")
			}

			fmt.Fprintln(w, line)

			offset += int64(len(line) + 1)
		}

		if err := scanner.Err(); err != nil {
			fmt.Fprintln(w, err)
		}
	} else {
		fmt.Fprintf(w, "No instruction found at %#04x\n", addr)
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	for i := addr; i < addr+count; i++ {
		if i == addr {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		} else if (i-addr)%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		}

		result := mc.Memory[i%machine.MEMORY_SIZE]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#02x ", result)
		}
	}

	fmt.Fprintln(w)
}

// Lists count instructions starting at addr, marking the program counter
func (dbg *Debugger) PrintDisassembly(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	for i := uint16(0); i < count; i++ {
		at := addr + i*machine.INSTRUCTION_SIZE

		marker := "  "
		if at == mc.Program {
			marker = "=>"
		}

		label := ""
		if dbg.SymTable != nil {
			if name, ok := dbg.SymTable.Labels[at]; ok {
				label = " \033[1;30m(" + name + ")\033[0m"
			}
		}

		fmt.Fprintf(
			w,
			"%s \033[1m[%#04x]\033[0m %s%s\n",
			marker,
			at,
			machine.Disassemble(mc.Memory[:], at),
			label,
		)
	}
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	w := dbg.out()

	for i, register := range mc.Registers {
		fmt.Fprintf(w, "\033[1mV%X:\033[0m %#02x\t", i, register)
		if i%8 == 7 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(
		w,
		"\033[1mPC:\033[0m %#04x\t\033[1mI:\033[0m %#04x\t"+
			"\033[1mDT:\033[0m %d\t\033[1mST:\033[0m %d\t\033[1mSP:\033[0m %d\n",
		mc.Program,
		mc.Index,
		mc.Delay,
		mc.Sound,
		mc.StackPointer,
	)

	for i := uint8(0); i < mc.StackPointer; i++ {
		fmt.Fprintf(w, "\033[1;30m#%02d:\033[0m %#04x\n", i, mc.Stack[i])
	}
}

// Dumps the framebuffer with one character per pixel
func (dbg *Debugger) PrintDisplay(mc *machine.MachineState) {
	w := dbg.out()

	var builder strings.Builder

	for _, row := range mc.Display {
		for _, pixel := range row {
			if pixel == 1 {
				builder.WriteRune('█')
			} else {
				builder.WriteRune('·')
			}
		}
		builder.WriteRune('\n')
	}

	fmt.Fprint(w, builder.String())
}
