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

package debugger_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/paul-mannino/chip8/pkg/assembler"
	"github.com/paul-mannino/chip8/pkg/debugger"
	"github.com/paul-mannino/chip8/pkg/machine"
)

func newMachine(t *testing.T, dbg *debugger.Debugger, program ...byte) *machine.Machine {
	t.Helper()

	var mc machine.Machine
	mc.Reset()
	mc.LoadProgram(program)
	mc.Debugger = dbg

	return &mc
}

func step(t *testing.T, mc *machine.Machine, count int) {
	t.Helper()

	for i := 0; i < count; i++ {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBreakpoint(t *testing.T) {
	var breaks []uint16

	dbg := debugger.Debugger{
		HandleBreak: func(dbg *debugger.Debugger, mc *machine.Machine) {
			breaks = append(breaks, mc.State.Program)
		},
		HandleRead:  func(uint16, *debugger.Debugger, *machine.Machine) {},
		HandleWrite: func(uint16, *debugger.Debugger, *machine.Machine) {},
	}

	mc := newMachine(t, &dbg,
		0x60, 0x01, // LD V0, 0x01
		0x61, 0x02, // LD V1, 0x02
		0x12, 0x04, // JP 0x204
	)

	if !dbg.AddBreakpoint(0x202) {
		t.Fatal("Breakpoint rejected")
	}

	if dbg.AddBreakpoint(0x202) {
		t.Fatal("Duplicate breakpoint accepted")
	}

	step(t, mc, 4)

	if want := []uint16{0x202}; !reflect.DeepEqual(breaks, want) {
		t.Fatalf("Breakpoint mismatch\nwant:%v\nhave:%v", want, breaks)
	}

	breaks = nil
	dbg.Break = true

	step(t, mc, 2)

	if want := []uint16{0x204, 0x204}; !reflect.DeepEqual(breaks, want) {
		t.Fatalf("Break mismatch\nwant:%v\nhave:%v", want, breaks)
	}
}

func TestWatchpoint(t *testing.T) {
	var reads []uint16
	var writes []uint16

	dbg := debugger.Debugger{
		HandleBreak: func(*debugger.Debugger, *machine.Machine) {},
		HandleRead: func(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
			reads = append(reads, addr)
		},
		HandleWrite: func(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
			writes = append(writes, addr)
		},
	}

	mc := newMachine(t, &dbg,
		0xA3, 0x00, // LD I, 0x300
		0x60, 0x07, // LD V0, 0x07
		0xF0, 0x55, // LD [I], V0
		0xF1, 0x65, // LD V1, [I]
	)

	dbg.AddWatchpoint(0x300, debugger.WriteWatch)
	dbg.AddWatchpoint(0x301, debugger.ReadWriteWatch)

	if dbg.AddWatchpoint(0x300, debugger.WriteWatch) {
		t.Fatal("Duplicate watchpoint accepted")
	}

	step(t, mc, 3)

	if want := []uint16{0x300}; !reflect.DeepEqual(writes, want) {
		t.Fatalf("Write watch mismatch\nwant:%v\nhave:%v", want, writes)
	}

	if len(reads) != 0 {
		t.Fatalf("Unexpected read watch\nwant:[]\nhave:%v", reads)
	}

	step(t, mc, 1)

	if want := []uint16{0x301}; !reflect.DeepEqual(reads, want) {
		t.Fatalf("Read watch mismatch\nwant:%v\nhave:%v", want, reads)
	}

	if have := mc.State.Registers[1]; have != 0 {
		t.Fatalf("Register mismatch\nwant:0x00\nhave:%#02x", have)
	}
}

func TestLabelAddr(t *testing.T) {
	var dbg debugger.Debugger

	if _, ok := dbg.LabelAddr("start"); ok {
		t.Fatal("Label found without a symbol table")
	}

	dbg.SymTable = assembler.NewSymTable("game.c8")
	dbg.SymTable.Labels[0x200] = "start"

	addr, ok := dbg.LabelAddr("start")

	if !ok || addr != 0x200 {
		t.Fatalf("Label mismatch\nwant:0x200\nhave:%#04x (%v)", addr, ok)
	}
}

func TestPrint(t *testing.T) {
	var output bytes.Buffer

	dbg := debugger.Debugger{
		Output:   &output,
		SymTable: assembler.NewSymTable("game.c8"),
	}

	dbg.SymTable.Labels[0x200] = "start"

	mc := newMachine(t, &dbg,
		0x60, 0x07, // LD V0, 0x07
		0xD0, 0x05, // DRW V0, V0, 5
	)

	dbg.PrintMem(&mc.State, 0x200, 4)

	if have := output.String(); !strings.Contains(have, "[0x0200]") ||
		!strings.Contains(have, "0x60 0x07 0xd0 0x05") {
		t.Fatalf("Memory dump mismatch\nhave:%q", have)
	}

	output.Reset()
	dbg.PrintDisassembly(&mc.State, 0x200, 2)

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")

	if len(lines) != 2 {
		t.Fatalf("Disassembly length mismatch\nwant:2\nhave:%d", len(lines))
	}

	if !strings.HasPrefix(lines[0], "=>") ||
		!strings.Contains(lines[0], "LD V0, 0x07") ||
		!strings.Contains(lines[0], "(start)") {
		t.Fatalf("Disassembly mismatch\nhave:%q", lines[0])
	}

	if !strings.Contains(lines[1], "DRW V0, V0, 5") {
		t.Fatalf("Disassembly mismatch\nhave:%q", lines[1])
	}

	output.Reset()
	dbg.PrintSource(0x200, 1)

	if have := output.String(); have != "No source file loaded\n" {
		t.Fatalf("Source mismatch\nwant:%q\nhave:%q", "No source file loaded\n", have)
	}
}

func TestPrintSource(t *testing.T) {
	var output bytes.Buffer

	source := "start:\nLD V0, 0x07\nDRW V0, V0, 5\n"
	symtable := assembler.NewSymTable("game.c8")

	program, errs := assembler.AssembleSource(strings.NewReader(source), symtable)

	if len(errs) > 0 {
		t.Fatal(errs[0])
	}

	dbg := debugger.Debugger{
		Output:   &output,
		Source:   strings.NewReader(source),
		SymTable: symtable,
	}

	newMachine(t, &dbg, program...)

	dbg.PrintSource(0x202, 1)

	if have := output.String(); !strings.Contains(have, "[0x0202]") ||
		!strings.HasSuffix(have, "DRW V0, V0, 5\n") {
		t.Fatalf("Source mismatch\nhave:%q", have)
	}
}
