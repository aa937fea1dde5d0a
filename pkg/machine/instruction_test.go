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

package machine_test

import (
	"errors"
	"testing"

	"github.com/paul-mannino/chip8/pkg/machine"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		Opcode uint16
		Want   machine.Instruction
		Text   string
	}{
		{0x00E0, machine.Instruction{Op: machine.OP_CLS}, "CLS"},
		{0x00EE, machine.Instruction{Op: machine.OP_RET}, "RET"},
		{0x1ABC, machine.Instruction{Op: machine.OP_JP, NNN: 0xABC}, "JP 0xabc"},
		{0x2300, machine.Instruction{Op: machine.OP_CALL, NNN: 0x300}, "CALL 0x300"},
		{0x3A42, machine.Instruction{Op: machine.OP_SE_IMM, X: 0xA, NN: 0x42}, "SE VA, 0x42"},
		{0x4A42, machine.Instruction{Op: machine.OP_SNE_IMM, X: 0xA, NN: 0x42}, "SNE VA, 0x42"},
		{0x5AB0, machine.Instruction{Op: machine.OP_SE_REG, X: 0xA, Y: 0xB}, "SE VA, VB"},
		{0x6107, machine.Instruction{Op: machine.OP_LD_IMM, X: 0x1, NN: 0x07}, "LD V1, 0x07"},
		{0x71FF, machine.Instruction{Op: machine.OP_ADD_IMM, X: 0x1, NN: 0xFF}, "ADD V1, 0xff"},
		{0x8120, machine.Instruction{Op: machine.OP_LD_REG, X: 1, Y: 2}, "LD V1, V2"},
		{0x8121, machine.Instruction{Op: machine.OP_OR, X: 1, Y: 2}, "OR V1, V2"},
		{0x8122, machine.Instruction{Op: machine.OP_AND, X: 1, Y: 2}, "AND V1, V2"},
		{0x8123, machine.Instruction{Op: machine.OP_XOR, X: 1, Y: 2}, "XOR V1, V2"},
		{0x8124, machine.Instruction{Op: machine.OP_ADD_REG, X: 1, Y: 2}, "ADD V1, V2"},
		{0x8125, machine.Instruction{Op: machine.OP_SUB, X: 1, Y: 2}, "SUB V1, V2"},
		{0x8126, machine.Instruction{Op: machine.OP_SHR, X: 1, Y: 2}, "SHR V1, V2"},
		{0x8127, machine.Instruction{Op: machine.OP_SUBN, X: 1, Y: 2}, "SUBN V1, V2"},
		{0x812E, machine.Instruction{Op: machine.OP_SHL, X: 1, Y: 2}, "SHL V1, V2"},
		{0x9120, machine.Instruction{Op: machine.OP_SNE_REG, X: 1, Y: 2}, "SNE V1, V2"},
		{0xA123, machine.Instruction{Op: machine.OP_LD_I, NNN: 0x123}, "LD I, 0x123"},
		{0xB123, machine.Instruction{Op: machine.OP_JP_V0, NNN: 0x123}, "JP V0, 0x123"},
		{0xC30F, machine.Instruction{Op: machine.OP_RND, X: 3, NN: 0x0F}, "RND V3, 0x0f"},
		{0xD12F, machine.Instruction{Op: machine.OP_DRW, X: 1, Y: 2, N: 0xF}, "DRW V1, V2, 15"},
		{0xE59E, machine.Instruction{Op: machine.OP_SKP, X: 5}, "SKP V5"},
		{0xE5A1, machine.Instruction{Op: machine.OP_SKNP, X: 5}, "SKNP V5"},
		{0xF507, machine.Instruction{Op: machine.OP_LD_DT_READ, X: 5}, "LD V5, DT"},
		{0xF50A, machine.Instruction{Op: machine.OP_LD_K, X: 5}, "LD V5, K"},
		{0xF515, machine.Instruction{Op: machine.OP_LD_DT, X: 5}, "LD DT, V5"},
		{0xF518, machine.Instruction{Op: machine.OP_LD_ST, X: 5}, "LD ST, V5"},
		{0xF51E, machine.Instruction{Op: machine.OP_ADD_I, X: 5}, "ADD I, V5"},
		{0xF529, machine.Instruction{Op: machine.OP_LD_F, X: 5}, "LD F, V5"},
		{0xF533, machine.Instruction{Op: machine.OP_LD_B, X: 5}, "LD B, V5"},
		{0xF555, machine.Instruction{Op: machine.OP_LD_STORE, X: 5}, "LD [I], V5"},
		{0xF565, machine.Instruction{Op: machine.OP_LD_LOAD, X: 5}, "LD V5, [I]"},
	}

	for _, test := range tests {
		have, err := machine.Decode(test.Opcode)

		if err != nil {
			t.Errorf("%#04x: unexpected error %s", test.Opcode, err)
			continue
		}

		test.Want.Opcode = test.Opcode

		if have != test.Want {
			t.Errorf("Decode mismatch\nwant:%+v\nhave:%+v", test.Want, have)
		}

		if text := have.String(); text != test.Text {
			t.Errorf("Disassembly mismatch\nwant:%s\nhave:%s", test.Text, text)
		}
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, opcode := range []uint16{
		0x0000, 0x00E1, 0x0FFF, 0x5001, 0x800F, 0x8008, 0x900A, 0xE000, 0xE09F,
		0xF000, 0xF066, 0xF0FF,
	} {
		_, err := machine.Decode(opcode)

		var opErr *machine.UnknownOpcodeError
		if !errors.As(err, &opErr) || opErr.Opcode != opcode {
			t.Errorf("%#04x: want *UnknownOpcodeError, have %v", opcode, err)
		}
	}
}

func TestDisassemble(t *testing.T) {
	memory := []uint8{0xA2, 0x0A, 0xFF, 0xFF, 0x00}

	if have := machine.Disassemble(memory, 0); have != "LD I, 0x20a" {
		t.Errorf("Disassembly mismatch\nwant:LD I, 0x20a\nhave:%s", have)
	}

	if have := machine.Disassemble(memory, 2); have != ".DW 0xffff" {
		t.Errorf("Disassembly mismatch\nwant:.DW 0xffff\nhave:%s", have)
	}

	// Reads past the end wrap to the start
	if have := machine.Disassemble(memory, 4); have != ".DW 0x00a2" {
		t.Errorf("Disassembly mismatch\nwant:.DW 0x00a2\nhave:%s", have)
	}
}
