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

package machine

import (
	"fmt"

	"github.com/paul-mannino/chip8/pkg/encoding"
)

// Decodes a big-endian opcode into an Instruction. Patterns outside the
// instruction table return an *UnknownOpcodeError.
func Decode(opcode uint16) (Instruction, error) {
	ins := Instruction{Opcode: opcode}

	x := encoding.Nibble(opcode, 1)
	y := encoding.Nibble(opcode, 2)
	n := encoding.Nibble(opcode, 3)

	setXY := func(op Op) {
		ins.Op = op
		ins.X = x
		ins.Y = y
	}

	setXNN := func(op Op) {
		ins.Op = op
		ins.X = x
		ins.NN = uint8(opcode & 0xFF)
	}

	setNNN := func(op Op) {
		ins.Op = op
		ins.NNN = opcode & 0xFFF
	}

	switch encoding.Nibble(opcode, 0) {
	case 0x0:
		switch opcode {
		case 0x00E0:
			ins.Op = OP_CLS
		case 0x00EE:
			ins.Op = OP_RET
		default:
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}

	case 0x1:
		setNNN(OP_JP)

	case 0x2:
		setNNN(OP_CALL)

	case 0x3:
		setXNN(OP_SE_IMM)

	case 0x4:
		setXNN(OP_SNE_IMM)

	case 0x5:
		if n != 0 {
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}
		setXY(OP_SE_REG)

	case 0x6:
		setXNN(OP_LD_IMM)

	case 0x7:
		setXNN(OP_ADD_IMM)

	case 0x8:
		switch n {
		case 0x0:
			setXY(OP_LD_REG)
		case 0x1:
			setXY(OP_OR)
		case 0x2:
			setXY(OP_AND)
		case 0x3:
			setXY(OP_XOR)
		case 0x4:
			setXY(OP_ADD_REG)
		case 0x5:
			setXY(OP_SUB)
		case 0x6:
			setXY(OP_SHR)
		case 0x7:
			setXY(OP_SUBN)
		case 0xE:
			setXY(OP_SHL)
		default:
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}

	case 0x9:
		if n != 0 {
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}
		setXY(OP_SNE_REG)

	case 0xA:
		setNNN(OP_LD_I)

	case 0xB:
		setNNN(OP_JP_V0)

	case 0xC:
		setXNN(OP_RND)

	case 0xD:
		setXY(OP_DRW)
		ins.N = n

	case 0xE:
		switch opcode & 0xFF {
		case 0x9E:
			ins.Op = OP_SKP
		case 0xA1:
			ins.Op = OP_SKNP
		default:
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}
		ins.X = x

	case 0xF:
		switch opcode & 0xFF {
		case 0x07:
			ins.Op = OP_LD_DT_READ
		case 0x0A:
			ins.Op = OP_LD_K
		case 0x15:
			ins.Op = OP_LD_DT
		case 0x18:
			ins.Op = OP_LD_ST
		case 0x1E:
			ins.Op = OP_ADD_I
		case 0x29:
			ins.Op = OP_LD_F
		case 0x33:
			ins.Op = OP_LD_B
		case 0x55:
			ins.Op = OP_LD_STORE
		case 0x65:
			ins.Op = OP_LD_LOAD
		default:
			return ins, &UnknownOpcodeError{Opcode: opcode}
		}
		ins.X = x
	}

	return ins, nil
}

// Formats the instruction in the assembler's syntax
func (ins Instruction) String() string {
	switch ins.Op {
	case OP_CLS:
		return "CLS"
	case OP_RET:
		return "RET"
	case OP_JP:
		return fmt.Sprintf("JP %#03x", ins.NNN)
	case OP_CALL:
		return fmt.Sprintf("CALL %#03x", ins.NNN)
	case OP_SE_IMM:
		return fmt.Sprintf("SE V%X, %#02x", ins.X, ins.NN)
	case OP_SNE_IMM:
		return fmt.Sprintf("SNE V%X, %#02x", ins.X, ins.NN)
	case OP_SE_REG:
		return fmt.Sprintf("SE V%X, V%X", ins.X, ins.Y)
	case OP_LD_IMM:
		return fmt.Sprintf("LD V%X, %#02x", ins.X, ins.NN)
	case OP_ADD_IMM:
		return fmt.Sprintf("ADD V%X, %#02x", ins.X, ins.NN)
	case OP_LD_REG:
		return fmt.Sprintf("LD V%X, V%X", ins.X, ins.Y)
	case OP_OR:
		return fmt.Sprintf("OR V%X, V%X", ins.X, ins.Y)
	case OP_AND:
		return fmt.Sprintf("AND V%X, V%X", ins.X, ins.Y)
	case OP_XOR:
		return fmt.Sprintf("XOR V%X, V%X", ins.X, ins.Y)
	case OP_ADD_REG:
		return fmt.Sprintf("ADD V%X, V%X", ins.X, ins.Y)
	case OP_SUB:
		return fmt.Sprintf("SUB V%X, V%X", ins.X, ins.Y)
	case OP_SHR:
		return fmt.Sprintf("SHR V%X, V%X", ins.X, ins.Y)
	case OP_SUBN:
		return fmt.Sprintf("SUBN V%X, V%X", ins.X, ins.Y)
	case OP_SHL:
		return fmt.Sprintf("SHL V%X, V%X", ins.X, ins.Y)
	case OP_SNE_REG:
		return fmt.Sprintf("SNE V%X, V%X", ins.X, ins.Y)
	case OP_LD_I:
		return fmt.Sprintf("LD I, %#03x", ins.NNN)
	case OP_JP_V0:
		return fmt.Sprintf("JP V0, %#03x", ins.NNN)
	case OP_RND:
		return fmt.Sprintf("RND V%X, %#02x", ins.X, ins.NN)
	case OP_DRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", ins.X, ins.Y, ins.N)
	case OP_SKP:
		return fmt.Sprintf("SKP V%X", ins.X)
	case OP_SKNP:
		return fmt.Sprintf("SKNP V%X", ins.X)
	case OP_LD_DT_READ:
		return fmt.Sprintf("LD V%X, DT", ins.X)
	case OP_LD_K:
		return fmt.Sprintf("LD V%X, K", ins.X)
	case OP_LD_DT:
		return fmt.Sprintf("LD DT, V%X", ins.X)
	case OP_LD_ST:
		return fmt.Sprintf("LD ST, V%X", ins.X)
	case OP_ADD_I:
		return fmt.Sprintf("ADD I, V%X", ins.X)
	case OP_LD_F:
		return fmt.Sprintf("LD F, V%X", ins.X)
	case OP_LD_B:
		return fmt.Sprintf("LD B, V%X", ins.X)
	case OP_LD_STORE:
		return fmt.Sprintf("LD [I], V%X", ins.X)
	case OP_LD_LOAD:
		return fmt.Sprintf("LD V%X, [I]", ins.X)
	}

	return fmt.Sprintf(".DW %#04x", ins.Opcode)
}

// Disassembles the two bytes at addr. Words that do not decode are shown as
// data so that sprite tables can be listed alongside code.
func Disassemble(memory []uint8, addr uint16) string {
	opcode := fetch(memory, addr)

	ins, err := Decode(opcode)

	if err != nil {
		return fmt.Sprintf(".DW %#04x", opcode)
	}

	return ins.String()
}

func fetch(memory []uint8, addr uint16) uint16 {
	size := uint16(len(memory))
	hi := memory[addr%size]
	lo := memory[(addr+1)%size]

	return uint16(hi)<<8 | uint16(lo)
}
