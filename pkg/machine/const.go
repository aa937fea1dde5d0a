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

const (
	MEMORY_SIZE      = 4096
	REGISTER_COUNT   = 16
	STACK_SIZE       = 16
	KEY_COUNT        = 16
	DISPLAY_WIDTH    = 64
	DISPLAY_HEIGHT   = 32
	INSTRUCTION_SIZE = 2
	GLYPH_HEIGHT     = 5
)

const (
	MEMSPACE_FONT    uint16 = 0x0000
	MEMSPACE_PROGRAM uint16 = 0x0200

	ProgramCapacity = MEMORY_SIZE - int(MEMSPACE_PROGRAM)
)

// Register 0xF doubles as carry, borrow, shifted-out bit and collision flag
const REG_FLAGS = 0xF

const (
	STATUS_RUNNING Status = iota
	STATUS_AWAITING_KEY
	STATUS_FAULTED
)

const (
	OP_CLS Op = iota
	OP_RET
	OP_JP
	OP_CALL
	OP_SE_IMM
	OP_SNE_IMM
	OP_SE_REG
	OP_LD_IMM
	OP_ADD_IMM
	OP_LD_REG
	OP_OR
	OP_AND
	OP_XOR
	OP_ADD_REG
	OP_SUB
	OP_SHR
	OP_SUBN
	OP_SHL
	OP_SNE_REG
	OP_LD_I
	OP_JP_V0
	OP_RND
	OP_DRW
	OP_SKP
	OP_SKNP
	OP_LD_DT_READ
	OP_LD_K
	OP_LD_DT
	OP_LD_ST
	OP_ADD_I
	OP_LD_F
	OP_LD_B
	OP_LD_STORE
	OP_LD_LOAD
)

// Hexadecimal digit sprites 0-F, one glyph per GLYPH_HEIGHT rows
var FONTSET = [16 * GLYPH_HEIGHT]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
