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
	"math/rand"
)

type Status uint
type Op uint

// Framebuffer is indexed [row][column]; every cell holds 0 or 1
type Framebuffer [DISPLAY_HEIGHT][DISPLAY_WIDTH]uint8

type MachineState struct {
	Registers    [REGISTER_COUNT]uint8
	Index        uint16
	Program      uint16
	Stack        [STACK_SIZE]uint16
	StackPointer uint8
	Delay        uint8
	Sound        uint8
	Keys         [KEY_COUNT]bool

	Awaiting      bool
	AwaitRegister uint8

	Display Framebuffer
	Memory  [MEMORY_SIZE]uint8
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger

	// Source for RND; the package-level source is used when nil
	Random *rand.Rand

	dirty bool
	fault error
}

// Instruction is a decoded opcode. Only the operand fields used by Op are
// meaningful, the others are left zero.
type Instruction struct {
	Op     Op
	Opcode uint16
	X      uint8
	Y      uint8
	N      uint8
	NN     uint8
	NNN    uint16
}

type UnknownOpcodeError struct {
	Addr   uint16
	Opcode uint16
}

func (err *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%#04x: Unknown opcode %#04x", err.Addr, err.Opcode)
}

type StackOverflowError struct {
	Addr  uint16
	Depth int
}

func (err *StackOverflowError) Error() string {
	return fmt.Sprintf(
		"%#04x: Stack overflow\n\twant:<%d\n\thave:%d", err.Addr, STACK_SIZE, err.Depth,
	)
}

type StackUnderflowError struct {
	Addr uint16
}

func (err *StackUnderflowError) Error() string {
	return fmt.Sprintf("%#04x: Return with empty stack", err.Addr)
}
