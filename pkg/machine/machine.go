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
	"io"
	"math/rand"
)

func (mc *MachineState) Reset() {
	*mc = MachineState{}

	copy(mc.Memory[MEMSPACE_FONT:], FONTSET[:])

	// Programs begin at the fixed program origin
	mc.Program = MEMSPACE_PROGRAM
}

// Copies a program image into memory at MEMSPACE_PROGRAM. Bytes past the end
// of memory are dropped.
func (mc *Machine) LoadProgram(program []byte) {
	copy(mc.State.Memory[MEMSPACE_PROGRAM:], program)
}

// Resets the machine and loads a program image from reader
func (mc *Machine) LoadBin(reader io.Reader) error {
	mc.Reset()

	program, err := io.ReadAll(reader)

	if err != nil {
		return err
	}

	mc.LoadProgram(program)

	return nil
}

func (mc *Machine) Reset() {
	mc.State.Reset()
	mc.dirty = false
	mc.fault = nil
}

func (mc *Machine) read(addr uint16) uint8 {
	addr %= MEMORY_SIZE

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr uint16, value uint8) {
	addr %= MEMORY_SIZE

	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) push(value uint16) error {
	if int(mc.State.StackPointer) >= STACK_SIZE {
		return &StackOverflowError{mc.State.Program, int(mc.State.StackPointer) + 1}
	}

	mc.State.Stack[mc.State.StackPointer] = value
	mc.State.StackPointer++

	return nil
}

func (mc *Machine) pop() (uint16, error) {
	if mc.State.StackPointer == 0 {
		return 0, &StackUnderflowError{mc.State.Program}
	}

	mc.State.StackPointer--

	return mc.State.Stack[mc.State.StackPointer], nil
}

func (mc *Machine) random() uint8 {
	if mc.Random != nil {
		return uint8(mc.Random.Intn(256))
	}

	return uint8(rand.Intn(256))
}

func (mc *Machine) Status() Status {
	if mc.fault != nil {
		return STATUS_FAULTED
	} else if mc.State.Awaiting {
		return STATUS_AWAITING_KEY
	}

	return STATUS_RUNNING
}

// Returns the error that halted the machine, if any
func (mc *Machine) Fault() error {
	return mc.fault
}

// Runs one cycle: either resolves a pending key wait, or executes the
// instruction at the program counter and then ticks both timers. A non-nil
// error is fatal and is returned again by every later call.
func (mc *Machine) Step() error {
	mc.dirty = false

	if mc.fault != nil {
		return mc.fault
	}

	if mc.State.Awaiting {
		for key, pressed := range mc.State.Keys {
			if pressed {
				mc.State.Registers[mc.State.AwaitRegister] = uint8(key)
				mc.State.Awaiting = false
				break
			}
		}

		return nil
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	pc := mc.State.Program
	opcode := uint16(mc.read(pc))<<8 | uint16(mc.read(pc+1))

	ins, err := Decode(opcode)

	if err == nil {
		err = mc.execute(ins)
	}

	if err != nil {
		if opErr, ok := err.(*UnknownOpcodeError); ok {
			opErr.Addr = pc
		}

		mc.fault = err
		return err
	}

	if mc.State.Delay > 0 {
		mc.State.Delay--
	}

	if mc.State.Sound > 0 {
		mc.State.Sound--
	}

	return nil
}

func (mc *Machine) skipIf(condition bool) {
	if condition {
		mc.State.Program += INSTRUCTION_SIZE
	}

	mc.State.Program += INSTRUCTION_SIZE
}

func (mc *Machine) setFlag(condition bool) {
	if condition {
		mc.State.Registers[REG_FLAGS] = 1
	} else {
		mc.State.Registers[REG_FLAGS] = 0
	}
}

func (mc *Machine) execute(ins Instruction) error {
	regs := &mc.State.Registers
	x, y := ins.X, ins.Y

	switch ins.Op {
	// CLS  |0000|0000|1110|0000| Clear screen
	case OP_CLS:
		mc.State.Display = Framebuffer{}
		mc.dirty = true

	// RET  |0000|0000|1110|1110| Return from subroutine
	case OP_RET:
		addr, err := mc.pop()

		if err != nil {
			return err
		}

		// The stack holds the address of the CALL itself
		mc.State.Program = addr + INSTRUCTION_SIZE
		return nil

	// JP   |0001|addr          | Jump
	case OP_JP:
		mc.State.Program = ins.NNN
		return nil

	// CALL |0010|addr          | Call subroutine
	case OP_CALL:
		if err := mc.push(mc.State.Program); err != nil {
			return err
		}

		mc.State.Program = ins.NNN
		return nil

	// SE   |0011|Vx  |byte     | Skip if equal
	case OP_SE_IMM:
		mc.skipIf(regs[x] == ins.NN)
		return nil

	// SNE  |0100|Vx  |byte     | Skip if not equal
	case OP_SNE_IMM:
		mc.skipIf(regs[x] != ins.NN)
		return nil

	// SE   |0101|Vx  |Vy  |0000| Skip if registers equal
	case OP_SE_REG:
		mc.skipIf(regs[x] == regs[y])
		return nil

	// SNE  |1001|Vx  |Vy  |0000| Skip if registers not equal
	case OP_SNE_REG:
		mc.skipIf(regs[x] != regs[y])
		return nil

	// LD   |0110|Vx  |byte     | Set immediate
	case OP_LD_IMM:
		regs[x] = ins.NN

	// ADD  |0111|Vx  |byte     | Add immediate, no carry
	case OP_ADD_IMM:
		regs[x] += ins.NN

	// LD   |1000|Vx  |Vy  |0000| Copy
	case OP_LD_REG:
		regs[x] = regs[y]

	// OR   |1000|Vx  |Vy  |0001|
	case OP_OR:
		regs[x] |= regs[y]

	// AND  |1000|Vx  |Vy  |0010|
	case OP_AND:
		regs[x] &= regs[y]

	// XOR  |1000|Vx  |Vy  |0011|
	case OP_XOR:
		regs[x] ^= regs[y]

	// ADD  |1000|Vx  |Vy  |0100| Add, VF = carry
	case OP_ADD_REG:
		sum := uint16(regs[x]) + uint16(regs[y])
		regs[x] = uint8(sum)
		mc.setFlag(sum > 0xFF)

	// SUB  |1000|Vx  |Vy  |0101| Vx = Vx - Vy, VF = borrow
	case OP_SUB:
		vx, vy := regs[x], regs[y]
		regs[x] = vx - vy
		mc.setFlag(vx < vy)

	// SHR  |1000|Vx  |Vy  |0110| Shift right, VF = lsb
	case OP_SHR:
		vx := regs[x]
		regs[x] = vx >> 1
		mc.setFlag(vx&0x01 != 0)

	// SUBN |1000|Vx  |Vy  |0111| Vx = Vy - Vx, VF = 1 when Vx < Vy
	case OP_SUBN:
		vx, vy := regs[x], regs[y]
		regs[x] = vy - vx
		mc.setFlag(vx < vy)

	// SHL  |1000|Vx  |Vy  |1110| Shift left, VF = msb
	case OP_SHL:
		vx := regs[x]
		regs[x] = vx << 1
		mc.setFlag(vx&0x80 != 0)

	// LD   |1010|addr          | Set index
	case OP_LD_I:
		mc.State.Index = ins.NNN

	// JP   |1011|addr          | Jump to addr + V0
	case OP_JP_V0:
		mc.State.Program = ins.NNN + uint16(regs[0])
		return nil

	// RND  |1100|Vx  |byte     | Random byte masked
	case OP_RND:
		regs[x] = mc.random() & ins.NN

	// DRW  |1101|Vx  |Vy  |n   | Draw n-row sprite from [I]
	case OP_DRW:
		mc.draw(regs[x], regs[y], ins.N)

	// SKP  |1110|Vx  |1001|1110| Skip if key Vx pressed
	case OP_SKP:
		mc.skipIf(mc.State.Keys[regs[x]&0xF])
		return nil

	// SKNP |1110|Vx  |1010|0001| Skip if key Vx not pressed
	case OP_SKNP:
		mc.skipIf(!mc.State.Keys[regs[x]&0xF])
		return nil

	// LD   |1111|Vx  |0000|0111| Read delay timer
	case OP_LD_DT_READ:
		regs[x] = mc.State.Delay

	// LD   |1111|Vx  |0000|1010| Wait for key, resolved on later cycles
	case OP_LD_K:
		mc.State.Awaiting = true
		mc.State.AwaitRegister = x

	// LD   |1111|Vx  |0001|0101| Set delay timer
	case OP_LD_DT:
		mc.State.Delay = regs[x]

	// LD   |1111|Vx  |0001|1000| Set sound timer
	case OP_LD_ST:
		mc.State.Sound = regs[x]

	// ADD  |1111|Vx  |0001|1110| I += Vx
	case OP_ADD_I:
		mc.State.Index += uint16(regs[x])

	// LD   |1111|Vx  |0010|1001| I = glyph for Vx
	case OP_LD_F:
		mc.State.Index = MEMSPACE_FONT + uint16(regs[x])*GLYPH_HEIGHT

	// LD   |1111|Vx  |0011|0011| BCD of Vx at [I]
	case OP_LD_B:
		vx := regs[x]
		mc.write(mc.State.Index, vx/100)
		mc.write(mc.State.Index+1, (vx%100)/10)
		mc.write(mc.State.Index+2, vx%10)

	// LD   |1111|Vx  |0101|0101| Store V0..Vx at [I], I += x + 1
	case OP_LD_STORE:
		for i := uint16(0); i <= uint16(x); i++ {
			mc.write(mc.State.Index+i, regs[i])
		}
		mc.State.Index += uint16(x) + 1

	// LD   |1111|Vx  |0110|0101| Load V0..Vx from [I], I += x + 1
	case OP_LD_LOAD:
		for i := uint16(0); i <= uint16(x); i++ {
			regs[i] = mc.read(mc.State.Index + i)
		}
		mc.State.Index += uint16(x) + 1
	}

	mc.State.Program += INSTRUCTION_SIZE

	return nil
}
