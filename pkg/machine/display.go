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

// XOR-blits rows bytes from [I] at (vx, vy). Each pixel wraps around the
// screen edges on its own; VF reports whether any lit pixel was cleared.
func (mc *Machine) draw(vx, vy uint8, rows uint8) {
	collision := false

	for row := uint16(0); row < uint16(rows); row++ {
		sprite := mc.read(mc.State.Index + row)
		py := (int(vy) + int(row)) % DISPLAY_HEIGHT

		for col := 0; col < 8; col++ {
			bit := (sprite >> (7 - col)) & 0x1
			px := (int(vx) + col) % DISPLAY_WIDTH

			if bit == 1 && mc.State.Display[py][px] == 1 {
				collision = true
			}

			mc.State.Display[py][px] ^= bit
		}
	}

	mc.setFlag(collision)
	mc.dirty = true
}

// Reports whether the most recent Step cleared or drew on the display
func (mc *Machine) DisplayDirty() bool {
	return mc.dirty
}

// Returns a copy of the display
func (mc *Machine) Display() Framebuffer {
	return mc.State.Display
}

// Returns the display as row-major bytes, one byte (0 or 1) per pixel
func (mc *Machine) FlattenedDisplay() []byte {
	result := make([]byte, 0, DISPLAY_WIDTH*DISPLAY_HEIGHT)

	for _, row := range mc.State.Display {
		result = append(result, row[:]...)
	}

	return result
}

func (mc *Machine) DisplayWidth() int {
	return DISPLAY_WIDTH
}

func (mc *Machine) DisplayHeight() int {
	return DISPLAY_HEIGHT
}

func (mc *Machine) SetKey(key int, pressed bool) {
	mc.State.Keys[key&0xF] = pressed
}

// Replaces the whole key latch; bit n of mask is key n
func (mc *Machine) SetKeys(mask uint16) {
	for key := range mc.State.Keys {
		mc.State.Keys[key] = mask&(1<<key) != 0
	}
}

// Marks keys as pressed without releasing the others
func (mc *Machine) PressKeys(keys ...int) {
	for _, key := range keys {
		mc.SetKey(key, true)
	}
}

func (mc *Machine) Keys() uint16 {
	var mask uint16

	for key, pressed := range mc.State.Keys {
		if pressed {
			mask |= 1 << key
		}
	}

	return mask
}

func (mc *Machine) DelayTimer() uint8 {
	return mc.State.Delay
}

func (mc *Machine) SoundTimer() uint8 {
	return mc.State.Sound
}

// Reports whether a host should be sounding its tone
func (mc *Machine) Sounding() bool {
	return mc.State.Sound > 0
}
