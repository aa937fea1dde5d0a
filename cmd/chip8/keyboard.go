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
	"time"

	"github.com/paul-mannino/chip8/pkg/machine"
)

// 1 2 3 4      1 2 3 C
// q w e r  ->  4 5 6 D
// a s d f      7 8 9 E
// z x c v      A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

const (
	KEY_CTRL_C = 0x03
	KEY_ESCAPE = 0x1B
)

// Terminals only report key presses, so every press holds the key down for a
// fixed duration and it is released once that lapses.
type keyboard struct {
	hold    time.Duration
	expires [machine.KEY_COUNT]time.Time
}

// Latches the keys found in input. Returns true when input asks to quit,
// either a bare escape or ctrl-c.
func (kb *keyboard) press(input []byte, now time.Time) bool {
	for i := 0; i < len(input); i++ {
		char := input[i]

		switch char {
		case KEY_CTRL_C:
			return true
		case KEY_ESCAPE:
			if i+1 == len(input) || (input[i+1] != '[' && input[i+1] != 'O') {
				return true
			}

			// Arrow and function keys arrive as escape sequences, skip up to
			// the final byte
			for i += 2; i < len(input) && (input[i] < 0x40 || input[i] > 0x7E); i++ {
			}

			continue
		}

		if char >= 'A' && char <= 'Z' {
			char += 'a' - 'A'
		}

		if key, ok := keymap[char]; ok {
			kb.expires[key] = now.Add(kb.hold)
		}
	}

	return false
}

func (kb *keyboard) mask(now time.Time) uint16 {
	var mask uint16

	for key, expires := range kb.expires {
		if now.Before(expires) {
			mask |= 1 << key
		}
	}

	return mask
}
