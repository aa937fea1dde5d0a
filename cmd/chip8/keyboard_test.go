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
	"testing"
	"time"
)

func TestKeyboard(t *testing.T) {
	type testCase struct {
		Name  string
		Input string
		Mask  uint16
		Quit  bool
	}

	tests := []testCase{
		{Name: "Digit", Input: "1", Mask: 1 << 0x1},
		{Name: "Column", Input: "4rfv", Mask: 1<<0xC | 1<<0xD | 1<<0xE | 1<<0xF},
		{Name: "Uppercase", Input: "X", Mask: 1 << 0x0},
		{Name: "Unmapped", Input: "p9", Mask: 0},
		{Name: "Escape", Input: "\x1b", Quit: true},
		{Name: "Ctrl-C", Input: "a\x03", Quit: true},
		{Name: "Arrow", Input: "\x1b[A", Mask: 0},
	}

	now := time.Unix(0, 0)

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			kb := keyboard{hold: 100 * time.Millisecond}

			if quit := kb.press([]byte(test.Input), now); quit != test.Quit {
				t.Fatalf("Quit mismatch\nwant:%v\nhave:%v", test.Quit, quit)
			}

			if test.Quit {
				return
			}

			if have := kb.mask(now); have != test.Mask {
				t.Fatalf("Key mask mismatch\nwant:%016b\nhave:%016b", test.Mask, have)
			}
		})
	}
}

func TestKeyboardHold(t *testing.T) {
	kb := keyboard{hold: 100 * time.Millisecond}
	now := time.Unix(0, 0)

	kb.press([]byte("w"), now)

	if have := kb.mask(now.Add(99 * time.Millisecond)); have != 1<<0x5 {
		t.Fatalf("Key released early\nwant:%016b\nhave:%016b", 1<<0x5, have)
	}

	if have := kb.mask(now.Add(100 * time.Millisecond)); have != 0 {
		t.Fatalf("Key not released\nwant:0\nhave:%016b", have)
	}

	kb.press([]byte("w"), now.Add(50*time.Millisecond))

	if have := kb.mask(now.Add(120 * time.Millisecond)); have != 1<<0x5 {
		t.Fatalf("Repeat did not extend hold\nwant:%016b\nhave:%016b", 1<<0x5, have)
	}
}
