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

package encoding_test

import (
	"testing"

	"github.com/paul-mannino/chip8/pkg/encoding"
)

func TestDecodeHex(t *testing.T) {
	type testCase struct {
		Input  string
		Output uint16
		Fail   bool
	}

	for _, test := range []testCase{
		{Input: "0x2A", Output: 0x2A},
		{Input: "x2A", Output: 0x2A},
		{Input: "0XFFFF", Output: 0xFFFF},
		{Input: "0x10000", Fail: true},
		{Input: "2A", Fail: true},
		{Input: "0xZZ", Fail: true},
	} {
		have, err := encoding.DecodeHex(test.Input)

		if test.Fail {
			if err == nil {
				t.Fatalf("%s: want:error have:%#04x", test.Input, have)
			}
			continue
		}

		if err != nil {
			t.Fatalf("%s: %v", test.Input, err)
		}

		if have != test.Output {
			t.Fatalf("%s\nwant:%#04x\nhave:%#04x", test.Input, test.Output, have)
		}
	}
}

func TestDecodeInt(t *testing.T) {
	type testCase struct {
		Input  string
		Output int32
		Fail   bool
	}

	for _, test := range []testCase{
		{Input: "#42", Output: 42},
		{Input: "42", Output: 42},
		{Input: "-12", Output: -12},
		{Input: "#-1", Output: -1},
		{Input: "4a", Fail: true},
	} {
		have, err := encoding.DecodeInt(test.Input)

		if test.Fail {
			if err == nil {
				t.Fatalf("%s: want:error have:%d", test.Input, have)
			}
			continue
		}

		if err != nil {
			t.Fatalf("%s: %v", test.Input, err)
		}

		if have != test.Output {
			t.Fatalf("%s\nwant:%d\nhave:%d", test.Input, test.Output, have)
		}
	}
}

func TestDecodeBinary(t *testing.T) {
	type testCase struct {
		Input  string
		Output uint16
		Fail   bool
	}

	for _, test := range []testCase{
		{Input: "0b10101100", Output: 0xAC},
		{Input: "b1", Output: 1},
		{Input: "0b2", Fail: true},
		{Input: "1010", Fail: true},
	} {
		have, err := encoding.DecodeBinary(test.Input)

		if test.Fail {
			if err == nil {
				t.Fatalf("%s: want:error have:%#04x", test.Input, have)
			}
			continue
		}

		if err != nil {
			t.Fatalf("%s: %v", test.Input, err)
		}

		if have != test.Output {
			t.Fatalf("%s\nwant:%#04x\nhave:%#04x", test.Input, test.Output, have)
		}
	}
}

func TestNibble(t *testing.T) {
	const opcode = 0xD125

	for index, want := range []uint8{0xD, 0x1, 0x2, 0x5} {
		if have := encoding.Nibble(opcode, uint(index)); have != want {
			t.Fatalf("Nibble %d\nwant:%X\nhave:%X", index, want, have)
		}
	}

	if have := encoding.Compose(0xD, 0x1, 0x2, 0x5); have != opcode {
		t.Fatalf("Compose\nwant:%#04x\nhave:%#04x", opcode, have)
	}
}
