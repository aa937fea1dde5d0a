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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123, -12
func DecodeInt(s string) (int32, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, err
	}

	return int32(result), nil
}

// Decodes a binary string in the formats: 0b10101100, b10101100
func DecodeBinary(s string) (uint16, error) {
	if i := strings.IndexAny(s, "bB"); i == 0 {
		s = s[1:]
	} else if i == 1 && s[0] == '0' {
		s = s[2:]
	} else {
		return 0, errors.New("Invalid binary string")
	}

	result, err := strconv.ParseUint(s, 2, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Returns the 4-bit nibble at index (0 is the most significant) of an opcode
func Nibble(opcode uint16, index uint) uint8 {
	return uint8((opcode >> (12 - 4*index)) & 0xF)
}

// Builds an opcode from four nibbles, most significant first
func Compose(a, b, c, d uint8) uint16 {
	return uint16(a&0xF)<<12 | uint16(b&0xF)<<8 | uint16(c&0xF)<<4 | uint16(d&0xF)
}
