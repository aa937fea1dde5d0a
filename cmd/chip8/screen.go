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
	"fmt"
	"io"
	"strings"

	"github.com/paul-mannino/chip8/pkg/machine"
)

// Two pixel rows share one terminal row, plus a status line
const (
	screenColumns = machine.DISPLAY_WIDTH
	screenRows    = machine.DISPLAY_HEIGHT/2 + 1
)

func renderScreen(w io.Writer, display *machine.Framebuffer, status string) error {
	var builder strings.Builder

	builder.Grow((screenColumns*3 + 1) * screenRows)
	builder.WriteString("\033[H")

	for row := 0; row < machine.DISPLAY_HEIGHT; row += 2 {
		for col := 0; col < machine.DISPLAY_WIDTH; col++ {
			top := display[row][col] != 0
			bottom := display[row+1][col] != 0

			switch {
			case top && bottom:
				builder.WriteRune('█')
			case top:
				builder.WriteRune('▀')
			case bottom:
				builder.WriteRune('▄')
			default:
				builder.WriteRune(' ')
			}
		}

		builder.WriteString("\n")
	}

	builder.WriteString("\033[2K")
	builder.WriteString(status)

	_, err := io.WriteString(w, builder.String())

	return err
}

func statusLine(mc *machine.Machine) string {
	return fmt.Sprintf(
		"\033[1;30mPC\033[0m %#04x  \033[1;30mI\033[0m %#04x  "+
			"\033[1;30mDT\033[0m %3d  \033[1;30mST\033[0m %3d  "+
			"\033[1;30mKEYS\033[0m %016b",
		mc.State.Program,
		mc.State.Index,
		mc.DelayTimer(),
		mc.SoundTimer(),
		mc.Keys(),
	)
}
