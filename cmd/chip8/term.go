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
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var termRestore unix.Termios

func enterRawTerm() {
	termios, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), ioctlReadTermios)

	if err != nil {
		panic(err)
	}

	termRestore = *termios
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 0
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlWriteTermios, &termstate,
	); err != nil {
		panic(err)
	}

	// Hide the cursor and clear the screen
	os.Stdout.WriteString("\033[?25l\033[H\033[2J")
}

func exitRawTerm() {
	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlWriteTermios, &termRestore,
	); err != nil {
		panic(err)
	}

	os.Stdout.WriteString("\033[?25h")
}

// Drains whatever is pending on stdin without blocking. Raw mode sets VMIN and
// VTIME to zero so the read returns immediately when nothing was typed.
func readPending(buffer []byte) []byte {
	n, err := unix.Read(int(os.Stdin.Fd()), buffer)

	if err != nil || n <= 0 {
		return nil
	}

	return buffer[:n]
}

// Reports whether the terminal can fit the half-block display and status line
func termFits() (bool, int, int) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false, 0, 0
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))

	if err != nil {
		return false, 0, 0
	}

	return width >= screenColumns && height >= screenRows, width, height
}
