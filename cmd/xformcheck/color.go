package main

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// marker returns the PASS/FAIL formatter for w, coloured when w is a
// terminal.
func marker(w io.Writer) func(pass bool) string {
	color := false
	if f, ok := w.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}

	return func(pass bool) string {
		switch {
		case !color && pass:
			return "PASS"
		case !color:
			return "FAIL"
		case pass:
			return ansiGreen + "PASS" + ansiReset
		default:
			return ansiRed + "FAIL" + ansiReset
		}
	}
}
