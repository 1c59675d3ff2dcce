// Package terminfo probes the capabilities of the output device. The
// result is injected into the format dispatcher; nothing deeper in the
// pipeline reads terminal state ambiently, which keeps rendering testable
// without a real TTY.
package terminfo

import (
	"os"

	"golang.org/x/term"
)

// DefaultWidth is assumed when the device is interactive but its size
// cannot be determined.
const DefaultWidth = 80

// Capabilities describes the output device for the table formatter.
type Capabilities struct {
	// Interactive is true when output goes to a terminal rather than a
	// pipe or file.
	Interactive bool
	// Width is the terminal width in columns; meaningful only when
	// Interactive is true.
	Width int
}

// Detect probes a file descriptor, typically os.Stdout.
func Detect(f *os.File) Capabilities {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return Capabilities{}
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		width = DefaultWidth
	}
	return Capabilities{Interactive: true, Width: width}
}

// Plain returns the capabilities of a non-interactive device. Used for
// the --plain flag so scripted output is deterministic regardless of
// where stdout points.
func Plain() Capabilities {
	return Capabilities{}
}
