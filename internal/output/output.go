// Package output routes rendered text to one of two destinations: the
// data stream, which carries every formatter result and is meant to be
// piped or redirected, and the status stream, which carries short human
// notices. The two are never interleaved in a single write and status
// text never contaminates captured data output.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Router owns the two output streams.
type Router struct {
	data   io.Writer
	status io.Writer
}

// New builds a router over explicit writers. Tests pass buffers here.
func New(data, status io.Writer) *Router {
	return &Router{data: data, status: status}
}

// Default routes data to stdout and status to stderr.
func Default() *Router {
	return New(os.Stdout, os.Stderr)
}

// WriteData writes rendered pipeline output to the data stream, ensuring
// exactly one trailing newline.
func (r *Router) WriteData(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(r.data, text)
	if err != nil {
		return fmt.Errorf("write data stream: %w", err)
	}
	return nil
}

// WriteStatus writes a short human notice to the status stream.
func (r *Router) WriteStatus(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(r.status, text)
	if err != nil {
		return fmt.Errorf("write status stream: %w", err)
	}
	return nil
}

// Statusf formats and writes a status notice.
func (r *Router) Statusf(format string, args ...any) error {
	return r.WriteStatus(fmt.Sprintf(format, args...))
}
