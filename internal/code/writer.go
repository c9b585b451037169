// Package code accumulates generated text with indentation.
package code

import (
	"strings"
)

// Options controls indentation.
type Options struct {
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 2
	}
	return o
}

// Writer accumulates generated lines and emits canonical indentation at the
// start of every non-empty line.
type Writer struct {
	opt         Options
	buf         []byte
	indentLevel int
	atLineStart bool
}

// NewWriter creates an empty writer.
func NewWriter(opt Options) *Writer {
	return &Writer{
		opt:         opt.withDefaults(),
		buf:         make([]byte, 0, 1024),
		atLineStart: true,
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string {
	return string(w.buf)
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) writeIndent() {
	if !w.atLineStart {
		return
	}
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
	} else {
		for range w.indentLevel * w.opt.IndentWidth {
			w.buf = append(w.buf, ' ')
		}
	}
	w.atLineStart = false
}

// WriteString writes s, indenting every line it starts. Embedded newlines
// are honoured so multi-line fragments keep the current indentation.
func (w *Writer) WriteString(s string) {
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if line != "" {
			w.writeIndent()
			w.buf = append(w.buf, line...)
		}
		if !found {
			return
		}
		w.buf = append(w.buf, '\n')
		w.atLineStart = true
		s = rest
	}
}

// Write appends every part and returns the writer for chaining.
func (w *Writer) Write(parts ...string) *Writer {
	for _, p := range parts {
		w.WriteString(p)
	}
	return w
}

// Line writes the parts followed by a newline.
func (w *Writer) Line(parts ...string) *Writer {
	w.Write(parts...)
	w.Newline()
	return w
}

// Newline terminates the current line. Empty lines are not indented.
func (w *Writer) Newline() {
	w.buf = append(w.buf, '\n')
	w.atLineStart = true
}

// EnsureNewline terminates the current line unless the output already ends
// with one.
func (w *Writer) EnsureNewline() {
	if len(w.buf) > 0 && !w.atLineStart {
		w.Newline()
	}
}

// Indent runs fn one level deeper.
func (w *Writer) Indent(fn func()) {
	w.indentLevel++
	defer func() { w.indentLevel-- }()
	fn()
}
