// Package diagfmt renders a diagnostic bag for the command line.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// ShowTitle appends the code title, e.g. "[CFG1001]: Unsupported bus width".
	ShowTitle bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // output cut-off, the bag is untouched
	IncludeNotes bool
}
