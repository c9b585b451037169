package diagfmt

import (
	"encoding/json"
	"io"
	"strings"

	"svreg/internal/diag"
)

// DiagnosticJSON is one diagnostic in JSON output.
type DiagnosticJSON struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Subject  string   `json:"subject,omitempty"`
	Message  string   `json:"message"`
	Notes    []string `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput converts the bag; Count is the bag size even when
// Max cuts the list.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	out.Count = len(items)
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	for _, d := range items {
		j := DiagnosticJSON{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Subject:  d.Subject,
			Message:  d.Message,
		}
		if opts.IncludeNotes {
			j.Notes = d.Notes
		}
		out.Diagnostics = append(out.Diagnostics, j)
	}
	return out
}

// JSON writes the bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
