package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"svreg/internal/diag"
)

type palette struct {
	subject, note *color.Color
	severity      map[diag.Severity]*color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		subject: color.New(color.Bold),
		note:    color.New(color.FgCyan),
		severity: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgBlue),
		},
	}
	all := []*color.Color{p.subject, p.note}
	for _, c := range p.severity {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes one line per diagnostic,
//
//	<subject>: <severity> <CODE>: <message>
//
// followed by its notes and a closing count. Call bag.Sort first for a
// stable order.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	p := newPalette(opts.Color)
	counts := map[diag.Severity]int{}
	for _, d := range bag.Items() {
		counts[d.Severity]++
		var sb strings.Builder
		if d.Subject != "" {
			sb.WriteString(p.subject.Sprint(d.Subject) + ": ")
		}
		sev := strings.ToLower(d.Severity.String())
		if c, ok := p.severity[d.Severity]; ok {
			sev = c.Sprint(sev)
		}
		sb.WriteString(sev + " " + d.Code.ID() + ": " + d.Message)
		if opts.ShowTitle {
			sb.WriteString(" (" + d.Code.Title() + ")")
		}
		fmt.Fprintln(w, sb.String())
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n)
			}
		}
	}
	line := summary(counts)
	if bag.Len() >= bag.Cap() {
		line += fmt.Sprintf(" (limit of %d reached)", bag.Cap())
	}
	fmt.Fprintln(w, line)
}

func summary(counts map[diag.Severity]int) string {
	var parts []string
	for _, s := range []diag.Severity{diag.SevError, diag.SevWarning, diag.SevInfo} {
		n := counts[s]
		if n == 0 {
			continue
		}
		word := strings.ToLower(s.String())
		if n > 1 {
			word += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, word))
	}
	return strings.Join(parts, ", ")
}
