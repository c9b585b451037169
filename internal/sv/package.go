package sv

import "svreg/internal/code"

// PackageDefinition renders a package with its imports and includes.
type PackageDefinition struct {
	Name     string
	Imports  []string
	Includes []string
	Body     Body
}

func (p PackageDefinition) header(w *code.Writer) {
	w.Write("package ", p.Name, ";")
}

func (p PackageDefinition) preBody(w *code.Writer) {
	for _, pkg := range uniqueImports(p.Imports) {
		w.Line("import ", pkg, "::*;")
	}
	for _, file := range p.Includes {
		w.Line("`include ", Quote(file))
	}
}

func (PackageDefinition) footer() string { return "endpackage" }

// Render writes the package into w.
func (p PackageDefinition) Render(w *code.Writer) { render(w, p, p.Body) }

func (p PackageDefinition) String() string { return renderString(p, p.Body) }

// uniqueImports keeps the first occurrence of every package name. The
// component tree reports imports with duplicates; the import statement is
// where they collapse.
func uniqueImports(pkgs []string) []string {
	seen := make(map[string]struct{}, len(pkgs))
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
