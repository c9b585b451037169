package code

import "testing"

func TestWriterIndentsEveryLine(t *testing.T) {
	w := NewWriter(Options{})
	w.Line("module foo;")
	w.Indent(func() {
		w.Line("assign a = b;")
		w.WriteString("x\n\ny\n")
		w.Indent(func() {
			w.Write("deep", ";").Newline()
		})
	})
	w.Line("endmodule")

	want := "module foo;\n" +
		"  assign a = b;\n" +
		"  x\n" +
		"\n" +
		"  y\n" +
		"    deep;\n" +
		"endmodule\n"
	if got := w.String(); got != want {
		t.Fatalf("unexpected output:\nwant %q\ngot  %q", want, got)
	}
}

func TestWriterTabsAndEnsureNewline(t *testing.T) {
	w := NewWriter(Options{UseTabs: true})
	w.EnsureNewline()
	if w.Len() != 0 {
		t.Fatalf("EnsureNewline on empty output must not write")
	}
	w.Indent(func() { w.Write("a") })
	w.EnsureNewline()
	w.EnsureNewline()
	if got := w.String(); got != "\ta\n" {
		t.Fatalf("got %q", got)
	}
}
