package main

import "testing"

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShouldUseTUIExplicitModes(t *testing.T) {
	if !shouldUseTUI(uiModeOn, 1) {
		t.Fatalf("on must force the view")
	}
	if shouldUseTUI(uiModeOff, 10) {
		t.Fatalf("off must disable the view")
	}
	if shouldUseTUI(uiModeAuto, 1) {
		t.Fatalf("auto must skip the view for a single block")
	}
}
