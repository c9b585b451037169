package version

import (
	"testing"

	"github.com/fatih/color"
)

func withBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestInfo(t *testing.T) {
	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "svreg 1.2.3"},
		{"1.2.3", "abc123def456789", "", "svreg 1.2.3 (abc123def456)"},
		{"1.2.3-rc1", "abc", "2026-01-15T10:30:00Z", "svreg 1.2.3-rc1 (abc) built 2026-01-15T10:30:00Z"},
	}
	for _, tt := range tests {
		withBuildInfo(t, tt.version, tt.commit, tt.date)
		if got := Info(false); got != tt.want {
			t.Errorf("Info() = %q, want %q", got, tt.want)
		}
	}
}

func TestColoredWithoutColor(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	withBuildInfo(t, "0.1.0-dev", "", "")
	if got := Colored(); got != "0.1.0-dev" {
		t.Fatalf("Colored() = %q", got)
	}
	if got := Info(true); got != "svreg 0.1.0-dev" {
		t.Fatalf("Info(true) = %q", got)
	}
}
