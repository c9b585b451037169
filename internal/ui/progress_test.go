package ui

import (
	"math"
	"strings"
	"testing"

	"svreg/internal/pipeline"
)

func TestApplyEventTracksBlocks(t *testing.T) {
	m := NewProgressModel("generating", []string{"block_0"}, nil).(*progressModel)

	m.applyEvent(pipeline.Event{Block: "block_0", Stage: pipeline.StageRTL, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{Block: "block_1", Stage: pipeline.StageRAL, Status: pipeline.StatusWorking})
	m.applyEvent(pipeline.Event{Stage: pipeline.StageLoad, Status: pipeline.StatusDone})

	if len(m.items) != 2 || m.items[0].status != "rtl" || m.items[1].status != "ral" {
		t.Fatalf("unexpected items %+v", m.items)
	}
	if m.stageLabel != "loaded" {
		t.Fatalf("stage label = %q", m.stageLabel)
	}
	if got := m.percent(); math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(pipeline.Event{Block: "block_0", Stage: pipeline.StageWrite, Status: pipeline.StatusDone})
	m.applyEvent(pipeline.Event{Block: "block_1", Stage: pipeline.StageRAL, Status: pipeline.StatusError})
	if got := m.percent(); math.Abs(got-1) > 1e-9 {
		t.Fatalf("percent = %v", got)
	}
	view := m.View()
	if !strings.Contains(view, "block_0") || !strings.Contains(view, "error") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"block_0", 20, "block_0"},
		{"very_long_block_name", 10, "very_lo..."},
		{"abcdef", 2, "ab"},
		{"寄存器块", 5, "寄..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
