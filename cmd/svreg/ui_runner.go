package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"svreg/internal/pipeline"
	"svreg/internal/ui"
)

type runOutcome struct {
	result *pipeline.Result
	err    error
}

// runWithUI runs the pipeline in the background and shows its progress
// until it finishes.
func runWithUI(ctx context.Context, title string, req *pipeline.Request) (*pipeline.Result, error) {
	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := pipeline.Run(ctx, &reqCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; keep the pipeline from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
