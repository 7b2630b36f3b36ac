package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vlalign/internal/driver"
	"vlalign/internal/source"
	"vlalign/internal/ui"
)

type formatOutcome struct {
	results []driver.FormatResult
	fileSet *source.FileSet
	err     error
}

// runFormatWithUI runs driver.FormatPaths in the background and renders its
// progress events until the run completes.
func runFormatWithUI(ctx context.Context, title string, paths []string, opts driver.FormatOptions) ([]driver.FormatResult, *source.FileSet, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan formatOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, fs, err := driver.FormatPaths(ctx, paths, optsCopy)
		outcomeCh <- formatOutcome{results: results, fileSet: fs, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, nil, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// без UI события некому читать
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, outcome.fileSet, uiErr
	}
	return outcome.results, outcome.fileSet, outcome.err
}
