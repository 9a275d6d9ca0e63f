package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"premap/internal/driver"
	"premap/internal/source"
	"premap/internal/ui"
)

type indexOutcome struct {
	files   *source.FileSet
	results []driver.Result
	err     error
}

func runIndexWithUI(ctx context.Context, title string, paths []string, opts driver.IndexOptions) (*source.FileSet, []driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan indexOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		fs, res, err := driver.IndexFiles(ctx, paths, optsCopy)
		outcomeCh <- indexOutcome{files: fs, results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.files, outcome.results, uiErr
	}
	return outcome.files, outcome.results, outcome.err
}

// progressUIEnabled reads --ui: "on" and "off" are explicit, "auto" shows
// the view only on a terminal.
func progressUIEnabled(value string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}
