package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/europe-weather/internal/models"
	"github.com/ngmaloney/europe-weather/internal/resolver"
)

// Message types for async operations

// debounceMsg fires once the input has been quiet for the debounce delay
type debounceMsg struct {
	seq   int
	query string
}

// suggestionsMsg is sent when a suggestion search completes
type suggestionsMsg struct {
	query  string
	cities []models.City
}

// resultMsg is sent when a submission finishes
type resultMsg struct {
	result *resolver.Result
	err    error
}

// netStatusMsg reports a connectivity change
type netStatusMsg struct {
	online bool
}

// autoSubmitMsg submits the initial city given on the command line
type autoSubmitMsg struct{}

// debounce arms a tick tagged with seq. Only the tick matching the latest
// seq is acted on.
func debounce(delay time.Duration, seq int, query string) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq, query: query}
	})
}

// fetchSuggestions refreshes the suggestion list in the background
func fetchSuggestions(ctrl *resolver.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		cities := ctrl.Suggest(context.Background(), query)
		return suggestionsMsg{query: query, cities: cities}
	}
}

// submitCity runs one resolution flow in the background
func submitCity(ctrl *resolver.Controller, input string) tea.Cmd {
	return func() tea.Msg {
		result, err := ctrl.Submit(context.Background(), input)
		return resultMsg{result: result, err: err}
	}
}

// waitForNetStatus waits for the next connectivity change
func waitForNetStatus(changes <-chan bool) tea.Cmd {
	return func() tea.Msg {
		online, ok := <-changes
		if !ok {
			return nil
		}
		return netStatusMsg{online: online}
	}
}
