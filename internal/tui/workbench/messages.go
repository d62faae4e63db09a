// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     workbench
// Description: Message types and the reporter bridge between engine and TUI
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package workbench

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/foundation/tiny/diag"
)

// diagnosticMsg suspends a run until the user answers on reply
type diagnosticMsg struct {
	diag  diag.Diagnostic
	reply chan<- diag.Decision
}

// runFinishedMsg is sent once the engine returns
type runFinishedMsg struct {
	result *tiny.Result
	err    error
}

// fileLoadedMsg is sent when the program file was (re)read
type fileLoadedMsg struct {
	path string
	text string
	err  error
}

// channelReporter hands diagnostics to the TUI and blocks the engine
// goroutine until the model replies
type channelReporter struct {
	events chan<- tea.Msg
}

// Report implements diag.Reporter
func (r channelReporter) Report(d diag.Diagnostic) diag.Decision {
	reply := make(chan diag.Decision, 1)
	r.events <- diagnosticMsg{diag: d, reply: reply}
	return <-reply
}

// waitForEvent delivers the next message the running engine produces
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// buffer holds the program text the engine loads on every attempt
type buffer struct {
	mu   sync.Mutex
	text string
}

func (b *buffer) set(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
}

func (b *buffer) load(context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text, nil
}
