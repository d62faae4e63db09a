package workbench

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/foundation/tiny/diag"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// batch flattens a command returned by Update
func batch(t *testing.T, cmd tea.Cmd) []tea.Cmd {
	t.Helper()
	require.NotNil(t, cmd)
	if b, ok := cmd().(tea.BatchMsg); ok {
		return b
	}
	return []tea.Cmd{cmd}
}

func receive(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("no message from engine")
		return nil
	}
}

var sampleDiag = diag.Diagnostic{
	Stage:    diag.StageParse,
	Position: 5,
	Line:     1,
	Message:  "expected 'end' to close 'if', found end of input",
}

func TestNew(t *testing.T) {
	m := New(Config{})
	assert.Equal(t, Sample, m.editor.Value())
	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, "Lade Workbench...", m.View())

	withFile := New(Config{File: "prog.tny"})
	assert.Empty(t, withFile.editor.Value())
	assert.Equal(t, "prog.tny", withFile.sourceName())
}

func TestChannelReporter(t *testing.T) {
	events := make(chan tea.Msg)
	r := channelReporter{events: events}

	decision := make(chan diag.Decision, 1)
	go func() { decision <- r.Report(sampleDiag) }()

	msg := (<-events).(diagnosticMsg)
	assert.Equal(t, sampleDiag, msg.diag)
	msg.reply <- diag.Terminate

	assert.Equal(t, diag.Terminate, <-decision)
}

func TestDialogDecisions(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want diag.Decision
	}{
		{"retry", runes("r"), diag.Retry},
		{"abort", runes("a"), diag.Abort},
		{"escape aborts", tea.KeyMsg{Type: tea.KeyEsc}, diag.Abort},
		{"quit", runes("q"), diag.Terminate},
		{"ctrl+c terminates", tea.KeyMsg{Type: tea.KeyCtrlC}, diag.Terminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sized(t, New(Config{}))
			reply := make(chan diag.Decision, 1)

			next, cmd := m.Update(diagnosticMsg{diag: sampleDiag, reply: reply})
			m = next.(Model)
			assert.Nil(t, cmd)
			assert.Equal(t, modeDialog, m.mode)
			assert.Contains(t, m.View(), sampleDiag.Message)
			assert.Contains(t, m.View(), "Parsefehler")

			// other keys are swallowed
			next, _ = m.Update(runes("x"))
			m = next.(Model)
			assert.Equal(t, modeDialog, m.mode)
			assert.Empty(t, reply)

			next, cmd = m.Update(tt.key)
			m = next.(Model)
			assert.Equal(t, tt.want, <-reply)
			assert.Equal(t, modeRunning, m.mode)
			assert.Nil(t, m.pending)
			assert.NotNil(t, cmd)
		})
	}
}

func TestDialogFixAndRetry(t *testing.T) {
	m := sized(t, New(Config{}))
	reply := make(chan diag.Decision, 1)

	next, _ := m.Update(diagnosticMsg{diag: sampleDiag, reply: reply})
	next, _ = next.(Model).Update(runes("e"))
	m = next.(Model)
	assert.Equal(t, modeFix, m.mode)

	m.editor.SetValue("write 1")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)

	assert.Equal(t, diag.Retry, <-reply)
	text, err := m.buffer.load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "write 1", text)
}

func TestFinishRun_Accepted(t *testing.T) {
	res, err := tiny.NewEngine(tiny.Options{Logger: tinylog.Discard()}).
		Run(context.Background(), tiny.StringSource(Sample))
	require.NoError(t, err)

	m := sized(t, New(Config{}))
	next, cmd := m.Update(runFinishedMsg{result: res})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.Equal(t, modeEdit, m.mode)
	assert.False(t, m.statusErr)
	assert.Contains(t, m.status, AcceptedNotice)
	assert.Contains(t, m.output.View(), "Program")

	for i := 1; i <= int(numViews); i++ {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
		assert.Equal(t, outputView(i%int(numViews)), m.view)
	}
	assert.Equal(t, viewTree, m.view)
}

func TestFinishRun_Rejected(t *testing.T) {
	m := sized(t, New(Config{}))
	de := &diag.Error{Diagnostic: sampleDiag, Decision: diag.Abort}

	next, _ := m.Update(runFinishedMsg{err: de})
	m = next.(Model)

	assert.True(t, m.statusErr)
	assert.Equal(t, sampleDiag.String(), m.status)
	assert.Nil(t, m.result)
}

func TestFinishRun_TerminatedQuits(t *testing.T) {
	m := sized(t, New(Config{}))
	err := errors.Join(tiny.ErrTerminated, errors.New("parse error"))

	_, cmd := m.Update(runFinishedMsg{err: err})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCtrlOWithoutFile(t *testing.T) {
	m := sized(t, New(Config{}))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.True(t, m.statusErr)
}

func TestFileLoaded(t *testing.T) {
	m := sized(t, New(Config{File: "prog.tny"}))

	next, _ := m.Update(fileLoadedMsg{path: "prog.tny", text: "read y"})
	m = next.(Model)
	assert.Equal(t, "read y", m.editor.Value())

	next, _ = m.Update(fileLoadedMsg{path: "prog.tny", err: errors.New("boom")})
	m = next.(Model)
	assert.True(t, m.statusErr)
	assert.Equal(t, "read y", m.editor.Value())
}

// TestRunThroughDialog drives a real engine run that fails, is retried
// once and then aborted from the dialog.
func TestRunThroughDialog(t *testing.T) {
	m := sized(t, New(Config{MaxAttempts: 5}))
	m.editor.SetValue("if x then write y")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = next.(Model)
	require.Equal(t, modeRunning, m.mode)

	cmds := batch(t, cmd)
	require.Len(t, cmds, 3)
	go cmds[0]() // the engine run

	msg := receive(t, cmds[1])
	dm, ok := msg.(diagnosticMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, 5, dm.diag.Position)

	next, _ = m.Update(dm)
	next, cmd = next.(Model).Update(runes("r"))
	m = next.(Model)

	msg = receive(t, batch(t, cmd)[0])
	dm, ok = msg.(diagnosticMsg)
	require.True(t, ok, "got %T", msg)

	next, _ = m.Update(dm)
	next, cmd = next.(Model).Update(runes("a"))
	m = next.(Model)

	msg = receive(t, batch(t, cmd)[0])
	fin, ok := msg.(runFinishedMsg)
	require.True(t, ok, "got %T", msg)
	require.Error(t, fin.err)

	next, _ = m.Update(fin)
	m = next.(Model)
	assert.Equal(t, modeEdit, m.mode)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "expected 'end' to close 'if'")
}
