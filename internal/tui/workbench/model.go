// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     workbench
// Description: Bubbletea model of the interactive TINY workbench
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package workbench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/foundation/tiny/ast"
	"github.com/msto63/tiny/foundation/tiny/diag"
	"github.com/msto63/tiny/internal/render"
	"github.com/msto63/tiny/pkg/core/version"
)

// AcceptedNotice is shown after a successful parse
const AcceptedNotice = "Accepted by TINY language"

// Sample is the program preloaded into an empty editor
const Sample = `read x;
if 0 < x then
  fact := 1;
  repeat
    fact := fact * x;
    x := x - 1
  until x = 0;
  write fact
end`

type mode int

const (
	modeEdit mode = iota
	modeRunning
	modeDialog
	// modeFix edits the program while a run waits for the retry
	modeFix
)

type outputView int

const (
	viewTree outputView = iota
	viewTokens
	viewSexpr
	viewDOT
	numViews
)

func (v outputView) String() string {
	switch v {
	case viewTokens:
		return "Tokens"
	case viewSexpr:
		return "S-Expr"
	case viewDOT:
		return "DOT"
	default:
		return "Baum"
	}
}

// Config holds workbench configuration
type Config struct {
	// File is loaded into the editor on start and on ctrl+o
	File string

	// Logger must not write to the terminal the TUI draws on
	Logger      *tinylog.Logger
	Recorder    tiny.Recorder
	MaxAttempts int
	TokenLog    io.Writer
}

// Model is the workbench Bubbletea model
type Model struct {
	// State
	width  int
	height int
	ready  bool
	mode   mode
	view   outputView

	// Components
	editor  textarea.Model
	output  viewport.Model
	spinner spinner.Model

	// Run state
	cfg     Config
	buffer  *buffer
	events  chan tea.Msg
	pending *diagnosticMsg
	result  *tiny.Result
	lastErr error

	status    string
	statusErr bool
}

// New creates a workbench model
func New(cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = tinylog.Discard()
	}

	ta := textarea.New()
	ta.Placeholder = "TINY-Programm eingeben..."
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(20)
	ta.Focus()
	if cfg.File == "" {
		ta.SetValue(Sample)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		editor:  ta,
		output:  viewport.New(60, 20),
		spinner: sp,
		cfg:     cfg,
		buffer:  &buffer{},
		events:  make(chan tea.Msg),
		status:  "ctrl+s: Parsen",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.cfg.File != "" {
		cmds = append(cmds, loadFile(m.cfg.File))
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.mode == modeRunning {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case diagnosticMsg:
		m.pending = &msg
		m.mode = modeDialog
		m.editor.Blur()
		m.setStatus(msg.diag.String(), true)
		return m, nil

	case runFinishedMsg:
		return m.finishRun(msg)

	case fileLoadedMsg:
		if msg.err != nil {
			m.setStatus("Datei nicht lesbar: "+msg.err.Error(), true)
			return m, nil
		}
		m.editor.SetValue(msg.text)
		m.setStatus("Geladen: "+msg.path, false)
		return m, nil
	}

	if m.mode == modeEdit || m.mode == modeFix {
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey reports whether the key was consumed
func (m Model) handleKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	key := msg.String()

	if m.mode == modeDialog {
		switch key {
		case "r", "enter":
			next, cmd := m.answer(diag.Retry)
			return true, next, cmd
		case "e":
			m.mode = modeFix
			m.editor.Focus()
			m.setStatus("Programm korrigieren, ctrl+s wiederholt den Lauf", false)
			return true, m, textarea.Blink
		case "a", "esc":
			next, cmd := m.answer(diag.Abort)
			return true, next, cmd
		case "q", "ctrl+c":
			next, cmd := m.answer(diag.Terminate)
			return true, next, cmd
		}
		// everything else is swallowed while the dialog is open
		return true, m, nil
	}

	switch key {
	case "ctrl+c":
		if m.mode == modeFix {
			next, cmd := m.answer(diag.Terminate)
			return true, next, cmd
		}
		return true, m, tea.Quit
	case "ctrl+s":
		switch m.mode {
		case modeEdit:
			next, cmd := m.startRun()
			return true, next, cmd
		case modeFix:
			m.buffer.set(m.editor.Value())
			next, cmd := m.answer(diag.Retry)
			return true, next, cmd
		}
		return true, m, nil
	case "ctrl+o":
		if m.mode != modeEdit {
			return true, m, nil
		}
		if m.cfg.File == "" {
			m.setStatus("Keine Datei angegeben (tiny tui <datei>)", true)
			return true, m, nil
		}
		return true, m, loadFile(m.cfg.File)
	case "tab":
		m.view = (m.view + 1) % numViews
		m.refreshOutput()
		return true, m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return true, m, cmd
	}
	return false, m, nil
}

// startRun hands the editor text to a fresh engine run
func (m Model) startRun() (Model, tea.Cmd) {
	m.buffer.set(m.editor.Value())
	m.mode = modeRunning
	m.lastErr = nil
	m.setStatus("Parse...", false)

	engine := tiny.NewEngine(tiny.Options{
		Logger:      m.cfg.Logger,
		Reporter:    channelReporter{events: m.events},
		TokenLog:    m.cfg.TokenLog,
		MaxAttempts: m.cfg.MaxAttempts,
		Recorder:    m.cfg.Recorder,
	})
	src := tiny.SourceFunc(m.sourceName(), m.buffer.load)
	events := m.events

	run := func() tea.Msg {
		res, err := engine.Run(context.Background(), src)
		events <- runFinishedMsg{result: res, err: err}
		return nil
	}
	return m, tea.Batch(run, waitForEvent(events), m.spinner.Tick)
}

// answer releases the suspended run with the given decision and waits
// for what the engine does next
func (m Model) answer(d diag.Decision) (Model, tea.Cmd) {
	if m.pending == nil {
		return m, nil
	}
	m.pending.reply <- d
	m.pending = nil
	m.mode = modeRunning
	m.editor.Blur()
	m.setStatus("Entscheidung: "+d.String(), false)
	return m, tea.Batch(waitForEvent(m.events), m.spinner.Tick)
}

func (m Model) finishRun(msg runFinishedMsg) (tea.Model, tea.Cmd) {
	m.mode = modeEdit
	m.pending = nil
	m.editor.Focus()

	if errors.Is(msg.err, tiny.ErrTerminated) {
		return m, tea.Quit
	}
	if msg.err != nil {
		m.lastErr = msg.err
		m.result = nil
		m.setStatus(describeError(msg.err), true)
		m.refreshOutput()
		return m, nil
	}

	m.result = msg.result
	if msg.result.Text != m.editor.Value() {
		m.editor.SetValue(msg.result.Text)
	}
	m.setStatus(fmt.Sprintf("%s (%d Tokens, %d Knoten, Versuch %d)",
		AcceptedNotice, len(msg.result.Tokens), ast.Count(msg.result.Tree), msg.result.Attempts), false)
	m.refreshOutput()
	m.output.GotoTop()
	return m, nil
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) sourceName() string {
	if m.cfg.File != "" {
		return m.cfg.File
	}
	return "<editor>"
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	// header, tabs, status and help take six lines, borders two more
	bodyHeight := height - 8
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	editorWidth := width/2 - 4
	if editorWidth < 20 {
		editorWidth = 20
	}
	outputWidth := width - editorWidth - 8
	if outputWidth < 20 {
		outputWidth = 20
	}

	m.editor.SetWidth(editorWidth)
	m.editor.SetHeight(bodyHeight)
	m.output.Width = outputWidth
	m.output.Height = bodyHeight
	m.ready = true
	m.refreshOutput()
}

// refreshOutput renders the current result into the output viewport
func (m *Model) refreshOutput() {
	if m.result == nil {
		if m.lastErr != nil {
			m.output.SetContent(StatusErrorStyle.Render(describeError(m.lastErr)))
		} else {
			m.output.SetContent(SubtitleStyle.Render("Noch kein Syntaxbaum."))
		}
		return
	}

	var content string
	switch m.view {
	case viewTokens:
		content = render.TokenTable(m.result.Tokens)
	case viewSexpr:
		var parts []string
		for _, s := range m.result.Tree.Body().Sequence() {
			parts = append(parts, ast.Sexpr(s))
		}
		content = strings.Join(parts, "\n")
	case viewDOT:
		content = render.DOT(m.result.Tree, render.DOTOptions{})
	default:
		content = render.Outline(m.result.Tree, render.OutlineOptions{Color: true, Positions: true})
	}
	m.output.SetContent(content)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade Workbench..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	if m.mode == modeDialog && m.pending != nil {
		b.WriteString(m.renderDialog())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("TINY Workbench")
	source := SubtitleStyle.Render(m.sourceName())

	var tabs []string
	for v := outputView(0); v < numViews; v++ {
		if v == m.view {
			tabs = append(tabs, ActiveTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, TabStyle.Render(v.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", source, "   ", strings.Join(tabs, ""))
}

func (m Model) renderBody() string {
	editorStyle := PanelStyle
	if m.mode == modeEdit || m.mode == modeFix {
		editorStyle = FocusedPanelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		editorStyle.Render(m.editor.View()),
		PanelStyle.Render(m.output.View()),
	)
}

func (m Model) renderDialog() string {
	d := m.pending.diag
	title := DialogTitleStyle.Render(strings.ToUpper(d.Stage.String()[:1]) + d.Stage.String()[1:] + "fehler")
	body := d.String()
	keys := strings.Join([]string{
		RenderKeyHint("r", "Wiederholen"),
		RenderKeyHint("e", "Korrigieren"),
		RenderKeyHint("a", "Abbrechen"),
		RenderKeyHint("q", "Beenden"),
	}, "  ")
	return DialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body, "", keys))
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.mode == modeRunning:
		status = m.spinner.View() + " " + StatusBusyStyle.Render(m.status)
	case m.statusErr:
		status = StatusErrorStyle.Render(m.status)
	case m.result != nil:
		status = StatusOKStyle.Render(m.status)
	default:
		status = m.status
	}
	ver := HelpDescStyle.Render(version.Get().Short())

	width := m.width - 2
	pad := width - lipgloss.Width(status) - lipgloss.Width(ver) - 2
	if pad < 1 {
		pad = 1
	}
	return StatusBarStyle.Width(width).Render(status + strings.Repeat(" ", pad) + ver)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("ctrl+s", "Parsen"),
		RenderKeyHint("ctrl+o", "Neu laden"),
		RenderKeyHint("tab", "Ansicht"),
		RenderKeyHint("pgup/pgdn", "Blättern"),
		RenderKeyHint("ctrl+c", "Beenden"),
	}
	return strings.Join(items, "  ")
}

// describeError prefers the diagnostic text of a syntax error
func describeError(err error) string {
	var de *diag.Error
	if errors.As(err, &de) {
		return de.Diagnostic.String()
	}
	return err.Error()
}

func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return fileLoadedMsg{path: path, text: string(data), err: err}
	}
}

// Run starts the workbench TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
