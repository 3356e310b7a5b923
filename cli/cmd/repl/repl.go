package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/quse/lang"
	"github.com/ardnew/quse/log"
)

// editPreambleMsg is sent when preamble editing completes successfully.
type editPreambleMsg struct{ session *session }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after an error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters an editor error.
type editErrorMsg struct{ err error }

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help      Print this cruft
  bindings  List the bindings in effect
  preamble  Print the session declarations
  reset     Drop the declarations entered in this session
  edit      Edit the session declarations in external $EDITOR
  clear     Clear screen
  quit      Exit REPL

Usage:
  Type tokens to expand them against the session bindings
  Declarations at the start of a line are added to the session
  Completions of bound names appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// draft is an unsubmitted input line and its cursor position.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *session
	initial    *session // session as loaded, restored by reset
	logger     log.Logger
	history    *History
	historyIdx int // history.Len() when not navigating history
	comp       completion
	width      int // terminal width for ellipsization
	quitting   bool
	mode       inputMode
	drafts     [2]draft // input of the inactive mode, indexed by inputMode

	// altOrigin is the mode and input to restore when Alt navigation through
	// command history runs past its end, or nil outside of Alt navigation.
	altOrigin *altOrigin
}

type altOrigin struct {
	mode  inputMode
	input draft
}

// Run starts the REPL. Declarations read from preamble, if not nil, seed
// the session; opts configure parsing and rewriting.
func Run(
	ctx context.Context,
	preamble io.Reader,
	cfg lang.Config,
	cacheDir string,
	logger log.Logger,
	opts ...lang.Option,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Bool("has_preamble", preamble != nil),
	)

	var src []byte

	if preamble != nil {
		src, err = io.ReadAll(preamble)
		if err != nil {
			return lang.ErrReadInput.Wrap(err)
		}
	}

	s, err := newSession(ctx, cfg, string(src), logger, opts...)
	if err != nil {
		return err
	}

	var historyPath string
	if cacheDir != "" {
		historyPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(historyPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	p := tea.NewProgram(newModel(ctx, s, history, logger), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	s *session,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		initial:    s,
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		comp:       noCompletion(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editPreambleMsg:
		m.session = msg.session
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("bound", m.session.table.Len()),
		)

		return m, tea.Println(resultStyle.Render("✔ — declarations updated"))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 — edit cancelled."))

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 — error: " + msg.err.Error()),
		)
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.hintLine())
	b.WriteString("\n")

	return b.String()
}

// hintLine renders the line below the input: the history position, a usage
// hint, the completion bar or the binding of the word under the cursor.
func (m model) hintLine() string {
	input := m.input.Value()
	bar := m.comp.candidateBar(m.width)

	switch {
	case m.historyIdx < m.history.Len():
		return hintStyle.Render(fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len()))

	case strings.TrimSpace(input) == "":
		if m.mode == modeEval {
			return hintStyle.Render("Type tokens to expand or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") +
			" (press Esc to return)")

	case len(m.comp.matches) > 1 || m.comp.cycling():
		return bar
	}

	if m.mode == modeEval {
		word, start, _ := wordBounds(input, m.input.Position())
		if word != "" && !qualified(input, start) {
			if b, ok := m.session.table.Lookup(word); ok {
				return hintStyle.Render(b.String())
			}
		}
	}

	return bar
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		if msg.Type == tea.KeyCtrlC {
			m.altOrigin = nil
			m = m.clearEntry()
		}

		return m, nil

	case tea.KeyEnter:
		m.altOrigin = nil

		if !m.comp.cycling() {
			return m.executeInput()
		}

		// Accept the inserted candidate without executing.
		return m.refresh(true), nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}

		if msg.Alt {
			return m.historyCtrl(step), nil
		}

		return m.historyStep(step), nil

	case tea.KeyShiftUp:
		return m.historyInMode(-1), nil

	case tea.KeyShiftDown:
		return m.historyInMode(1), nil

	case tea.KeyEsc:
		if m.comp.cycling() {
			m.input.SetValue(m.comp.origText)
			m.input.SetCursor(m.comp.origCursor)

			return m.refresh(false), nil
		}

		m.altOrigin = nil

		return m.toggleMode(), nil
	}

	// Typing confirms a completion that already matches; any other edit or
	// cursor movement only recomputes the candidates.
	typed := msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace
	if !typed {
		m.altOrigin = nil
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)

	return m.refresh(typed), cmd
}

// cycle moves the Tab selection by step through the candidates, wrapping at
// either end, and inserts the selected candidate. A sole candidate is
// inserted without cycling.
func (m model) cycle(step int) model {
	n := len(m.comp.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m = m.insert(m.comp.matches[0].Str)
		m.comp = noCompletion()

		return m

	case m.comp.cycling():
		m.comp.selected = (m.comp.selected + step + n) % n

	default:
		m.comp.origText = m.input.Value()
		m.comp.origCursor = m.input.Position()

		m.comp.selected = 0
		if step < 0 {
			m.comp.selected = n - 1
		}
	}

	return m.insert(m.comp.matches[m.comp.selected].Str)
}

// insert replaces the word being completed with text.
func (m model) insert(text string) model {
	input := m.input.Value()

	m.input.SetValue(input[:m.comp.start] + text + input[m.comp.end:])
	m.comp.end = m.comp.start + len(text)
	m.input.SetCursor(m.comp.end)

	return m
}

// refresh recomputes the completion of the word at the cursor, ending any
// Tab cycle. With confirm set, a word that already equals its sole
// candidate is considered complete.
func (m model) refresh(confirm bool) model {
	m.comp = complete(m.input.Value(), m.input.Position(), m.mode, m.session)

	if confirm && len(m.comp.matches) == 1 &&
		m.comp.matches[0].Str == m.input.Value()[m.comp.start:m.comp.end] {
		m.comp = noCompletion()
	}

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.drafts = [2]draft{}
	m.input.SetValue("")
	m = m.refresh(false)

	if err := m.history.Append(input, m.mode); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not save history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval",
		slog.String("input", input),
	)

	echoCmd := tea.Println(formatCommand(input))

	next, out, added, err := m.session.eval(m.ctxFunc(), input)
	if err != nil {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl eval result",
			slog.String("error", err.Error()),
		)

		msg := errorStyle.Render("error: " + err.Error())
		if snip := snippet(input, err); snip != "" {
			msg += "\n" + hintStyle.Render(snip)
		}

		return m, tea.Sequence(echoCmd, tea.Println(msg))
	}

	m.session = next
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl eval result",
		slog.Int("added", added),
		slog.Int("tokens", out.Count()),
	)

	cmds := []tea.Cmd{echoCmd}

	if added > 0 {
		cmds = append(cmds, tea.Println(hintStyle.Render(
			fmt.Sprintf("%d declaration(s) added", added))))
	}

	if len(out) > 0 {
		cmds = append(cmds, tea.Println(resultStyle.Render(out.String())))
	}

	return m, tea.Sequence(cmds...)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", parts[1:]),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(helpMessage()))

	case "b", "bindings":
		return m, tea.Sequence(echoCmd, tea.Println(m.listBindings()))

	case "p", "preamble":
		return m, tea.Sequence(echoCmd, tea.Println(m.session.preamble))

	case "r", "reset":
		m.session = m.initial

		return m, tea.Sequence(echoCmd,
			tea.Println(hintStyle.Render("session declarations dropped")))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editPreambleCommand{
		session: m.session,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.next == nil {
			return editCancelledMsg{}
		}

		return editPreambleMsg{session: cmd.next}
	})
}

// listBindings renders the active bindings, explicit ones first.
func (m model) listBindings() string {
	var b strings.Builder

	seen := make(map[string]bool)

	for bind, explicit := range m.session.table.All() {
		if seen[bind.Name.Text] {
			continue
		}

		seen[bind.Name.Text] = true

		origin := "prelude"
		if explicit {
			origin = "explicit"
		}

		fmt.Fprintf(&b, "  %s %s %s\n",
			bind.Name.Text, bind.Path, hintStyle.Render(origin))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// showEntry loads history entry i into the input, switching mode if
// switchMode is set.
func (m model) showEntry(i int, entry HistoryEntry, switchMode bool) model {
	if switchMode && m.mode != entry.Mode {
		m = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))

	return m.refresh(false)
}

// clearEntry leaves history navigation with an empty input.
func (m model) clearEntry() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")

	return m.refresh(false)
}

// seek returns the index and entry of the nearest history entry in
// direction step from the current index that satisfies keep.
func (m model) seek(step int, keep func(HistoryEntry) bool) (int, HistoryEntry, bool) {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err == nil && keep(entry) {
			return i, entry, true
		}
	}

	return 0, HistoryEntry{}, false
}

func anyMode(HistoryEntry) bool { return true }

// historyStep moves through history in either mode.
func (m model) historyStep(step int) model {
	if i, entry, ok := m.seek(step, anyMode); ok {
		return m.showEntry(i, entry, true)
	}

	if step > 0 {
		return m.clearEntry()
	}

	return m
}

// historyInMode moves through the history of the current mode only.
func (m model) historyInMode(step int) model {
	mode := m.mode

	i, entry, ok := m.seek(step, func(e HistoryEntry) bool { return e.Mode == mode })
	if ok {
		return m.showEntry(i, entry, false)
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		return m.clearEntry()
	}

	return m
}

// historyCtrl moves through command history from either mode, restoring the
// original mode and input once history is exhausted.
func (m model) historyCtrl(step int) model {
	if m.altOrigin == nil {
		m.altOrigin = &altOrigin{
			mode:  m.mode,
			input: draft{m.input.Value(), m.input.Position()},
		}
		m = m.switchToMode(modeCtrl)
	}

	i, entry, ok := m.seek(step, func(e HistoryEntry) bool { return e.Mode == modeCtrl })
	if ok {
		return m.showEntry(i, entry, false)
	}

	origin := m.altOrigin
	m.altOrigin = nil
	m = m.switchToMode(origin.mode)

	m.input.SetValue(origin.input.text)
	m.input.SetCursor(origin.input.cursor)
	m.historyIdx = m.history.Len()

	return m.refresh(false)
}

// toggleMode switches between eval and control modes.
func (m model) toggleMode() model {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to mode, keeping the input of the mode left behind
// as its draft.
func (m model) switchToMode(mode inputMode) model {
	if mode == m.mode {
		return m
	}

	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode

	m.input.Prompt = promptStyle.Render(evalPrompt)
	if mode == modeCtrl {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)

	return m.refresh(false)
}
