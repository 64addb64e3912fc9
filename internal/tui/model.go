package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/scout/internal/core/record"
	"github.com/hay-kot/scout/internal/query"
	"github.com/hay-kot/scout/internal/search"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	statePreviewing
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyCtrlC = "ctrl+c"
	keyEsc   = "esc"
)

// statusTTL is how long a status line stays visible.
const statusTTL = 4 * time.Second

// chromeHeight is the rows used by the header, input, status and help lines.
const chromeHeight = 6

// Options configures the TUI behavior.
type Options struct {
	View      record.View
	Service   *query.Service
	Handler   *KeybindingHandler
	Debounce  time.Duration
	MinLength int
	Limit     int
	Logger    zerolog.Logger
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	view    record.View
	service *query.Service
	handler *KeybindingHandler
	ctrl    *search.Controller
	limit   int
	log     zerolog.Logger

	state   UIState
	input   textinput.Model
	list    list.Model
	spinner spinner.Model
	help    help.Model
	preview PreviewModal
	status  status
	width   int
	height  int
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)

// status is the transient line under the results.
type status struct {
	kind  statusKind
	title string
	text  string
	seq   int
}

// debounceMsg fires when a debounce timer expires.
type debounceMsg struct {
	token uint64
}

// resultsMsg carries the outcome of a dispatched query.
type resultsMsg struct {
	token   uint64
	records []query.Record
	note    *query.Notification
}

// actionCompleteMsg is sent when an action completes.
type actionCompleteMsg struct {
	action Action
	err    error
}

// clearStatusMsg hides the status line unless a newer one replaced it.
type clearStatusMsg struct {
	seq int
}

// New creates a new TUI model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "Search " + opts.View.DisplayTitle()
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorBlue).Bold(true).PaddingLeft(1)
	ti.Focus()

	l := list.New([]list.Item{}, NewRecordDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	h := help.New()
	h.Styles.ShortKey = descStyle
	h.Styles.ShortDesc = descStyle
	h.Styles.ShortSeparator = descStyle
	h.ShortSeparator = " " + iconDot + " "

	return Model{
		view:    opts.View,
		service: opts.Service,
		handler: opts.Handler,
		ctrl:    search.New(search.Options{Debounce: opts.Debounce, MinLength: opts.MinLength}),
		limit:   opts.Limit,
		log:     opts.Logger,
		input:   ti,
		list:    l,
		spinner: s,
		help:    h,
	}
}

// Init loads the initial listing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.fetch(m.ctrl.Mount()),
	)
}

// fetch runs d off the UI loop. Failures are captured from the query
// notifier and delivered with the results.
func (m Model) fetch(d search.Dispatch) tea.Cmd {
	svc, target := m.service, m.view.Target(m.limit)
	return func() tea.Msg {
		var note *query.Notification
		capture := query.NotifierFunc(func(n query.Notification) { note = &n })

		records := d.Run(context.Background(), svc.WithNotifier(capture), target)
		return resultsMsg{token: d.Token, records: records, note: note}
	}
}

// executeAction returns a command that executes the given action.
func (m Model) executeAction(action Action) tea.Cmd {
	handler := m.handler
	return func() tea.Msg {
		err := handler.Execute(context.Background(), action)
		return actionCompleteMsg{action: action, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-6, 10)
		m.list.SetSize(msg.Width, max(msg.Height-chromeHeight, 1))
		m.help.Width = msg.Width
		return m, nil

	case debounceMsg:
		d, ok := m.ctrl.Fire(msg.token)
		if !ok {
			return m, nil
		}
		return m, m.fetch(d)

	case resultsMsg:
		if !m.ctrl.Complete(msg.token, msg.records) {
			m.log.Debug().Uint64("token", msg.token).Msg("dropping stale results")
			return m, nil
		}
		m.list.SetItems(toItems(m.view, m.ctrl.Results()))
		m.list.Select(0)
		if msg.note != nil {
			return m.setStatus(statusError, msg.note.Title, msg.note.Message)
		}
		return m, nil

	case actionCompleteMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Str("key", msg.action.Key).Msg("action failed")
			return m.setStatus(statusError, msg.action.Help+" failed", msg.err.Error())
		}
		if msg.action.Exit {
			return m, tea.Quit
		}
		return m.setStatus(statusInfo, "", msg.action.Done)

	case clearStatusMsg:
		if msg.seq == m.status.seq {
			m.status.text = ""
			m.status.title = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) setStatus(kind statusKind, title, text string) (tea.Model, tea.Cmd) {
	seq := m.status.seq + 1
	m.status = status{kind: kind, title: title, text: text, seq: seq}
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if m.state == statePreviewing {
		return m.handlePreviewKey(keyStr)
	}

	switch keyStr {
	case keyCtrlC, keyEsc:
		return m, tea.Quit
	case "up", "down", "ctrl+k", "ctrl+j", "pgup", "pgdown":
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(navigationKey(msg))
		return m, cmd
	}

	if m.handler != nil && m.handler.Has(keyStr) {
		return m.handleAction(keyStr)
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}

	tick := m.ctrl.Input(m.input.Value())
	return m, tea.Batch(cmd, tea.Tick(tick.Delay, func(time.Time) tea.Msg {
		return debounceMsg{token: tick.Token}
	}))
}

// navigationKey maps the emacs-style aliases onto the list's arrow keys.
func navigationKey(msg tea.KeyMsg) tea.KeyMsg {
	switch msg.String() {
	case "ctrl+k":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+j":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return msg
}

func (m Model) handleAction(keyStr string) (tea.Model, tea.Cmd) {
	rec, ok := m.selected()
	if !ok {
		return m.setStatus(statusInfo, "", "Nothing selected")
	}

	action, ok := m.handler.Resolve(keyStr, m.view, rec)
	if !ok {
		return m, nil
	}

	if action.Type == ActionTypePreview {
		subtitle := m.view.Description(rec)
		m.preview = NewPreviewModal(m.view.Label(rec), subtitle, m.view.Markdown(rec), m.width, m.height)
		m.state = statePreviewing
		return m, nil
	}

	return m, m.executeAction(action)
}

// handlePreviewKey handles keys when the preview modal is shown.
func (m Model) handlePreviewKey(keyStr string) (tea.Model, tea.Cmd) {
	switch keyStr {
	case keyCtrlC:
		return m, tea.Quit
	case keyEsc, keyEnter, "q":
		m.state = stateNormal
		return m, nil
	case "up", "k":
		m.preview.ScrollUp()
	case "down", "j":
		m.preview.ScrollDown()
	}
	return m, nil
}

func (m Model) selected() (query.Record, bool) {
	item, ok := m.list.SelectedItem().(RecordItem)
	if !ok {
		return nil, false
	}
	return item.Record, true
}

// View renders the TUI.
func (m Model) View() string {
	if m.state == statePreviewing {
		return m.preview.View(m.width, m.height)
	}

	count := ""
	if !m.ctrl.Loading() && !m.ctrl.NeedsMore() {
		count = countStyle.Render(fmt.Sprintf(" %d", len(m.ctrl.Results())))
	}

	header := titleStyle.Render(m.view.DisplayTitle()) + count
	sections := []string{header, m.input.View(), ""}

	body := m.list.View()
	switch {
	case m.ctrl.NeedsMore():
		body = hintStyle.Render(fmt.Sprintf("Type at least %d characters to search", m.ctrl.MinLength()))
	case m.ctrl.Loading() && len(m.list.Items()) == 0:
		body = hintStyle.Render(m.spinner.View() + " Loading...")
	case !m.ctrl.Loading() && len(m.ctrl.Results()) == 0 && m.ctrl.Results() != nil:
		body = hintStyle.Render("No records found")
	}
	sections = append(sections, lipgloss.NewStyle().Height(max(m.height-chromeHeight, 1)).Render(body))

	sections = append(sections, m.statusView())

	bindings := append(m.handlerBindings(), key.NewBinding(key.WithKeys(keyEsc), key.WithHelp(keyEsc, "quit")))
	sections = append(sections, helpStyle.Render(m.help.ShortHelpView(bindings)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) handlerBindings() []key.Binding {
	if m.handler == nil {
		return nil
	}
	return m.handler.KeyBindings()
}

func (m Model) statusView() string {
	loading := ""
	if m.ctrl.Loading() && len(m.list.Items()) > 0 {
		loading = m.spinner.View() + " "
	}

	if m.status.text == "" {
		return " " + loading
	}

	switch m.status.kind {
	case statusError:
		title := m.status.title
		if title != "" {
			title = statusTitleStyle.Render(title) + " "
		}
		return statusErrorStyle.Render(loading + title + m.status.text)
	default:
		return statusInfoStyle.Render(loading + m.status.text)
	}
}
