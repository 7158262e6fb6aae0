// Package chat provides the interactive TUI for agenthub. The implementation
// is split across files:
//   - model.go: types, Init, Update loop (this file)
//   - commands.go: /command handling
//   - view.go: rendering
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"agenthub/cmd/agenthub/ui"
	"agenthub/internal/fallback"
	"agenthub/internal/session"
	"agenthub/internal/types"
)

// ViewMode determines which screen is active.
type ViewMode int

const (
	LoginView ViewMode = iota
	BrowseView
	InstancesView
	ChatView
)

// templateItem is a list item for the suggestion browser.
type templateItem struct {
	tpl   types.AgentTemplate
	score float64
	ok    bool
}

func (i templateItem) Title() string {
	if i.ok {
		return fmt.Sprintf("%s  (%.2f)", i.tpl.Name, i.score)
	}
	return i.tpl.Name
}
func (i templateItem) Description() string { return i.tpl.Description }
func (i templateItem) FilterValue() string { return i.tpl.Name + " " + i.tpl.Category }

// instanceItem is a list item for the owned-instance picker.
type instanceItem struct {
	inst types.AgentInstance
}

func (i instanceItem) Title() string { return i.inst.Name }
func (i instanceItem) Description() string {
	return fmt.Sprintf("[%s] %s", i.inst.Status, i.inst.CreatedAt.Format("2006-01-02 15:04"))
}
func (i instanceItem) FilterValue() string { return i.inst.Name + " " + i.inst.TemplateID }

// Messages produced by orchestrator commands. Each one means "the session
// record changed, re-read the snapshots".
type (
	loginDoneMsg      struct{ err error }
	refreshDoneMsg    struct{}
	instanceOpenedMsg struct{ err error }
	replyArrivedMsg   struct{ err error }
	feedbackDoneMsg   struct{ label types.FeedbackLabel }
	improveDoneMsg    struct{ source fallback.Source }
	loggedOutMsg      struct{}
)

// Model is the bubbletea model for the agenthub TUI.
type Model struct {
	orch *session.Orchestrator

	// UI components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	list     list.Model
	styles   ui.Styles
	renderer *glamour.TermRenderer

	viewMode  ViewMode
	isLoading bool
	pending   string // user text shown while its send is in flight
	status    string
	err       error

	width  int
	height int
	ready  bool
}

// New creates the TUI model over an orchestrator.
func New(orch *session.Orchestrator, styles ui.Styles) Model {
	ta := textarea.New()
	ta.Placeholder = "your email to sign in"
	ta.Focus()
	ta.Prompt = "> "
	ta.CharLimit = 4000
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Suggested agents"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return Model{
		orch:     orch,
		textarea: ta,
		spinner:  sp,
		list:     l,
		styles:   styles,
		viewMode: LoginView,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginDoneMsg:
		m.isLoading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.viewMode = BrowseView
		m.textarea.Reset()
		m.textarea.Placeholder = "type a message, or /help"
		m.status = m.connectionStatus()
		return m.refreshBrowseList(), nil

	case refreshDoneMsg:
		m.isLoading = false
		m.status = m.connectionStatus()
		return m.refreshBrowseList(), nil

	case instanceOpenedMsg:
		m.isLoading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.viewMode = ChatView
		m.status = m.connectionStatus()
		return m.refreshConversation(), nil

	case replyArrivedMsg:
		m.isLoading = false
		m.pending = ""
		if msg.err != nil {
			m.err = msg.err
		}
		m.status = m.connectionStatus()
		return m.refreshConversation(), nil

	case feedbackDoneMsg:
		m.status = fmt.Sprintf("feedback recorded (%s)", msg.label)
		return m.refreshBrowseList(), nil

	case improveDoneMsg:
		if msg.source == fallback.SourceRemote {
			m.status = "self-improvement run requested"
		} else {
			m.status = "offline, self-improvement request dropped"
		}
		return m, nil

	case loggedOutMsg:
		m.isLoading = false
		m.viewMode = LoginView
		m.err = nil
		m.status = ""
		m.textarea.Reset()
		m.textarea.Placeholder = "your email to sign in"
		m.viewport.SetContent("")
		m.list.SetItems(nil)
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	headerHeight := 1
	footerHeight := 2
	inputHeight := m.textarea.Height() + 1
	bodyHeight := msg.Height - headerHeight - footerHeight - inputHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = bodyHeight
	}
	m.textarea.SetWidth(msg.Width - 2)
	m.list.SetSize(msg.Width, msg.Height-headerHeight-footerHeight)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(msg.Width-4),
	)
	if err == nil {
		m.renderer = renderer
	}

	return m.refreshConversation(), nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.viewMode {
	case LoginView:
		return m.handleLoginKey(msg)
	case BrowseView:
		return m.handleBrowseKey(msg)
	case InstancesView:
		return m.handleInstancesKey(msg)
	case ChatView:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		email := strings.TrimSpace(m.textarea.Value())
		if email == "" {
			return m, nil
		}
		m.isLoading = true
		m.err = nil
		return m, tea.Batch(m.loginCmd(email), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Don't steal keys while the list filter input is active.
	if m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(templateItem)
			if !ok {
				return m, nil
			}
			m.isLoading = true
			m.err = nil
			return m, tea.Batch(m.openTemplateCmd(item.tpl), m.spinner.Tick)
		case "tab":
			m.viewMode = InstancesView
			return m.refreshInstanceList(), nil
		case "r":
			m.isLoading = true
			return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)
		case "ctrl+l":
			m.isLoading = true
			return m, tea.Batch(m.logoutCmd(), m.spinner.Tick)
		case "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleInstancesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() != list.Filtering {
		switch msg.String() {
		case "enter":
			item, ok := m.list.SelectedItem().(instanceItem)
			if !ok {
				return m, nil
			}
			m.isLoading = true
			m.err = nil
			return m, tea.Batch(m.openInstanceCmd(item.inst.ID), m.spinner.Tick)
		case "tab", "esc":
			m.viewMode = BrowseView
			return m.refreshBrowseList(), nil
		case "ctrl+l":
			m.isLoading = true
			return m, tea.Batch(m.logoutCmd(), m.spinner.Tick)
		case "q":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.viewMode = BrowseView
		return m.refreshBrowseList(), nil

	case tea.KeyEnter:
		input := strings.TrimSpace(m.textarea.Value())
		if input == "" {
			return m, nil
		}
		m.textarea.Reset()
		m.err = nil

		if strings.HasPrefix(input, "/") {
			return m.handleCommand(input)
		}

		m.isLoading = true
		m.pending = input
		m = m.refreshConversation()
		return m, tea.Batch(m.sendCmd(input), m.spinner.Tick)
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch m.viewMode {
	case BrowseView, InstancesView:
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ChatView:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// refreshBrowseList rebuilds the suggestion list from the ranked snapshot.
// With a profile the order is personalized; without one it is the gateway's
// popularity order, and the title says which.
func (m Model) refreshBrowseList() Model {
	templates := m.orch.RankedSuggestions()
	profile := m.orch.Profile()

	items := make([]list.Item, 0, len(templates))
	for _, tpl := range templates {
		score, ok := profile.Score(tpl.ID)
		items = append(items, templateItem{tpl: tpl, score: score, ok: ok})
	}
	if profile != nil {
		m.list.Title = "Personalized recommendations"
	} else {
		m.list.Title = "Popular agents"
	}
	m.list.SetItems(items)
	return m
}

// refreshInstanceList rebuilds the owned-instance list.
func (m Model) refreshInstanceList() Model {
	instances := m.orch.Instances()
	items := make([]list.Item, 0, len(instances))
	for _, inst := range instances {
		items = append(items, instanceItem{inst: inst})
	}
	m.list.Title = "Your agents"
	m.list.SetItems(items)
	return m
}

// refreshConversation re-renders the selected instance's log into the
// viewport and scrolls to the bottom.
func (m Model) refreshConversation() Model {
	if !m.ready {
		return m
	}
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
	return m
}

func (m Model) connectionStatus() string {
	if m.orch.Degraded() {
		return "offline, using local data"
	}
	return ""
}

// Orchestrator commands. Each runs the blocking session operation off the
// Update loop and reports back as a message.

func (m Model) loginCmd(email string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: m.orch.Login(context.Background(), email)}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		_ = m.orch.RefreshSuggestions(context.Background())
		return refreshDoneMsg{}
	}
}

func (m Model) openTemplateCmd(tpl types.AgentTemplate) tea.Cmd {
	return func() tea.Msg {
		_, err := m.orch.SelectTemplate(context.Background(), tpl)
		return instanceOpenedMsg{err: err}
	}
}

func (m Model) openInstanceCmd(instanceID string) tea.Cmd {
	return func() tea.Msg {
		return instanceOpenedMsg{err: m.orch.SelectInstance(context.Background(), instanceID)}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return replyArrivedMsg{err: m.orch.SendMessage(context.Background(), text)}
	}
}

func (m Model) feedbackCmd(messageID string, label types.FeedbackLabel) tea.Cmd {
	return func() tea.Msg {
		m.orch.GiveFeedback(context.Background(), messageID, label)
		return feedbackDoneMsg{label: label}
	}
}

func (m Model) improveCmd() tea.Cmd {
	return func() tea.Msg {
		return improveDoneMsg{source: m.orch.TriggerSelfImprove(context.Background())}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.orch.Logout(context.Background())
		return loggedOutMsg{}
	}
}
