// Slash command handling for the chat view.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"agenthub/internal/types"
)

const helpText = `Commands:
  /help       show this help
  /back       return to the agent browser
  /agents     show your agent instances
  /up         thumbs-up the latest reply
  /down       thumbs-down the latest reply
  /improve    ask the backend to run a self-improvement pass
  /refresh    re-fetch agent suggestions
  /logout     end the session
  /quit       exit`

// handleCommand dispatches a /command typed in the chat view.
func (m Model) handleCommand(input string) (Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "/help":
		m.status = helpText
		return m, nil

	case "/back":
		m.viewMode = BrowseView
		return m.refreshBrowseList(), nil

	case "/agents":
		m.viewMode = InstancesView
		return m.refreshInstanceList(), nil

	case "/up":
		return m.voteLatest(types.FeedbackUp)

	case "/down":
		return m.voteLatest(types.FeedbackDown)

	case "/improve":
		return m, m.improveCmd()

	case "/refresh":
		m.isLoading = true
		return m, tea.Batch(m.refreshCmd(), m.spinner.Tick)

	case "/logout":
		m.isLoading = true
		return m, tea.Batch(m.logoutCmd(), m.spinner.Tick)

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.status = "unknown command " + cmd + ", try /help"
		return m, nil
	}
}

// voteLatest submits feedback for the most recent assistant reply in the
// selected conversation.
func (m Model) voteLatest(label types.FeedbackLabel) (Model, tea.Cmd) {
	target := lastAssistantMessage(m.orch.Messages())
	if target == nil {
		m.status = "nothing to vote on yet"
		return m, nil
	}
	return m, m.feedbackCmd(target.ID, label)
}

// lastAssistantMessage returns the newest assistant message, or nil when the
// log holds none.
func lastAssistantMessage(msgs []types.Message) *types.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == types.RoleAssistant {
			return &msgs[i]
		}
	}
	return nil
}
