// View rendering for the agenthub TUI.
package chat

import (
	"fmt"
	"strings"

	"agenthub/internal/types"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.viewMode {
	case LoginView:
		return m.viewLogin()
	case BrowseView, InstancesView:
		return m.viewBrowse()
	default:
		return m.viewChat()
	}
}

func (m Model) viewLogin() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render("agenthub") + "\n\n")
	sb.WriteString(m.styles.Title.Render("Sign in") + "\n")
	sb.WriteString(m.styles.Subtitle.Render("No password needed, just your email.") + "\n\n")
	sb.WriteString(m.textarea.View() + "\n")

	if m.isLoading {
		sb.WriteString("\n" + m.spinner.View() + m.styles.Muted.Render(" signing in..."))
	}
	if m.err != nil {
		sb.WriteString("\n" + m.styles.Error.Render(m.err.Error()))
	}
	sb.WriteString("\n\n" + m.styles.Footer.Render("enter to sign in, ctrl+c to quit"))
	return sb.String()
}

func (m Model) viewBrowse() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader() + "\n")
	sb.WriteString(m.list.View() + "\n")

	hints := "enter open, tab switch list, r refresh, ctrl+l logout, q quit"
	if m.viewMode == InstancesView {
		hints = "enter resume, tab suggestions, ctrl+l logout, q quit"
	}
	if m.isLoading {
		sb.WriteString(m.spinner.View() + m.styles.Muted.Render(" working...") + "\n")
	}
	if m.err != nil {
		sb.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	}
	sb.WriteString(m.styles.Footer.Render(hints))
	return sb.String()
}

func (m Model) viewChat() string {
	var sb strings.Builder
	sb.WriteString(m.renderHeader() + "\n")
	sb.WriteString(m.viewport.View() + "\n")

	if m.isLoading {
		sb.WriteString(m.spinner.View() + m.styles.Muted.Render(" thinking...") + "\n")
	}
	if m.err != nil {
		sb.WriteString(m.styles.Error.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		sb.WriteString(m.styles.Muted.Render(m.status) + "\n")
	}
	sb.WriteString(m.textarea.View() + "\n")
	sb.WriteString(m.styles.Footer.Render("enter send, /help commands, esc back"))
	return sb.String()
}

func (m Model) renderHeader() string {
	title := "agenthub"
	if inst := m.orch.SelectedInstance(); inst != nil && m.viewMode == ChatView {
		title = "agenthub · " + inst.Name
	}
	header := m.styles.Header.Render(title)

	var badges []string
	if user := m.orch.User(); user != nil {
		name := user.DisplayName
		if name == "" {
			name = user.Email
		}
		badges = append(badges, m.styles.Muted.Render(name))
	}
	if m.orch.Degraded() {
		badges = append(badges, m.styles.DegradedBadge.Render("OFFLINE"))
	}
	if len(badges) == 0 {
		return header
	}
	return header + "  " + strings.Join(badges, "  ")
}

// renderConversation renders the selected instance's log, newest at the
// bottom, plus the in-flight message when one is pending.
func (m Model) renderConversation() string {
	var sb strings.Builder

	for _, msg := range m.orch.Messages() {
		switch msg.Role {
		case types.RoleUser:
			sb.WriteString(m.styles.UserMessage.Render("You") + "\n")
			sb.WriteString(msg.Text + "\n\n")
		default:
			sb.WriteString(m.styles.AgentMessage.Render("Agent") + "\n")
			sb.WriteString(m.safeRenderMarkdown(msg.Text))
			if badge := m.renderMetadata(msg.Metadata); badge != "" {
				sb.WriteString(badge + "\n")
			}
			sb.WriteString("\n")
		}
	}

	if m.pending != "" {
		sb.WriteString(m.styles.UserMessage.Render("You") + "\n")
		sb.WriteString(m.pending + "\n\n")
	}

	return sb.String()
}

// renderMetadata formats tool activity recorded on an assistant reply.
func (m Model) renderMetadata(meta *types.MessageMetadata) string {
	if meta == nil || len(meta.ToolsUsed) == 0 {
		return ""
	}
	badge := fmt.Sprintf("tools: %s", strings.Join(meta.ToolsUsed, ", "))
	if meta.SearchQuery != "" {
		badge += fmt.Sprintf(" (%q)", meta.SearchQuery)
	}
	return m.styles.ToolBadge.Render(badge)
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can panic
// on some width/content combinations.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content + "\n"
		}
	}()

	if m.renderer != nil && content != "" {
		if rendered, err := m.renderer.Render(content); err == nil {
			return rendered
		}
	}
	return content + "\n"
}
