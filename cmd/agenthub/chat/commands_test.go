package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenthub/internal/types"
)

func TestLastAssistantMessage(t *testing.T) {
	now := time.Now()
	msgs := []types.Message{
		{ID: "m1", Role: types.RoleUser, CreatedAt: now},
		{ID: "m2", Role: types.RoleAssistant, CreatedAt: now},
		{ID: "m3", Role: types.RoleUser, CreatedAt: now},
		{ID: "m4", Role: types.RoleAssistant, CreatedAt: now},
	}

	got := lastAssistantMessage(msgs)
	require.NotNil(t, got)
	assert.Equal(t, "m4", got.ID)

	assert.Nil(t, lastAssistantMessage(nil))
	assert.Nil(t, lastAssistantMessage([]types.Message{{ID: "m1", Role: types.RoleUser}}))
}

func TestHandleCommandHelp(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.handleCommand("/help")
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "/logout")
}

func TestHandleCommandUnknown(t *testing.T) {
	m := newTestModel(t)

	m, cmd := m.handleCommand("/frobnicate now")
	assert.Nil(t, cmd)
	assert.Contains(t, m.status, "/frobnicate")
}

func TestHandleCommandBack(t *testing.T) {
	m := newTestModel(t)
	m = login(t, m)
	m.viewMode = ChatView

	m, cmd := m.handleCommand("/back")
	assert.Nil(t, cmd)
	assert.Equal(t, BrowseView, m.viewMode)
	assert.Len(t, m.list.Items(), 5)
}

func TestHandleCommandAgentsListsInstances(t *testing.T) {
	m := newTestModel(t)
	m = login(t, m)

	item := m.list.Items()[0].(templateItem)
	opened, _ := m.Update(m.openTemplateCmd(item.tpl)())
	m = opened.(Model)

	m, cmd := m.handleCommand("/agents")
	assert.Nil(t, cmd)
	assert.Equal(t, InstancesView, m.viewMode)
	assert.Len(t, m.list.Items(), 1)
}

func TestVoteWithNoReplyFailsClosed(t *testing.T) {
	m := newTestModel(t)
	m = login(t, m)
	m.viewMode = ChatView

	m, cmd := m.handleCommand("/up")
	assert.Nil(t, cmd)
	assert.Equal(t, "nothing to vote on yet", m.status)
}

func TestVoteLatestTargetsNewestReply(t *testing.T) {
	m := newTestModel(t)
	m = login(t, m)

	item := m.list.Items()[0].(templateItem)
	opened, _ := m.Update(m.openTemplateCmd(item.tpl)())
	m = opened.(Model)

	updated, _ := m.Update(m.sendCmd("rate this")())
	m = updated.(Model)

	m, cmd := m.handleCommand("/down")
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(feedbackDoneMsg)
	require.True(t, ok)
	assert.Equal(t, types.FeedbackDown, done.label)
}

func TestHandleCommandQuit(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.handleCommand("/quit")
	require.NotNil(t, cmd)
}
