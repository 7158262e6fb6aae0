package fallback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_ReturnsCopies(t *testing.T) {
	first := Catalog()
	first[0].Name = "mutated"
	first[0].DefaultTools[0] = "mutated-tool"

	second := Catalog()
	assert.Equal(t, "Research Scout", second[0].Name)
	assert.Equal(t, "linkup", second[0].DefaultTools[0])
}

func TestCatalog_Deterministic(t *testing.T) {
	assert.Equal(t, Catalog(), Catalog())
}

func TestCatalogTemplate(t *testing.T) {
	tpl, ok := CatalogTemplate("task_planner")
	require.True(t, ok)
	assert.Equal(t, "Task Planner", tpl.Name)

	_, ok = CatalogTemplate("no_such_template")
	assert.False(t, ok)
}

func TestGreetingMessages(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	msgs := GreetingMessages("inst-1", now)
	require.Len(t, msgs, 1)
	assert.Equal(t, "msg_greeting_inst-1", msgs[0].ID)
	assert.Equal(t, now, msgs[0].CreatedAt)

	// Different instances get distinct deterministic ids.
	other := GreetingMessages("inst-2", now)
	assert.NotEqual(t, msgs[0].ID, other[0].ID)
}
