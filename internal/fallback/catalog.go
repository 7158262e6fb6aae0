package fallback

import (
	"time"

	"agenthub/internal/types"
)

// The built-in catalog is a compile-time dataset, never regenerated per
// call, so degraded sessions always see the same non-empty template set with
// stable ids. Accessors hand out copies; the package-level slices are never
// exposed mutable.

var builtinCatalog = []types.AgentTemplate{
	{
		ID:           "research_scout",
		Name:         "Research Scout",
		Description:  "Monitors topics & fetches live info from the web using Linkup.",
		DefaultTools: []string{"linkup", "senso"},
		BasePrompt:   "You are a research assistant that monitors topics and fetches real-time information.",
		AvatarURL:    "https://img.freepik.com/free-vector/cute-robot-scientist-cartoon-icon-illustration_138676-3093.jpg",
		Category:     "research",
	},
	{
		ID:           "task_planner",
		Name:         "Task Planner",
		Description:  "Breaks down complex goals into actionable steps.",
		DefaultTools: []string{"planning"},
		BasePrompt:   "You are a task planning assistant that helps break down complex goals.",
		AvatarURL:    "https://img.freepik.com/free-vector/cute-robot-working-laptop-cartoon-icon-illustration_138676-2888.jpg",
		Category:     "productivity",
	},
	{
		ID:           "study_coach",
		Name:         "Study Coach",
		Description:  "Explains concepts and helps with learning.",
		DefaultTools: []string{"linkup", "senso"},
		BasePrompt:   "You are a study coach that explains concepts clearly and helps with learning.",
		AvatarURL:    "https://img.freepik.com/free-vector/cute-robot-teacher-cartoon-icon-illustration_138676-2889.jpg",
		Category:     "education",
	},
	{
		ID:           "code_reviewer",
		Name:         "Code Reviewer",
		Description:  "Reviews code and suggests improvements.",
		DefaultTools: []string{"code_analysis"},
		BasePrompt:   "You are a code review assistant that analyzes code and suggests improvements.",
		AvatarURL:    "https://img.freepik.com/free-vector/cute-robot-coding-cartoon-icon-illustration_138676-2890.jpg",
		Category:     "development",
	},
	{
		ID:           "writing_assistant",
		Name:         "Writing Assistant",
		Description:  "Helps with writing and editing content.",
		DefaultTools: []string{"writing"},
		BasePrompt:   "You are a writing assistant that helps improve and polish written content.",
		AvatarURL:    "https://img.freepik.com/free-vector/cute-robot-writing-cartoon-icon-illustration_138676-2891.jpg",
		Category:     "writing",
	},
}

const greetingText = "Hello! I'm your agent. The backend is currently unreachable, " +
	"so I'm running in offline mode, but you can still chat with me. " +
	"What would you like to work on?"

// Catalog returns a copy of the built-in template catalog.
func Catalog() []types.AgentTemplate {
	out := make([]types.AgentTemplate, len(builtinCatalog))
	copy(out, builtinCatalog)
	for i := range out {
		out[i].DefaultTools = append([]string(nil), builtinCatalog[i].DefaultTools...)
	}
	return out
}

// CatalogTemplate looks up a built-in template by id.
func CatalogTemplate(id string) (types.AgentTemplate, bool) {
	for _, tpl := range builtinCatalog {
		if tpl.ID == id {
			return tpl, true
		}
	}
	return types.AgentTemplate{}, false
}

// GreetingMessages returns the fixed greeting log installed when a chat
// history cannot be fetched. The message id is deterministic per instance.
func GreetingMessages(instanceID string, now time.Time) []types.Message {
	return []types.Message{
		{
			ID:              "msg_greeting_" + instanceID,
			AgentInstanceID: instanceID,
			Role:            types.RoleAssistant,
			Text:            greetingText,
			CreatedAt:       now,
		},
	}
}
