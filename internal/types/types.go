// Package types provides shared type definitions used across agenthub packages.
// This package exists so the gateway, fallback, ranking, and session packages
// can exchange entities without import cycles. Types here mirror the wire
// shapes of the backend REST contract; JSON tags are the contract field names.
package types

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// InstanceStatus is the lifecycle state of an agent instance.
type InstanceStatus string

const (
	StatusActive   InstanceStatus = "active"
	StatusArchived InstanceStatus = "archived"
)

// FeedbackLabel is a thumbs-up/down vote on a single assistant message.
type FeedbackLabel string

const (
	FeedbackUp   FeedbackLabel = "up"
	FeedbackDown FeedbackLabel = "down"
)

// User is the identity created on login. It lives for the session and is
// discarded on logout.
type User struct {
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayName string    `json:"display_name,omitempty"`
}

// TemplatePreference is one (template, score) pair in a user profile.
// Scores are in [0,1]; the backend owns deduplication per template id.
type TemplatePreference struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Preferences holds the personalization weights derived by the backend.
type Preferences struct {
	PreferredAgentTemplates []TemplatePreference `json:"preferred_agent_templates"`
	Topics                  map[string]float64   `json:"topics"`
	Tone                    string               `json:"tone,omitempty"`
}

// UserProfile is the backend-computed personalization state. The client holds
// a read-only cached copy and replaces it wholesale when the gateway returns
// an updated one (notably after feedback).
type UserProfile struct {
	UserEmail   string      `json:"user_email"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Preferences Preferences `json:"preferences"`
}

// AgentTemplate is an immutable catalog entry describing an agent's behavior
// and default tooling. Templates are never mutated client-side.
type AgentTemplate struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	DefaultTools []string `json:"default_tools"`
	BasePrompt   string   `json:"base_prompt"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// InstanceConfig carries provider-specific identifiers for an instance.
// Known providers get named fields with known types; anything the backend
// sends beyond these lands in ExtraPrefs so unknown fields never break the
// typed ones.
type InstanceConfig struct {
	AiriaAgentCardID   string         `json:"airia_agentcard_id,omitempty"`
	MCPServerID        string         `json:"mcp_server_id,omitempty"`
	RaindropManifestID string         `json:"raindrop_manifest_id,omitempty"`
	ExtraPrefs         map[string]any `json:"extra_prefs,omitempty"`
}

// AgentInstance is a stateful, user-owned binding of a template. Each
// instance holds its own conversation.
type AgentInstance struct {
	ID         string         `json:"id"`
	UserEmail  string         `json:"user_email"`
	TemplateID string         `json:"template_id"`
	Name       string         `json:"name"`
	CreatedAt  time.Time      `json:"created_at"`
	Config     InstanceConfig `json:"config"`
	Status     InstanceStatus `json:"status"`
}

// MessageMetadata records tool activity behind an assistant reply.
type MessageMetadata struct {
	ToolsUsed   []string `json:"tools_used,omitempty"`
	SourceURLs  []string `json:"source_urls,omitempty"`
	SearchQuery string   `json:"search_query,omitempty"`
}

// Message is one turn in an instance's conversation. Logs are append-only;
// array insertion order is the authoritative ordering.
type Message struct {
	ID              string           `json:"id"`
	AgentInstanceID string           `json:"agent_instance_id"`
	Role            Role             `json:"role"`
	Text            string           `json:"text"`
	CreatedAt       time.Time        `json:"created_at"`
	Metadata        *MessageMetadata `json:"metadata,omitempty"`
}

// Feedback is a transient vote on a message. It is produced on demand, sent
// immediately, and not retained client-side.
type Feedback struct {
	MessageID       string        `json:"message_id"`
	AgentInstanceID string        `json:"agent_instance_id"`
	Label           FeedbackLabel `json:"label"`
}

// Score returns the profile's preference score for a template id, or 0 with
// ok=false when the profile is nil or has no entry for the id.
func (p *UserProfile) Score(templateID string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	for _, pref := range p.Preferences.PreferredAgentTemplates {
		if pref.ID == templateID {
			return pref.Score, true
		}
	}
	return 0, false
}
