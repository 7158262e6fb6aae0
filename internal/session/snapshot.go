package session

import (
	"agenthub/internal/ranking"
	"agenthub/internal/types"
)

// Snapshot accessors. All of them return copies: the presentation layer and
// ranking view read snapshots, never the orchestrator's own collections.

// Phase returns the current session phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// User returns the logged-in user, or nil when logged out.
func (o *Orchestrator) User() *types.User {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.user == nil {
		return nil
	}
	u := *o.user
	return &u
}

// Profile returns the cached personalization profile, or nil when none is
// held (logged out, or a degraded login).
func (o *Orchestrator) Profile() *types.UserProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return copyProfile(o.profile)
}

// Suggestions returns the current template list in gateway order.
func (o *Orchestrator) Suggestions() []types.AgentTemplate {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.AgentTemplate(nil), o.suggestions...)
}

// RankedSuggestions returns the suggestions in display order, computed on
// demand from the current snapshot and the cached profile.
func (o *Orchestrator) RankedSuggestions() []types.AgentTemplate {
	o.mu.Lock()
	templates := append([]types.AgentTemplate(nil), o.suggestions...)
	profile := copyProfile(o.profile)
	o.mu.Unlock()
	return ranking.Rank(templates, profile)
}

// Instances returns the owned instances in creation order.
func (o *Orchestrator) Instances() []types.AgentInstance {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.AgentInstance(nil), o.instances...)
}

// SelectedInstance returns the currently selected instance, or nil.
func (o *Orchestrator) SelectedInstance() *types.AgentInstance {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, inst := range o.instances {
		if inst.ID == o.selectedID {
			i := inst
			return &i
		}
	}
	return nil
}

// Messages returns the selected instance's log in insertion order.
func (o *Orchestrator) Messages() []types.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.selectedID == "" {
		return nil
	}
	return append([]types.Message(nil), o.logs[o.selectedID]...)
}

// MessagesFor returns a specific instance's log in insertion order.
func (o *Orchestrator) MessagesFor(instanceID string) []types.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]types.Message(nil), o.logs[instanceID]...)
}

// Degraded reports whether the most recent gateway resolution was served by
// the local fallback. Presentation may use it to annotate offline mode.
func (o *Orchestrator) Degraded() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.degraded
}

func copyProfile(p *types.UserProfile) *types.UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Preferences.PreferredAgentTemplates = append(
		[]types.TemplatePreference(nil), p.Preferences.PreferredAgentTemplates...)
	if p.Preferences.Topics != nil {
		out.Preferences.Topics = make(map[string]float64, len(p.Preferences.Topics))
		for k, v := range p.Preferences.Topics {
			out.Preferences.Topics[k] = v
		}
	}
	return &out
}
