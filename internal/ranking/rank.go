// Package ranking orders agent templates for display. It holds no state; the
// order is recomputed on demand from the current suggestion list and the
// cached personalization profile.
package ranking

import (
	"sort"

	"agenthub/internal/types"
)

// Rank returns templates in display order. With no profile the input order
// is preserved (the gateway's default/popularity order). With a profile,
// templates sort descending by the profile's score for their id; templates
// the profile does not mention score 0. The sort is stable: ties keep their
// relative input order. Inputs are never mutated; the result is a fresh
// slice.
func Rank(templates []types.AgentTemplate, profile *types.UserProfile) []types.AgentTemplate {
	out := make([]types.AgentTemplate, len(templates))
	copy(out, templates)

	if profile == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, _ := profile.Score(out[i].ID)
		sj, _ := profile.Score(out[j].ID)
		return si > sj
	})
	return out
}

// Score exposes the per-template score for presentation (shown on template
// cards). It returns ok=false when no profile is cached or the template has
// no entry.
func Score(profile *types.UserProfile, templateID string) (float64, bool) {
	return profile.Score(templateID)
}
