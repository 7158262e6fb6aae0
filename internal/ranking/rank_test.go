package ranking

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"agenthub/internal/types"
)

func templates(ids ...string) []types.AgentTemplate {
	out := make([]types.AgentTemplate, len(ids))
	for i, id := range ids {
		out[i] = types.AgentTemplate{ID: id, Name: id}
	}
	return out
}

func profileWithScores(scores map[string]float64) *types.UserProfile {
	p := &types.UserProfile{UserEmail: "user@example.com"}
	for id, score := range scores {
		p.Preferences.PreferredAgentTemplates = append(
			p.Preferences.PreferredAgentTemplates,
			types.TemplatePreference{ID: id, Score: score},
		)
	}
	return p
}

func ids(ts []types.AgentTemplate) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}

func TestRank_NoProfilePreservesOrder(t *testing.T) {
	in := templates("t1", "t2", "t3")
	got := Rank(in, nil)
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(got))
}

func TestRank_StableUnderTies(t *testing.T) {
	in := templates("t1", "t2", "t3")
	profile := profileWithScores(map[string]float64{"t1": 0.5, "t2": 0.9, "t3": 0.5})

	got := Rank(in, profile)

	// t2 wins; the t1/t3 tie keeps input order.
	assert.Equal(t, []string{"t2", "t1", "t3"}, ids(got))
}

func TestRank_UnmatchedTemplateScoresZero(t *testing.T) {
	in := templates("unknown", "liked")
	profile := profileWithScores(map[string]float64{"liked": 0.3})

	got := Rank(in, profile)
	assert.Equal(t, []string{"liked", "unknown"}, ids(got))
}

func TestRank_DoesNotMutateInputs(t *testing.T) {
	in := templates("t1", "t2", "t3")
	want := templates("t1", "t2", "t3")
	profile := profileWithScores(map[string]float64{"t3": 1.0})
	wantProfile := profileWithScores(map[string]float64{"t3": 1.0})

	_ = Rank(in, profile)

	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("input templates mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantProfile, profile); diff != "" {
		t.Errorf("profile mutated (-want +got):\n%s", diff)
	}
}

func TestRank_ResultIsIndependentCopy(t *testing.T) {
	in := templates("t1", "t2")
	got := Rank(in, nil)

	got[0].Name = "changed"
	assert.Equal(t, "t1", in[0].Name)
}

func TestScore(t *testing.T) {
	profile := profileWithScores(map[string]float64{"t1": 0.4})

	score, ok := Score(profile, "t1")
	assert.True(t, ok)
	assert.Equal(t, 0.4, score)

	_, ok = Score(nil, "t1")
	assert.False(t, ok)
}
