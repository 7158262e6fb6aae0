// Package fallback implements the degradation policy: every remote gateway
// call is attempted exactly once, and a failure substitutes a deterministic
// local result instead of propagating an error. There is no retry and no
// backoff; the tradeoff is always-available degraded functionality over
// transient-failure recovery. Whether a result came from the backend or was
// synthesized locally is an explicit field on every resolution, so the
// orchestrator branches on data, not on recovered errors.
package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"agenthub/internal/gateway"
	"agenthub/internal/types"
)

// Source tells whether a resolution carries real backend data or a local
// substitute.
type Source int

const (
	SourceRemote Source = iota
	SourceDegraded
)

func (s Source) String() string {
	if s == SourceDegraded {
		return "degraded"
	}
	return "remote"
}

// Resolver wraps a gateway API with per-operation fallbacks.
type Resolver struct {
	api    gateway.API
	logger *zap.Logger

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string
}

// NewResolver creates a resolver over the given gateway.
func NewResolver(api gateway.API, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		api:    api,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// degraded logs the substitution; it is the only observable side effect of a
// failed call.
func (r *Resolver) degraded(operation string, err error) {
	r.logger.Warn("gateway call degraded to local fallback",
		zap.String("operation", operation),
		zap.Error(err))
}

// Login authenticates via the backend; on failure it synthesizes a user from
// the email (display name = local part) with no profile.
func (r *Resolver) Login(ctx context.Context, email string) (types.User, *types.UserProfile, Source) {
	result, err := r.api.Login(ctx, email)
	if err != nil {
		r.degraded("login", err)
		return types.User{
			Email:       email,
			CreatedAt:   r.now(),
			DisplayName: localPart(email),
		}, nil, SourceDegraded
	}

	profile := result.Profile
	return result.User, &profile, SourceRemote
}

// ListSuggestions falls back to the built-in catalog.
func (r *Resolver) ListSuggestions(ctx context.Context) ([]types.AgentTemplate, Source) {
	templates, err := r.api.ListSuggestions(ctx)
	if err != nil {
		r.degraded("list_suggestions", err)
		return Catalog(), SourceDegraded
	}
	return templates, SourceRemote
}

// CreateInstance falls back to a locally synthesized active instance with a
// generated id and empty config.
func (r *Resolver) CreateInstance(ctx context.Context, userEmail string, tpl types.AgentTemplate) (types.AgentInstance, Source) {
	instance, err := r.api.CreateInstance(ctx, tpl.ID)
	if err != nil {
		r.degraded("create_instance", err)
		return types.AgentInstance{
			ID:         "inst_" + r.newID(),
			UserEmail:  userEmail,
			TemplateID: tpl.ID,
			Name:       tpl.Name,
			CreatedAt:  r.now(),
			Status:     types.StatusActive,
		}, SourceDegraded
	}
	return *instance, SourceRemote
}

// ListInstances falls back to an empty set. The orchestrator keeps locally
// created instances; an empty degraded result never erases them.
func (r *Resolver) ListInstances(ctx context.Context) ([]types.AgentInstance, Source) {
	instances, err := r.api.ListInstances(ctx)
	if err != nil {
		r.degraded("list_instances", err)
		return nil, SourceDegraded
	}
	return instances, SourceRemote
}

// FetchHistory falls back to the fixed greeting set.
func (r *Resolver) FetchHistory(ctx context.Context, instanceID string) ([]types.Message, Source) {
	messages, err := r.api.FetchHistory(ctx, instanceID)
	if err != nil {
		r.degraded("fetch_history", err)
		return GreetingMessages(instanceID, r.now()), SourceDegraded
	}
	return messages, SourceRemote
}

// SendMessage falls back to a synthesized assistant reply that echoes the
// input, tagged with metadata marking simulated tool use.
func (r *Resolver) SendMessage(ctx context.Context, instanceID, text string) (types.Message, Source) {
	reply, err := r.api.SendMessage(ctx, instanceID, text)
	if err != nil {
		r.degraded("send_message", err)
		return types.Message{
			ID:              "msg_" + r.newID(),
			AgentInstanceID: instanceID,
			Role:            types.RoleAssistant,
			Text: fmt.Sprintf("I received your message: %q. This is a simulated reply "+
				"because the backend is unreachable; once it is back I'll use live "+
				"search to answer properly.", text),
			CreatedAt: r.now(),
			Metadata: &types.MessageMetadata{
				ToolsUsed:   []string{"linkup"},
				SearchQuery: text,
			},
		}, SourceDegraded
	}
	return *reply, SourceRemote
}

// SubmitFeedback degrades to a no-op: no profile update, no error. Feedback
// is advisory and best-effort.
func (r *Resolver) SubmitFeedback(ctx context.Context, fb types.Feedback) (*types.UserProfile, Source) {
	profile, err := r.api.SubmitFeedback(ctx, fb)
	if err != nil {
		r.degraded("submit_feedback", err)
		return nil, SourceDegraded
	}
	return profile, SourceRemote
}

// TriggerSelfImprove degrades to a no-op.
func (r *Resolver) TriggerSelfImprove(ctx context.Context) Source {
	if err := r.api.TriggerSelfImprove(ctx); err != nil {
		r.degraded("self_improve", err)
		return SourceDegraded
	}
	return SourceRemote
}

// Logout passes through; the gateway's logout is local-only and its error is
// surfaced for logging, never for user display.
func (r *Resolver) Logout(ctx context.Context) error {
	return r.api.Logout(ctx)
}

func localPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
