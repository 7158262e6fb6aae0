// Package session implements the client-side session orchestrator: the
// single owner of {user, profile, suggestions, instances, selection, message
// logs} and the transition rules connecting user intents to gateway calls,
// degradation fallbacks, and state mutations.
//
// Concurrency model: public operations are invoked from presentation
// goroutines and block on their gateway round trip. The session record is
// guarded by one mutex; each resolution is applied as exactly one mutation
// under the lock by the goroutine that issued the call, so no two mutations
// interleave. Every in-flight call carries the instance id it targets and
// the epoch it was issued in; a resolution arriving after the epoch moved
// (logout) or after the selection moved (history loads) is discarded instead
// of being applied to the wrong log.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agenthub/internal/fallback"
	"agenthub/internal/types"
)

// Phase is the orchestrator's coarse state.
type Phase int

const (
	PhaseLoggedOut Phase = iota
	PhaseAuthenticating
	PhaseBrowsing
	PhaseChatting
)

func (p Phase) String() string {
	switch p {
	case PhaseLoggedOut:
		return "logged_out"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseBrowsing:
		return "browsing"
	case PhaseChatting:
		return "chatting"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Domain errors. These cover misuse of the orchestrator itself; gateway
// failures never surface here, they degrade inside the resolver.
var (
	ErrAlreadyAuthenticated = errors.New("session: already authenticated")
	ErrNotAuthenticated     = errors.New("session: not authenticated")
	ErrNoInstanceSelected   = errors.New("session: no instance selected")
	ErrUnknownInstance      = errors.New("session: unknown instance")
	ErrSessionReset         = errors.New("session: session was reset")
)

// Orchestrator owns the mutable session record. Construct with New; the zero
// value is not usable.
type Orchestrator struct {
	resolver *fallback.Resolver
	logger   *zap.Logger

	// Injectable for deterministic tests.
	now   func() time.Time
	newID func() string

	mu          sync.Mutex
	phase       Phase
	epoch       uint64 // bumped on logout; stale-epoch resolutions are discarded
	user        *types.User
	profile     *types.UserProfile
	suggestions []types.AgentTemplate
	instances   []types.AgentInstance
	selectedID  string
	logs        map[string][]types.Message
	degraded    bool // last gateway resolution was a local substitute
}

// New creates an orchestrator in the logged-out phase.
func New(resolver *fallback.Resolver, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		resolver: resolver,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
		phase:    PhaseLoggedOut,
		logs:     make(map[string][]types.Message),
	}
}

// Login authenticates by email and moves the session to browsing. The
// suggestion and instance loads run as parallel follow-ups; each degrades
// independently and neither can prevent the browsing phase from being
// reached (the phase is set before they start).
func (o *Orchestrator) Login(ctx context.Context, email string) error {
	o.mu.Lock()
	if o.phase != PhaseLoggedOut {
		o.mu.Unlock()
		return ErrAlreadyAuthenticated
	}
	o.phase = PhaseAuthenticating
	epoch := o.epoch
	o.mu.Unlock()

	user, profile, source := o.resolver.Login(ctx, email)

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return ErrSessionReset
	}
	o.user = &user
	o.profile = profile
	o.phase = PhaseBrowsing
	o.degraded = source == fallback.SourceDegraded
	o.mu.Unlock()

	o.logger.Info("logged in",
		zap.String("email", email),
		zap.String("source", source.String()))

	var g errgroup.Group
	g.Go(func() error {
		o.loadSuggestions(ctx, epoch)
		return nil
	})
	g.Go(func() error {
		o.loadInstances(ctx, epoch)
		return nil
	})
	_ = g.Wait() // the loaders degrade internally and never error

	return nil
}

// RefreshSuggestions re-fetches the template catalog for the current user.
func (o *Orchestrator) RefreshSuggestions(ctx context.Context) error {
	o.mu.Lock()
	if o.phase == PhaseLoggedOut || o.phase == PhaseAuthenticating {
		o.mu.Unlock()
		return ErrNotAuthenticated
	}
	epoch := o.epoch
	o.mu.Unlock()

	o.loadSuggestions(ctx, epoch)
	return nil
}

// loadSuggestions replaces the suggestion list wholesale. A degraded
// resolution substitutes the built-in catalog, so the list is never empty
// after a load.
func (o *Orchestrator) loadSuggestions(ctx context.Context, epoch uint64) {
	templates, source := o.resolver.ListSuggestions(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch {
		return
	}
	o.suggestions = templates
	o.degraded = source == fallback.SourceDegraded
}

// loadInstances replaces the owned set wholesale on a real fetch. The
// degraded result ("no remote instances") must not erase instances created
// locally this session, so it is ignored when any are held.
func (o *Orchestrator) loadInstances(ctx context.Context, epoch uint64) {
	instances, source := o.resolver.ListInstances(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch {
		return
	}
	if source == fallback.SourceRemote {
		o.instances = instances
	}
	o.degraded = source == fallback.SourceDegraded
}

// SelectTemplate materializes a template into a new instance, selects it,
// and loads its history. The instance is appended to the owned set whether
// the backend created it or the fallback synthesized it.
func (o *Orchestrator) SelectTemplate(ctx context.Context, tpl types.AgentTemplate) (types.AgentInstance, error) {
	o.mu.Lock()
	if o.phase != PhaseBrowsing && o.phase != PhaseChatting {
		o.mu.Unlock()
		return types.AgentInstance{}, ErrNotAuthenticated
	}
	email := o.user.Email
	epoch := o.epoch
	o.mu.Unlock()

	instance, source := o.resolver.CreateInstance(ctx, email, tpl)

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return types.AgentInstance{}, ErrSessionReset
	}
	o.instances = append(o.instances, instance)
	o.selectedID = instance.ID
	o.phase = PhaseChatting
	o.degraded = source == fallback.SourceDegraded
	o.mu.Unlock()

	o.logger.Info("instance created",
		zap.String("instance_id", instance.ID),
		zap.String("template_id", tpl.ID),
		zap.String("source", source.String()))

	o.loadHistory(ctx, instance.ID, epoch)
	return instance, nil
}

// SelectInstance switches the conversation to an already-owned instance and
// loads its history. No remote call is made for the switch itself.
func (o *Orchestrator) SelectInstance(ctx context.Context, instanceID string) error {
	o.mu.Lock()
	if o.phase != PhaseBrowsing && o.phase != PhaseChatting {
		o.mu.Unlock()
		return ErrNotAuthenticated
	}
	found := false
	for _, inst := range o.instances {
		if inst.ID == instanceID {
			found = true
			break
		}
	}
	if !found {
		o.mu.Unlock()
		return ErrUnknownInstance
	}
	o.selectedID = instanceID
	o.phase = PhaseChatting
	epoch := o.epoch
	o.mu.Unlock()

	o.loadHistory(ctx, instanceID, epoch)
	return nil
}

// loadHistory refreshes one instance's log. The resolution is tagged with
// the instance id and epoch it was issued for: if the user has since
// selected a different instance, or logged out, the result is discarded. A
// real fetch replaces the log wholesale; a degraded fetch installs the
// greeting set only when no local log exists, so optimistic messages held
// locally are never clobbered by offline data.
func (o *Orchestrator) loadHistory(ctx context.Context, instanceID string, epoch uint64) {
	messages, source := o.resolver.FetchHistory(ctx, instanceID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch || o.selectedID != instanceID {
		o.logger.Debug("discarding stale history resolution",
			zap.String("instance_id", instanceID))
		return
	}
	if source == fallback.SourceRemote {
		o.logs[instanceID] = messages
	} else if len(o.logs[instanceID]) == 0 {
		o.logs[instanceID] = messages
	}
	o.degraded = source == fallback.SourceDegraded
}

// SendMessage appends the user's message optimistically, then fetches the
// assistant reply. The optimistic message is appended before the call is
// issued and is never rolled back; a failed call only means the reply is
// simulated. The reply is appended to the issuing instance's log by id, so
// concurrent sends on different instances cannot cross-contaminate and a
// reply arriving after the user switched instances still lands in the right
// log.
func (o *Orchestrator) SendMessage(ctx context.Context, text string) error {
	o.mu.Lock()
	if o.phase != PhaseChatting || o.selectedID == "" {
		o.mu.Unlock()
		return ErrNoInstanceSelected
	}
	instanceID := o.selectedID
	epoch := o.epoch
	userMsg := types.Message{
		ID:              "msg_" + o.newID(),
		AgentInstanceID: instanceID,
		Role:            types.RoleUser,
		Text:            text,
		CreatedAt:       o.now(),
	}
	o.logs[instanceID] = append(o.logs[instanceID], userMsg)
	o.mu.Unlock()

	reply, source := o.resolver.SendMessage(ctx, instanceID, text)

	o.mu.Lock()
	defer o.mu.Unlock()
	if epoch != o.epoch {
		o.logger.Debug("discarding reply for reset session",
			zap.String("instance_id", instanceID))
		return nil
	}
	o.logs[instanceID] = append(o.logs[instanceID], reply)
	o.degraded = source == fallback.SourceDegraded
	return nil
}

// GiveFeedback votes on an assistant message in the selected instance's log.
// Feedback is advisory: unknown message ids and user-role targets fail
// closed, and a failed submission is logged and swallowed. When the backend
// returns an updated profile it replaces the cached one wholesale and the
// suggestions are re-fetched so the ranking input reflects it.
func (o *Orchestrator) GiveFeedback(ctx context.Context, messageID string, label types.FeedbackLabel) {
	o.mu.Lock()
	if o.phase != PhaseChatting || o.selectedID == "" {
		o.mu.Unlock()
		return
	}
	instanceID := o.selectedID
	epoch := o.epoch

	var target *types.Message
	for i := range o.logs[instanceID] {
		if o.logs[instanceID][i].ID == messageID {
			target = &o.logs[instanceID][i]
			break
		}
	}
	if target == nil || target.Role != types.RoleAssistant {
		o.mu.Unlock()
		o.logger.Warn("ignoring feedback for invalid target",
			zap.String("message_id", messageID))
		return
	}
	o.mu.Unlock()

	profile, source := o.resolver.SubmitFeedback(ctx, types.Feedback{
		MessageID:       messageID,
		AgentInstanceID: instanceID,
		Label:           label,
	})

	o.logger.Info("feedback submitted",
		zap.String("message_id", messageID),
		zap.String("label", string(label)),
		zap.String("source", source.String()))

	if profile == nil {
		// Degraded or no recomputation: cached profile and ranking stay as-is.
		return
	}

	o.mu.Lock()
	if epoch != o.epoch {
		o.mu.Unlock()
		return
	}
	o.profile = profile
	o.mu.Unlock()

	o.loadSuggestions(ctx, epoch)
}

// TriggerSelfImprove asks the backend to run its self-improvement pass. It
// is best-effort like feedback; the returned source says whether the backend
// actually received it.
func (o *Orchestrator) TriggerSelfImprove(ctx context.Context) fallback.Source {
	source := o.resolver.TriggerSelfImprove(ctx)
	o.logger.Info("self-improvement triggered", zap.String("source", source.String()))
	return source
}

// Logout clears the persisted credential and resets the whole session record
// under one lock hold: after it returns no reader can observe a partially
// cleared session. Bumping the epoch makes every in-flight resolution
// stale.
func (o *Orchestrator) Logout(ctx context.Context) {
	if err := o.resolver.Logout(ctx); err != nil {
		o.logger.Warn("logout credential clear failed", zap.Error(err))
	}

	o.mu.Lock()
	o.epoch++
	o.phase = PhaseLoggedOut
	o.user = nil
	o.profile = nil
	o.suggestions = nil
	o.instances = nil
	o.selectedID = ""
	o.logs = make(map[string][]types.Message)
	o.degraded = false
	o.mu.Unlock()

	o.logger.Info("logged out")
}
