package fallback

import (
	"context"
	"errors"

	"agenthub/internal/gateway"
	"agenthub/internal/types"
)

// errUnreachable stands in for any transport failure in tests.
var errUnreachable = errors.New("connection refused")

// MockGateway implements gateway.API with overridable functions. Operations
// without an override fail, which is the interesting path for this package.
type MockGateway struct {
	LoginFunc           func(ctx context.Context, email string) (*gateway.LoginResult, error)
	ListSuggestionsFunc func(ctx context.Context) ([]types.AgentTemplate, error)
	CreateInstanceFunc  func(ctx context.Context, templateID string) (*types.AgentInstance, error)
	ListInstancesFunc   func(ctx context.Context) ([]types.AgentInstance, error)
	FetchHistoryFunc    func(ctx context.Context, instanceID string) ([]types.Message, error)
	SendMessageFunc     func(ctx context.Context, instanceID, text string) (*types.Message, error)
	SubmitFeedbackFunc  func(ctx context.Context, fb types.Feedback) (*types.UserProfile, error)
	SelfImproveFunc     func(ctx context.Context) error
	LogoutFunc          func(ctx context.Context) error
}

func (m *MockGateway) Login(ctx context.Context, email string) (*gateway.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email)
	}
	return nil, errUnreachable
}

func (m *MockGateway) ListSuggestions(ctx context.Context) ([]types.AgentTemplate, error) {
	if m.ListSuggestionsFunc != nil {
		return m.ListSuggestionsFunc(ctx)
	}
	return nil, errUnreachable
}

func (m *MockGateway) CreateInstance(ctx context.Context, templateID string) (*types.AgentInstance, error) {
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, templateID)
	}
	return nil, errUnreachable
}

func (m *MockGateway) ListInstances(ctx context.Context) ([]types.AgentInstance, error) {
	if m.ListInstancesFunc != nil {
		return m.ListInstancesFunc(ctx)
	}
	return nil, errUnreachable
}

func (m *MockGateway) FetchHistory(ctx context.Context, instanceID string) ([]types.Message, error) {
	if m.FetchHistoryFunc != nil {
		return m.FetchHistoryFunc(ctx, instanceID)
	}
	return nil, errUnreachable
}

func (m *MockGateway) SendMessage(ctx context.Context, instanceID, text string) (*types.Message, error) {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, instanceID, text)
	}
	return nil, errUnreachable
}

func (m *MockGateway) SubmitFeedback(ctx context.Context, fb types.Feedback) (*types.UserProfile, error) {
	if m.SubmitFeedbackFunc != nil {
		return m.SubmitFeedbackFunc(ctx, fb)
	}
	return nil, errUnreachable
}

func (m *MockGateway) TriggerSelfImprove(ctx context.Context) error {
	if m.SelfImproveFunc != nil {
		return m.SelfImproveFunc(ctx)
	}
	return errUnreachable
}

func (m *MockGateway) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}
