package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"agenthub/internal/gateway"
	"agenthub/internal/types"
)

var errUnreachable = errors.New("connection refused")

// MockGateway implements gateway.API with overridable functions. Operations
// without an override fail, exercising the degradation path.
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

	FeedbackCalls atomic.Int64
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
	m.FeedbackCalls.Add(1)
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

// onlineGateway returns a mock where every operation succeeds with canned
// remote data. Assistant reply ids are unique per call.
func onlineGateway() *MockGateway {
	var replySeq atomic.Int64
	var instSeq atomic.Int64
	var mu sync.Mutex
	histories := make(map[string][]types.Message)

	return &MockGateway{
		LoginFunc: func(ctx context.Context, email string) (*gateway.LoginResult, error) {
			return &gateway.LoginResult{
				User:      types.User{Email: email, CreatedAt: time.Now()},
				Profile:   types.UserProfile{UserEmail: email},
				SessionID: "sess-remote",
			}, nil
		},
		ListSuggestionsFunc: func(ctx context.Context) ([]types.AgentTemplate, error) {
			return []types.AgentTemplate{
				{ID: "research_scout", Name: "Research Scout"},
				{ID: "task_planner", Name: "Task Planner"},
			}, nil
		},
		CreateInstanceFunc: func(ctx context.Context, templateID string) (*types.AgentInstance, error) {
			id := fmt.Sprintf("inst-%d", instSeq.Add(1))
			return &types.AgentInstance{
				ID:         id,
				TemplateID: templateID,
				Name:       templateID,
				CreatedAt:  time.Now(),
				Status:     types.StatusActive,
			}, nil
		},
		ListInstancesFunc: func(ctx context.Context) ([]types.AgentInstance, error) {
			return []types.AgentInstance{}, nil
		},
		FetchHistoryFunc: func(ctx context.Context, instanceID string) ([]types.Message, error) {
			mu.Lock()
			defer mu.Unlock()
			return append([]types.Message(nil), histories[instanceID]...), nil
		},
		SendMessageFunc: func(ctx context.Context, instanceID, text string) (*types.Message, error) {
			return &types.Message{
				ID:              fmt.Sprintf("reply-%d", replySeq.Add(1)),
				AgentInstanceID: instanceID,
				Role:            types.RoleAssistant,
				Text:            "re: " + text,
				CreatedAt:       time.Now(),
			}, nil
		},
		SubmitFeedbackFunc: func(ctx context.Context, fb types.Feedback) (*types.UserProfile, error) {
			return nil, nil
		},
	}
}
