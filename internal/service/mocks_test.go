package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/queue"
	"github.com/unclebandit/dinerreach/internal/repository"
)

// --- Mock collaborators ---

type MockRoster struct {
	Diners []model.Diner
	Err    error
}

func (m *MockRoster) ListDiners(ctx context.Context) ([]model.Diner, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Diners, nil
}

type MockCampaignRepo struct {
	mu        sync.Mutex
	Campaigns []model.Campaign
	Created   []model.Campaign
	CreateErr error
	ListErr   error
	ListCalls int
	// Block, if set, is waited on inside CreateCampaign.
	Block chan struct{}
	// Reflect makes created campaigns visible to ListCampaigns, newest first.
	Reflect bool
	// ListStarted is signalled once ListCampaigns has taken its snapshot;
	// ListBlock then holds the call until released.
	ListStarted chan struct{}
	ListBlock   chan struct{}
}

func (m *MockCampaignRepo) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	if m.Block != nil {
		<-m.Block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return m.CreateErr
	}
	c.ID = len(m.Created) + 1
	m.Created = append(m.Created, *c)
	if m.Reflect {
		m.Campaigns = append([]model.Campaign{*c}, m.Campaigns...)
	}
	return nil
}

func (m *MockCampaignRepo) ListCampaigns(ctx context.Context, f repository.CampaignFilter) ([]model.Campaign, error) {
	m.mu.Lock()
	m.ListCalls++
	listErr := m.ListErr
	snapshot := append([]model.Campaign(nil), m.Campaigns...)
	started, block := m.ListStarted, m.ListBlock
	m.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if listErr != nil {
		return nil, listErr
	}
	return snapshot, nil
}

func (m *MockCampaignRepo) createCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Created)
}

type MockSuggester struct {
	Suggestion model.Suggestion
	Err        error
	Block      chan struct{}
}

func (m *MockSuggester) Suggest(ctx context.Context) (model.Suggestion, error) {
	if m.Block != nil {
		<-m.Block
	}
	return m.Suggestion, m.Err
}

type MockNotifier struct {
	mu     sync.Mutex
	Events []queue.Event
	Err    error
}

func (m *MockNotifier) Publish(ctx context.Context, ev queue.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return m.Err
}

var errStore = errors.New("connection refused")

func sampleRoster() []model.Diner {
	return []model.Diner{
		{ID: 1, Name: "Sarah Johnson", Location: "San Francisco, CA", Interests: []string{"Fine Dining", "Wine"}},
		{ID: 2, Name: "Mike Chen", Location: "Oakland, CA", Interests: []string{"Asian Cuisine", "Casual Dining"}},
		{ID: 3, Name: "Emily Rodriguez", Location: "San Francisco, CA", Interests: []string{"Vegetarian", "Brunch"}},
		{ID: 4, Name: "David Kim", Location: "Berkeley, CA", Interests: []string{"Wine", "Date Night"}},
	}
}
