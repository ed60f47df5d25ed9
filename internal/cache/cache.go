// Package cache keeps the dashboard's campaign list between renders.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/unclebandit/dinerreach/internal/model"
)

// CampaignListCache stores the newest-first campaign list. A miss means the
// list is stale and must be re-fetched.
//
// Every Invalidate bumps the generation. Callers read Generation before
// fetching from the store and hand it back to Set, which drops the write if
// an invalidation happened in between.
type CampaignListCache interface {
	Get(ctx context.Context) ([]model.Campaign, bool, error)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, gen uint64, campaigns []model.Campaign) error
	Invalidate(ctx context.Context) error
}

// Memory is a process-local cache.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	campaigns []model.Campaign
	storedAt  time.Time
	valid     bool
	gen       uint64
}

// NewMemory returns a cache whose entries expire after ttl; ttl <= 0 never expires.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(ctx context.Context) ([]model.Campaign, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.valid {
		return nil, false, nil
	}
	if m.ttl > 0 && m.now().Sub(m.storedAt) > m.ttl {
		return nil, false, nil
	}
	return slices.Clone(m.campaigns), true, nil
}

func (m *Memory) Generation(ctx context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen, nil
}

func (m *Memory) Set(ctx context.Context, gen uint64, campaigns []model.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil
	}
	m.campaigns = slices.Clone(campaigns)
	m.storedAt = m.now()
	m.valid = true
	return nil
}

func (m *Memory) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.campaigns = nil
	m.valid = false
	m.gen++
	return nil
}

var _ CampaignListCache = (*Memory)(nil)
