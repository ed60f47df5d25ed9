// Package session keeps per-owner workspace state between requests.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/service"
)

// Workspace is one restaurant owner's directory selection and composer.
type Workspace struct {
	ID       uuid.UUID
	Composer *service.Composer

	mu        sync.Mutex
	selection model.Selection
	touched   time.Time
}

// Selection returns a copy of the current filter state.
func (w *Workspace) Selection() model.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selection.Clone()
}

// Update applies fn to the selection under the workspace lock and returns the result.
func (w *Workspace) Update(fn func(*model.Selection)) model.Selection {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.selection)
	return w.selection.Clone()
}

// Store holds live workspaces in memory.
type Store struct {
	NewComposer func() *service.Composer
	// IdleTimeout evicts workspaces untouched for longer; zero keeps them forever.
	IdleTimeout time.Duration
	Now         func() time.Time

	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace
}

func NewStore(newComposer func() *service.Composer, idle time.Duration) *Store {
	return &Store{
		NewComposer: newComposer,
		IdleTimeout: idle,
		Now:         time.Now,
		workspaces:  make(map[uuid.UUID]*Workspace),
	}
}

// Create starts a fresh workspace with an unfiltered selection.
func (s *Store) Create() *Workspace {
	w := &Workspace{
		ID:        uuid.New(),
		Composer:  s.NewComposer(),
		selection: model.Selection{City: model.AllCities},
		touched:   s.now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces[w.ID] = w
	return w
}

// Get looks up a workspace by its cookie value.
func (s *Store) Get(id string) (*Workspace, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, appErrors.ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workspaces[key]
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	if s.IdleTimeout > 0 && s.now().Sub(w.touched) > s.IdleTimeout {
		delete(s.workspaces, key)
		return nil, appErrors.ErrSessionNotFound
	}
	w.touched = s.now()
	return w, nil
}

// GetOrCreate returns the workspace for id, or a new one when id is unknown.
func (s *Store) GetOrCreate(id string) (w *Workspace, created bool) {
	if w, err := s.Get(id); err == nil {
		return w, false
	}
	return s.Create(), true
}

// Sweep drops idle workspaces and reports how many were removed.
func (s *Store) Sweep() int {
	if s.IdleTimeout <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, w := range s.workspaces {
		if s.now().Sub(w.touched) > s.IdleTimeout {
			delete(s.workspaces, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
