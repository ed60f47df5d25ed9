// internal/service/suggester.go
package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/unclebandit/dinerreach/internal/model"
)

// Suggester produces an offer title and message for the composer.
type Suggester interface {
	Suggest(ctx context.Context) (model.Suggestion, error)
}

// CannedSuggester waits Delay and returns one of Pool picked uniformly at random.
type CannedSuggester struct {
	Pool  []model.Suggestion
	Delay time.Duration
	// Pick returns an index in [0, n). Defaults to math/rand.
	Pick func(n int) int
}

func (s *CannedSuggester) Suggest(ctx context.Context) (model.Suggestion, error) {
	if len(s.Pool) == 0 {
		return model.Suggestion{}, errors.New("suggestion pool is empty")
	}
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return model.Suggestion{}, ctx.Err()
		}
	}
	pick := s.Pick
	if pick == nil {
		pick = rand.IntN
	}
	return s.Pool[pick(len(s.Pool))], nil
}
