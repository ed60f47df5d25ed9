// internal/service/directory.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/unclebandit/dinerreach/internal/model"
)

// RosterSource supplies the diner roster in a fixed order.
type RosterSource interface {
	ListDiners(ctx context.Context) ([]model.Diner, error)
}

// FilterDiners keeps the diners matching every active predicate of sel, in roster order.
// The search text is matched as typed; surrounding whitespace is significant.
func FilterDiners(roster []model.Diner, sel model.Selection) []model.Diner {
	search := strings.ToLower(sel.Search)

	out := make([]model.Diner, 0, len(roster))
	for _, d := range roster {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(d.Location), search) {
			continue
		}
		if !sel.AnyCity() && d.Location != sel.City {
			continue
		}
		if len(sel.Interests) > 0 && !sharesInterest(d, sel.Interests) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func sharesInterest(d model.Diner, interests []string) bool {
	for _, i := range interests {
		if d.HasInterest(i) {
			return true
		}
	}
	return false
}

type SearchResult struct {
	Diners   []model.Diner `json:"diners"`
	Empty    bool          `json:"empty"`
	Selected int           `json:"selected"`
}

type Options struct {
	Cities    []string `json:"cities"`
	Interests []string `json:"interests"`
}

// Directory answers filter queries against the configured roster.
type Directory struct {
	Source    RosterSource
	Cities    []string
	Interests []string
}

func (d *Directory) Search(ctx context.Context, sel model.Selection) (SearchResult, error) {
	roster, err := d.Source.ListDiners(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("load roster: %w", err)
	}
	matches := FilterDiners(roster, sel)
	return SearchResult{
		Diners:   matches,
		Empty:    len(matches) == 0,
		Selected: len(sel.DinerIDs),
	}, nil
}

func (d *Directory) Options() Options {
	return Options{
		Cities:    append([]string(nil), d.Cities...),
		Interests: append([]string(nil), d.Interests...),
	}
}

// Recipients resolves the selected diner IDs against the roster. Unknown IDs are skipped.
func (d *Directory) Recipients(ctx context.Context, sel model.Selection) ([]model.Diner, error) {
	roster, err := d.Source.ListDiners(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	out := make([]model.Diner, 0, len(sel.DinerIDs))
	for _, diner := range roster {
		if sel.IsSelected(diner.ID) {
			out = append(out, diner)
		}
	}
	return out, nil
}
