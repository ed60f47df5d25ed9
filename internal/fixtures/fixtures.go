// Package fixtures holds the sample directory data and the canned offer pool.
package fixtures

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/unclebandit/dinerreach/internal/model"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

// Catalog is the fixture data loaded from YAML.
type Catalog struct {
	Cities      []string           `yaml:"cities"`
	Interests   []string           `yaml:"interests"`
	Diners      []model.Diner      `yaml:"diners"`
	Suggestions []model.Suggestion `yaml:"suggestions"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from disk, for deployments that ship their own roster.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	seen := make(map[int]bool, len(c.Diners))
	for _, d := range c.Diners {
		if seen[d.ID] {
			return fmt.Errorf("duplicate diner id %d", d.ID)
		}
		seen[d.ID] = true
	}
	for i, s := range c.Suggestions {
		if s.Title == "" || s.Message == "" {
			return fmt.Errorf("suggestion %d needs a title and a message", i)
		}
	}
	return nil
}

// Roster serves the catalog diners as a read-only roster source.
type Roster struct {
	diners []model.Diner
}

func NewRoster(diners []model.Diner) *Roster {
	return &Roster{diners: diners}
}

// ListDiners returns a copy of the roster in its fixed order.
func (r *Roster) ListDiners(ctx context.Context) ([]model.Diner, error) {
	out := make([]model.Diner, len(r.diners))
	for i, d := range r.diners {
		d.Interests = slices.Clone(d.Interests)
		out[i] = d
	}
	return out, nil
}
