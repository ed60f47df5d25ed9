// internal/model/selection.go
package model

import "slices"

// AllCities is the city value that disables the city filter.
const AllCities = "all"

// Selection is the directory filter state of one workspace. It is never persisted.
type Selection struct {
	Search    string   `json:"search"`
	City      string   `json:"city"`
	Interests []string `json:"interests"`
	DinerIDs  []int    `json:"diner_ids"`
}

// AnyCity reports whether the city filter is disabled.
func (s *Selection) AnyCity() bool {
	return s.City == "" || s.City == AllCities
}

// ToggleDiner adds id to the selected diners if absent and removes it otherwise.
func (s *Selection) ToggleDiner(id int) {
	if i := slices.Index(s.DinerIDs, id); i >= 0 {
		s.DinerIDs = slices.Delete(s.DinerIDs, i, i+1)
		return
	}
	s.DinerIDs = append(s.DinerIDs, id)
}

func (s *Selection) IsSelected(id int) bool {
	return slices.Contains(s.DinerIDs, id)
}

// ToggleInterest adds or removes an interest tag from the filter.
func (s *Selection) ToggleInterest(interest string) {
	if i := slices.Index(s.Interests, interest); i >= 0 {
		s.Interests = slices.Delete(s.Interests, i, i+1)
		return
	}
	s.Interests = append(s.Interests, interest)
}

func (s *Selection) HasInterest(interest string) bool {
	return slices.Contains(s.Interests, interest)
}

// ClearFilters resets city and interests. Search text and selected diners are kept.
func (s *Selection) ClearFilters() {
	s.City = AllCities
	s.Interests = nil
}

// Clone returns a deep copy safe to hand out of a lock.
func (s Selection) Clone() Selection {
	s.Interests = slices.Clone(s.Interests)
	s.DinerIDs = slices.Clone(s.DinerIDs)
	return s
}
