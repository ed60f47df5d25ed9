// internal/model/diner.go
package model

// Diner is a prospective restaurant customer in the directory.
type Diner struct {
	ID        int      `db:"id" json:"id" yaml:"id"`
	Name      string   `db:"name" json:"name" yaml:"name"`
	Location  string   `db:"location" json:"location" yaml:"location"`
	Interests []string `db:"interests" json:"interests" yaml:"interests"`
	Age       int      `db:"age" json:"age" yaml:"age"`
	LastVisit string   `db:"last_visit" json:"last_visit" yaml:"last_visit"`
	Email     string   `db:"email" json:"email" yaml:"email"`
}

// HasInterest reports whether the diner lists the given interest tag.
func (d Diner) HasInterest(interest string) bool {
	for _, i := range d.Interests {
		if i == interest {
			return true
		}
	}
	return false
}
