// Package refcheck verifies that reference fields point at ids that exist in
// the referenced tables.
package refcheck

import (
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/table"
)

// IDSet is the set of ids of one table.
type IDSet map[string]struct{}

// NewIDSet collects the ids of t. A nil table yields an empty set.
func NewIDSet(t *table.Table) IDSet {
	set := IDSet{}
	if t == nil {
		return set
	}
	for _, id := range t.IDs() {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDSets holds the valid ids of each referenceable table.
type IDSets struct {
	Members IDSet
	Teams   IDSet
	Titles  IDSet
}

// Violation is one reference that does not resolve.
type Violation struct {
	Table    string `json:"table"`
	RowIndex int    `json:"row_index"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

// Err converts the violation to an INVALID_REFERENCE error.
func (v Violation) Err() error {
	return errors.NewInvalidReference(v.Table, v.RowIndex, v.Field, v.Value)
}

// Check returns every reference violation in t, ordered by row then field.
// Each reference value must be an exact member of its set.
func Check(t *table.Table, sets IDSets) []Violation {
	var violations []Violation
	fields := t.Header().Fields()
	for _, row := range t.Rows() {
		for _, f := range fields {
			value := row.Value(f.Index)
			if f.IsMemberRef && !sets.Members.Has(value) ||
				f.IsTeamRef && !sets.Teams.Has(value) ||
				f.IsTitleRef && !sets.Titles.Has(value) {
				violations = append(violations, Violation{
					Table:    t.Name(),
					RowIndex: row.Index,
					Field:    f.Name,
					Value:    value,
				})
			}
		}
	}
	return violations
}

// Validate returns the first reference violation in t as an error, or nil.
func Validate(t *table.Table, sets IDSets) error {
	violations := Check(t, sets)
	if len(violations) == 0 {
		return nil
	}
	return violations[0].Err()
}
