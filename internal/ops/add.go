package ops

import (
	"context"
	"slices"

	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/refcheck"
	"github.com/hpungsan/roster/internal/repo"
	"github.com/hpungsan/roster/internal/table"
)

// PromptField describes one value a caller must supply to add a member.
type PromptField struct {
	Name       string `json:"name"`
	MultiValue bool   `json:"multi_value,omitempty"`

	// RefTable is the table whose ids this field must match, or "".
	RefTable string `json:"ref_table,omitempty"`
	// Choices lists the valid ids of RefTable in file order.
	Choices []string `json:"choices,omitempty"`
}

// Accepts reports whether value is valid for the field.
// Plain fields accept anything; reference fields need an exact id.
func (p PromptField) Accepts(value string) bool {
	if p.RefTable == "" {
		return true
	}
	return slices.Contains(p.Choices, value)
}

// AddPlan lists the fields to collect for a new member, in header order.
type AddPlan struct {
	ID     string        `json:"id"`
	Fields []PromptField `json:"fields"`
}

// PlanAdd checks that id is free and returns the fields to prompt for.
func PlanAdd(deps *Deps, id string) (*AddPlan, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}

	ds, err := deps.Repos.LoadAll()
	if err != nil {
		return nil, err
	}
	if ds.Members.Contains(id) {
		return nil, errors.NewDuplicateID(repo.MembersTable, id)
	}

	sets := ds.IDSets()
	plan := &AddPlan{ID: id, Fields: []PromptField{}}
	for _, f := range ds.Members.Header().Fields() {
		if f.IsID {
			continue
		}
		pf := PromptField{Name: f.Name, MultiValue: f.MultiValue}
		if ref := refTable(ds, f); ref != nil {
			pf.RefTable = ref.Name()
			pf.Choices = []string{}
			for _, choice := range ref.IDs() {
				if refValid(f, choice, sets) {
					pf.Choices = append(pf.Choices, choice)
				}
			}
		}
		plan.Fields = append(plan.Fields, pf)
	}
	return plan, nil
}

// refTable returns the table f references, or nil. A field carrying several
// reference markers lists the first of member, team, title; its choices are
// narrowed to ids valid for every marker.
func refTable(ds *repo.Dataset, f table.Field) *table.Table {
	switch {
	case f.IsMemberRef:
		return ds.Members
	case f.IsTeamRef:
		return ds.Teams
	case f.IsTitleRef:
		return ds.Titles
	default:
		return nil
	}
}

// AddInput contains parameters for the Add operation.
type AddInput struct {
	ID     string
	Values map[string]string // field name -> value; the id field is taken from ID
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID     string            `json:"id"`
	Record map[string]string `json:"record"`
}

// Add appends a member after checking every reference field against the
// current ids of the referenced tables.
func Add(ctx context.Context, deps *Deps, input AddInput) (*AddOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ds, err := deps.Repos.LoadAll()
	if err != nil {
		return nil, err
	}
	sets := ds.IDSets()
	for _, f := range ds.Members.Header().Fields() {
		if !f.IsRef() {
			continue
		}
		value := input.Values[f.Name]
		if !refValid(f, value, sets) {
			return nil, errors.NewInvalidReference(repo.MembersTable, ds.Members.Len(), f.Name, value)
		}
	}

	if err := deps.Repos.Members.Add(id, input.Values); err != nil {
		return nil, err
	}
	deps.record(ctx, db.Entry{Table: repo.MembersTable, Op: db.OpAdd, RecordID: id})

	members, err := deps.Repos.Members.Fetch()
	if err != nil {
		return nil, err
	}
	row, err := members.FindRowByID(id)
	if err != nil {
		return nil, err
	}
	return &AddOutput{ID: id, Record: members.Header().Record(row)}, nil
}

func refValid(f table.Field, value string, sets refcheck.IDSets) bool {
	return (!f.IsMemberRef || sets.Members.Has(value)) &&
		(!f.IsTeamRef || sets.Teams.Has(value)) &&
		(!f.IsTitleRef || sets.Titles.Has(value))
}
