package ops

import (
	"context"
	"fmt"

	"github.com/hpungsan/roster/internal/action"
	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/repo"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID    string
	Field string

	// Action is "add", "remove" or "" for overwrite.
	Action string
	Value  string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// Update changes one field of one member.
// add and remove are only allowed on multi-value fields, and the id field
// cannot be changed. References are not checked here; run Validate for that.
func Update(ctx context.Context, deps *Deps, input UpdateInput) (*UpdateOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	act := action.Action{Kind: action.Overwrite}
	if input.Action != "" {
		act, err = action.FromToken(input.Action)
		if err != nil {
			return nil, err
		}
	}

	members, err := deps.Repos.Members.Fetch()
	if err != nil {
		return nil, err
	}
	field, err := members.FindField(input.Field)
	if err != nil {
		return nil, err
	}
	if field.IsID {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("id field %q cannot be updated", field.Name))
	}
	if act.IsMulti() && !field.MultiValue {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("field %q is not multi-value; %s is not allowed", field.Name, act.Kind))
	}

	value, err := deps.Repos.Members.Update(id, act, field.Name, input.Value)
	if err != nil {
		return nil, err
	}
	deps.record(ctx, db.Entry{
		Table:    repo.MembersTable,
		Op:       db.OpUpdate,
		RecordID: id,
		Field:    field.Name,
		Action:   act.Kind.String(),
		Value:    input.Value,
	})

	return &UpdateOutput{ID: id, Field: field.Name, Value: value}, nil
}
