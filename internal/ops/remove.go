package ops

import (
	"context"

	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/repo"
)

// RemoveInput contains parameters for the Remove operation.
type RemoveInput struct {
	ID string
}

// RemoveOutput contains the result of the Remove operation.
type RemoveOutput struct {
	Removed bool   `json:"removed"`
	ID      string `json:"id"`
}

// Remove deletes a member. An absent id is not an error; Removed is false
// and nothing is written or journaled.
func Remove(ctx context.Context, deps *Deps, input RemoveInput) (*RemoveOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	removed, err := deps.Repos.Members.Remove(id)
	if err != nil {
		return nil, err
	}
	if removed {
		deps.record(ctx, db.Entry{Table: repo.MembersTable, Op: db.OpRemove, RecordID: id})
	}

	return &RemoveOutput{Removed: removed, ID: id}, nil
}
