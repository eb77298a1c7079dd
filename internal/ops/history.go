package ops

import (
	"context"

	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Table    string // optional; member, team or title
	RecordID string // optional
	Limit    int    // default: 20, max: 500
}

// HistoryOutput contains journal entries, newest first.
type HistoryOutput struct {
	Entries []db.Entry `json:"entries"`
}

// History lists recorded mutations.
func History(ctx context.Context, deps *Deps, input HistoryInput) (*HistoryOutput, error) {
	if deps.Journal == nil {
		return nil, errors.NewInvalidRequest("journal is disabled")
	}

	filter := db.ListFilter{RecordID: input.RecordID}
	if input.Table != "" {
		r, err := deps.Repos.Lookup(input.Table)
		if err != nil {
			return nil, err
		}
		filter.Table = r.Name()
	}

	// Apply limit defaults and bounds
	filter.Limit = input.Limit
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}

	entries, err := db.List(ctx, deps.Journal, filter)
	if err != nil {
		return nil, err
	}
	return &HistoryOutput{Entries: entries}, nil
}
