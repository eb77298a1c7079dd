package ops

import (
	"github.com/hpungsan/roster/internal/errors"
)

// ValidateOutput contains the result of a successful Validate.
type ValidateOutput struct {
	Valid bool           `json:"valid"`
	Rows  map[string]int `json:"rows"` // table name -> row count
}

// Validate loads all three tables, then checks the structure and
// references of each against the ids of all three.
// On reference failures the first violation is returned as the error and
// Details["violations"] carries every one of them.
func Validate(deps *Deps) (*ValidateOutput, error) {
	ds, err := deps.Repos.LoadAll()
	if err != nil {
		return nil, err
	}

	if err := ds.Validate(); err != nil {
		if !errors.Is(err, errors.ErrInvalidReference) {
			return nil, err
		}
		violations := ds.Violations()
		first := violations[0]
		rErr := errors.NewInvalidReference(first.Table, first.RowIndex, first.Field, first.Value)
		rErr.Details["violations"] = violations
		deps.logger().Debugw("validation failed", "violations", len(violations))
		return nil, rErr
	}

	out := &ValidateOutput{Valid: true, Rows: map[string]int{}}
	for _, t := range ds.Tables() {
		out.Rows[t.Name()] = t.Len()
	}
	return out, nil
}
