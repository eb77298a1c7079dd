package ops

import (
	"github.com/hpungsan/roster/internal/table"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Table string // member, team or title
}

// ListOutput contains every row of a table.
type ListOutput struct {
	Table   string              `json:"table"`
	Fields  []table.Field       `json:"fields"`
	Records []map[string]string `json:"records"`
}

// List returns the header and all records of a table in file order.
func List(deps *Deps, input ListInput) (*ListOutput, error) {
	r, err := deps.Repos.Lookup(input.Table)
	if err != nil {
		return nil, err
	}
	t, err := r.Fetch()
	if err != nil {
		return nil, err
	}

	header := t.Header()
	records := make([]map[string]string, 0, t.Len())
	for _, row := range t.Rows() {
		records = append(records, header.Record(row))
	}
	return &ListOutput{Table: t.Name(), Fields: header.Fields(), Records: records}, nil
}
