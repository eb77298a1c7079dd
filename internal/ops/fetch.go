package ops

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	Table string // member, team or title
	ID    string
}

// FetchOutput contains one record as field name -> value.
type FetchOutput struct {
	Table  string            `json:"table"`
	ID     string            `json:"id"`
	Record map[string]string `json:"record"`
}

// Fetch returns the first row of a table with the given id.
func Fetch(deps *Deps, input FetchInput) (*FetchOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	r, err := deps.Repos.Lookup(input.Table)
	if err != nil {
		return nil, err
	}
	t, err := r.Fetch()
	if err != nil {
		return nil, err
	}
	row, err := t.FindRowByID(id)
	if err != nil {
		return nil, err
	}
	return &FetchOutput{Table: t.Name(), ID: id, Record: t.Header().Record(row)}, nil
}
