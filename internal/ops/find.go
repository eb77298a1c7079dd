package ops

// FindInput contains parameters for the Find operation.
type FindInput struct {
	Table     string // member, team or title
	Field     string
	Substring string
}

// FindOutput lists the ids of matching rows.
type FindOutput struct {
	Table string   `json:"table"`
	Field string   `json:"field"`
	IDs   []string `json:"ids"`
}

// Find returns the ids of rows whose field contains Substring.
// Matching is case-sensitive and keeps file order; an empty Substring
// matches every row.
func Find(deps *Deps, input FindInput) (*FindOutput, error) {
	r, err := deps.Repos.Lookup(input.Table)
	if err != nil {
		return nil, err
	}
	t, err := r.Fetch()
	if err != nil {
		return nil, err
	}
	ids, err := t.FindRowIDsBy(input.Field, input.Substring)
	if err != nil {
		return nil, err
	}
	return &FindOutput{Table: t.Name(), Field: input.Field, IDs: ids}, nil
}
