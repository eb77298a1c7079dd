package repo

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/refcheck"
	"github.com/hpungsan/roster/internal/storage"
	"github.com/hpungsan/roster/internal/table"
)

// Set groups the three repositories of one directory.
type Set struct {
	Members *Members
	Teams   *Repository
	Titles  *Repository
}

// NewSet binds all three repositories to store using the file names in cfg.
func NewSet(store storage.Store, cfg *config.Config, log *zap.SugaredLogger) *Set {
	return &Set{
		Members: NewMembers(store, cfg, log),
		Teams:   NewTeams(store, cfg, log),
		Titles:  NewTitles(store, cfg, log),
	}
}

// Lookup returns the repository for a table name. Singular forms
// ("member", "team", "title") are accepted.
func (s *Set) Lookup(kind string) (*Repository, error) {
	switch strings.TrimSuffix(strings.ToLower(kind), "s") {
	case "member":
		return s.Members.Repository, nil
	case "team":
		return s.Teams, nil
	case "title":
		return s.Titles, nil
	default:
		return nil, errors.NewInvalidRequest("table must be one of: member, team, title")
	}
}

// Dataset is a snapshot of all three tables loaded together.
type Dataset struct {
	Members *table.Table
	Teams   *table.Table
	Titles  *table.Table
}

// LoadAll reads all three tables before anything is validated.
func (s *Set) LoadAll() (*Dataset, error) {
	members, err := s.Members.Fetch()
	if err != nil {
		return nil, err
	}
	teams, err := s.Teams.Fetch()
	if err != nil {
		return nil, err
	}
	titles, err := s.Titles.Fetch()
	if err != nil {
		return nil, err
	}
	return &Dataset{Members: members, Teams: teams, Titles: titles}, nil
}

// Tables returns the tables in members, teams, titles order.
func (d *Dataset) Tables() []*table.Table {
	return []*table.Table{d.Members, d.Teams, d.Titles}
}

// IDSets returns the current id set of every table.
func (d *Dataset) IDSets() refcheck.IDSets {
	return refcheck.IDSets{
		Members: refcheck.NewIDSet(d.Members),
		Teams:   refcheck.NewIDSet(d.Teams),
		Titles:  refcheck.NewIDSet(d.Titles),
	}
}

// Violations returns every reference violation across all three tables.
func (d *Dataset) Violations() []refcheck.Violation {
	sets := d.IDSets()
	var out []refcheck.Violation
	for _, t := range d.Tables() {
		out = append(out, refcheck.Check(t, sets)...)
	}
	return out
}

// Validate checks the structure of every table, then the references of
// every table against the ids of all three. It returns the first failure.
func (d *Dataset) Validate() error {
	for _, t := range d.Tables() {
		if err := t.ValidateStructure(); err != nil {
			if rErr, ok := err.(*errors.RosterError); ok {
				rErr.Details["table"] = t.Name()
				rErr.Message = t.Name() + ": " + rErr.Message
			}
			return err
		}
	}
	if v := d.Violations(); len(v) > 0 {
		return v[0].Err()
	}
	return nil
}
