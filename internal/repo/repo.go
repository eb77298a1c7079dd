// Package repo binds the logical tables (members, teams, titles) to their
// backing files. Every public operation re-reads storage, so a repository
// never serves stale rows; mutations are a single load, mutate, save
// sequence with no locking (the last writer wins).
package repo

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/action"
	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/logging"
	"github.com/hpungsan/roster/internal/storage"
	"github.com/hpungsan/roster/internal/table"
)

// Table names.
const (
	MembersTable = "members"
	TeamsTable   = "teams"
	TitlesTable  = "titles"
)

// Repository loads one table from its backing file.
type Repository struct {
	name  string
	file  string
	store storage.Store
	log   *zap.SugaredLogger
}

// New binds a table name to a file in store.
func New(name, file string, store storage.Store, log *zap.SugaredLogger) *Repository {
	if log == nil {
		log = logging.Nop()
	}
	return &Repository{name: name, file: file, store: store, log: log}
}

// Name returns the logical table name.
func (r *Repository) Name() string {
	return r.name
}

// Fetch loads and parses the table. It always reads storage.
func (r *Repository) Fetch() (*table.Table, error) {
	lines, err := r.store.Load(r.file)
	if err != nil {
		return nil, err
	}
	t, err := table.Parse(r.name, lines)
	if err != nil {
		return nil, err
	}
	r.log.Debugw("loaded table", "table", r.name, "file", r.file, "rows", t.Len())
	return t, nil
}

// save validates the table's structure and persists it.
func (r *Repository) save(t *table.Table) error {
	if err := t.ValidateStructure(); err != nil {
		return err
	}
	if err := r.store.Save(r.file, t.Lines()); err != nil {
		return err
	}
	r.log.Debugw("saved table", "table", r.name, "file", r.file, "rows", t.Len())
	return nil
}

// Members is the mutable member repository.
type Members struct {
	*Repository
}

// NewMembers returns the member repository bound to cfg.MembersFile.
func NewMembers(store storage.Store, cfg *config.Config, log *zap.SugaredLogger) *Members {
	return &Members{Repository: New(MembersTable, cfg.MembersFile, store, log)}
}

// NewTeams returns the read-only team repository bound to cfg.TeamsFile.
func NewTeams(store storage.Store, cfg *config.Config, log *zap.SugaredLogger) *Repository {
	return New(TeamsTable, cfg.TeamsFile, store, log)
}

// NewTitles returns the read-only title repository bound to cfg.TitlesFile.
func NewTitles(store storage.Store, cfg *config.Config, log *zap.SugaredLogger) *Repository {
	return New(TitlesTable, cfg.TitlesFile, store, log)
}

// Add appends a member row. values maps field names to cell values; fields
// not present are left empty and the id field is always set to id.
func (m *Members) Add(id string, values map[string]string) error {
	t, err := m.Fetch()
	if err != nil {
		return err
	}
	if t.Contains(id) {
		return errors.NewDuplicateID(m.name, id)
	}

	header := t.Header()
	for name := range values {
		if _, err := header.Field(name); err != nil {
			return err
		}
	}

	row := make([]string, header.Len())
	for _, f := range header.Fields() {
		v := values[f.Name]
		if f.IsID {
			v = id
		}
		if err := CheckCell(f.Name, v); err != nil {
			return err
		}
		row[f.Index] = v
	}

	if err := m.save(t.AddRow(row)); err != nil {
		return err
	}
	m.log.Infow("added member", "id", id)
	return nil
}

// Update applies act to one field of one member and returns the field's new value.
func (m *Members) Update(id string, act action.Action, field, value string) (string, error) {
	if err := CheckCell(field, value); err != nil {
		return "", err
	}
	t, err := m.Fetch()
	if err != nil {
		return "", err
	}
	next, err := t.UpdateFieldValue(id, act, field, value)
	if err != nil {
		return "", err
	}
	if err := m.save(next); err != nil {
		return "", err
	}

	f, _ := next.FindField(field)
	row, _ := next.FindRowByID(id)
	m.log.Infow("updated member", "id", id, "field", field, "action", act.Kind.String())
	return row.Value(f.Index), nil
}

// Remove deletes the member with the given id. Removing an absent id is a
// no-op that reports false and leaves the file untouched.
func (m *Members) Remove(id string) (bool, error) {
	t, err := m.Fetch()
	if err != nil {
		return false, err
	}
	if !t.Contains(id) {
		m.log.Debugw("remove of absent member", "id", id)
		return false, nil
	}
	if err := m.save(t.RemoveRowByID(id)); err != nil {
		return false, err
	}
	m.log.Infow("removed member", "id", id)
	return true, nil
}

// CheckCell rejects values the unquoted comma-separated format cannot hold.
func CheckCell(field, value string) error {
	if strings.ContainsAny(value, ",\r\n") {
		return errors.NewInvalidRequest(fmt.Sprintf("value for %q must not contain commas or line breaks", field))
	}
	return nil
}
