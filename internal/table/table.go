// Package table holds one comma-separated dataset in memory: a header of
// typed fields and an ordered list of rows.
//
// A *Table is an immutable value. AddRow, RemoveRowByID and UpdateFieldValue
// return a new table and leave the receiver untouched, so a caller can load,
// mutate and save without any shared state between steps.
//
// The format has no quoting: a value containing a comma splits into two cells.
package table

import (
	"strings"

	"github.com/hpungsan/roster/internal/action"
	"github.com/hpungsan/roster/internal/errors"
)

// Row is one data line of a table.
type Row struct {
	Index  int      `json:"index"`
	Values []string `json:"values"`
}

// Value returns the cell at index, or "" when the row is too short.
func (r Row) Value(index int) string {
	if index < 0 || index >= len(r.Values) {
		return ""
	}
	return r.Values[index]
}

func (r Row) clone() Row {
	values := make([]string, len(r.Values))
	copy(values, r.Values)
	return Row{Index: r.Index, Values: values}
}

// Table is a parsed header plus its rows.
type Table struct {
	name   string
	header Header
	rows   []Row
}

// Parse builds a table from raw text lines. The first line is the header.
// Each remaining line becomes a row, indexed from zero in file order.
// Blank lines at the end of the input are ignored.
func Parse(name string, lines []string) (*Table, error) {
	lines = trimTrailingBlank(lines)
	if len(lines) == 0 {
		return nil, errors.NewMissingHeader(name)
	}

	header, err := NewHeader(splitLine(lines[0]))
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(lines)-1)
	for i, line := range lines[1:] {
		rows = append(rows, Row{Index: i, Values: splitLine(line)})
	}

	return &Table{name: name, header: header, rows: rows}, nil
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

func splitLine(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

// Name returns the logical table name (e.g. "members").
func (t *Table) Name() string {
	return t.name
}

// Header returns the table's header.
func (t *Table) Header() Header {
	return t.header
}

// Rows returns a deep copy of the rows.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r.clone()
	}
	return rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// IDs returns every row's id value in row order.
func (t *Table) IDs() []string {
	idx := t.header.IDField().Index
	ids := make([]string, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.Value(idx)
	}
	return ids
}

// Contains reports whether any row has the given id.
func (t *Table) Contains(id string) bool {
	_, ok := t.find(id)
	return ok
}

// ValidateStructure checks that every row has one value per header field.
// It reports the first offending row.
func (t *Table) ValidateStructure() error {
	want := t.header.Len()
	for _, r := range t.rows {
		if len(r.Values) != want {
			return errors.NewRowWidth(r.Index, want, len(r.Values))
		}
	}
	return nil
}

// FindRowByID returns the first row whose id field equals id.
func (t *Table) FindRowByID(id string) (Row, error) {
	pos, ok := t.find(id)
	if !ok {
		return Row{}, errors.NewUnknownID(id)
	}
	return t.rows[pos].clone(), nil
}

func (t *Table) find(id string) (int, bool) {
	idx := t.header.IDField().Index
	for i, r := range t.rows {
		if r.Value(idx) == id {
			return i, true
		}
	}
	return -1, false
}

// FindField looks up a field by exact name.
func (t *Table) FindField(name string) (Field, error) {
	return t.header.Field(name)
}

// FindRowIDsBy returns the id of every row whose value at fieldName contains
// substring. Matching is case-sensitive and results keep row order.
func (t *Table) FindRowIDsBy(fieldName, substring string) ([]string, error) {
	f, err := t.header.Field(fieldName)
	if err != nil {
		return nil, err
	}
	idx := t.header.IDField().Index

	ids := []string{}
	for _, r := range t.rows {
		if strings.Contains(r.Value(f.Index), substring) {
			ids = append(ids, r.Value(idx))
		}
	}
	return ids, nil
}

// AddRow returns a new table with values appended as the last row.
// Width is not checked here; see ValidateStructure.
func (t *Table) AddRow(values []string) *Table {
	next := t.clone(len(t.rows) + 1)
	row := Row{Index: len(t.rows), Values: make([]string, len(values))}
	copy(row.Values, values)
	next.rows = append(next.rows, row)
	return next
}

// RemoveRowByID returns a new table without the rows whose id equals id.
// Removing an absent id returns an equal table.
func (t *Table) RemoveRowByID(id string) *Table {
	idx := t.header.IDField().Index
	next := &Table{name: t.name, header: t.header, rows: make([]Row, 0, len(t.rows))}
	for _, r := range t.rows {
		if r.Value(idx) == id {
			continue
		}
		row := r.clone()
		row.Index = len(next.rows)
		next.rows = append(next.rows, row)
	}
	return next
}

// UpdateFieldValue returns a new table in which the named field of the row
// with the given id holds act.Update(current, change). Every other cell is unchanged.
func (t *Table) UpdateFieldValue(id string, act action.Action, fieldName, change string) (*Table, error) {
	pos, ok := t.find(id)
	if !ok {
		return nil, errors.NewUnknownID(id)
	}
	f, err := t.header.Field(fieldName)
	if err != nil {
		return nil, err
	}
	row := t.rows[pos]
	if f.Index >= len(row.Values) {
		return nil, errors.NewRowWidth(row.Index, t.header.Len(), len(row.Values))
	}

	next := t.clone(len(t.rows))
	next.rows[pos].Values[f.Index] = act.Update(row.Values[f.Index], change)
	return next, nil
}

// clone deep-copies the table, reserving room for capacity rows.
func (t *Table) clone(capacity int) *Table {
	rows := make([]Row, len(t.rows), capacity)
	for i, r := range t.rows {
		rows[i] = r.clone()
	}
	return &Table{name: t.name, header: t.header, rows: rows}
}

// Lines serializes the table back to comma-joined text lines, header first.
func (t *Table) Lines() []string {
	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, strings.Join(t.header.raw(), ","))
	for _, r := range t.rows {
		lines = append(lines, strings.Join(r.Values, ","))
	}
	return lines
}
