package table

import (
	"github.com/hpungsan/roster/internal/errors"
)

// Header is the ordered set of fields of a table.
// It always holds exactly one id field.
type Header struct {
	fields []Field
	id     int
}

// NewHeader parses raw header cells. It fails unless exactly one cell
// carries the (id) marker.
func NewHeader(cells []string) (Header, error) {
	fields := make([]Field, len(cells))
	id := -1
	var idNames []string
	for i, cell := range cells {
		f := ParseField(i, cell)
		fields[i] = f
		if f.IsID {
			id = i
			idNames = append(idNames, f.Name)
		}
	}

	switch len(idNames) {
	case 0:
		return Header{}, errors.NewMissingIDField()
	case 1:
		return Header{fields: fields, id: id}, nil
	default:
		return Header{}, errors.NewDuplicateIDField(idNames)
	}
}

// Len returns the number of fields.
func (h Header) Len() int {
	return len(h.fields)
}

// Fields returns a copy of the fields in column order.
func (h Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)
	return out
}

// IDField returns the table's unique id field.
func (h Header) IDField() Field {
	return h.fields[h.id]
}

// MemberRefs returns the fields that reference member ids.
func (h Header) MemberRefs() []Field {
	return h.filter(func(f Field) bool { return f.IsMemberRef })
}

// TeamRefs returns the fields that reference team ids.
func (h Header) TeamRefs() []Field {
	return h.filter(func(f Field) bool { return f.IsTeamRef })
}

// TitleRefs returns the fields that reference title ids.
func (h Header) TitleRefs() []Field {
	return h.filter(func(f Field) bool { return f.IsTitleRef })
}

func (h Header) filter(keep func(Field) bool) []Field {
	var out []Field
	for _, f := range h.fields {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// Names returns the field names in column order.
func (h Header) Names() []string {
	names := make([]string, len(h.fields))
	for i, f := range h.fields {
		names[i] = f.Name
	}
	return names
}

// Field looks up a field by exact name.
func (h Header) Field(name string) (Field, error) {
	for _, f := range h.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return Field{}, errors.NewUnknownField(name, h.Names())
}

// Record maps field names to the row's values. Missing trailing cells map to "".
func (h Header) Record(row Row) map[string]string {
	rec := make(map[string]string, len(h.fields))
	for _, f := range h.fields {
		rec[f.Name] = row.Value(f.Index)
	}
	return rec
}

// raw returns the original header cells.
func (h Header) raw() []string {
	cells := make([]string, len(h.fields))
	for i, f := range h.fields {
		cells[i] = f.Raw
	}
	return cells
}
