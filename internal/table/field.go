package table

import "strings"

// Header cell markers. Matching is case-insensitive.
const (
	markerMulti  = "(multi)"
	markerID     = "(id)"
	markerMember = "(member)"
	markerTeam   = "(team)"
	markerTitle  = "(title)"
)

// Field describes one column of a table, derived from its header cell.
type Field struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Raw         string `json:"-"`
	MultiValue  bool   `json:"multi_value,omitempty"`
	IsID        bool   `json:"is_id,omitempty"`
	IsMemberRef bool   `json:"is_member_ref,omitempty"`
	IsTeamRef   bool   `json:"is_team_ref,omitempty"`
	IsTitleRef  bool   `json:"is_title_ref,omitempty"`
}

// ParseField parses a raw header cell such as "team (team)" or "Skills (Multi)".
// The name is the text before the first "(", trimmed. Text without markers
// yields a plain field; ParseField never fails.
func ParseField(index int, raw string) Field {
	lower := strings.ToLower(raw)

	name := raw
	if i := strings.Index(raw, "("); i >= 0 {
		name = raw[:i]
	}

	return Field{
		Index:       index,
		Name:        strings.TrimSpace(name),
		Raw:         raw,
		MultiValue:  strings.Contains(lower, markerMulti),
		IsID:        strings.Contains(lower, markerID),
		IsMemberRef: strings.Contains(lower, markerMember),
		IsTeamRef:   strings.Contains(lower, markerTeam),
		IsTitleRef:  strings.Contains(lower, markerTitle),
	}
}

// IsRef reports whether the field references another table's ids.
func (f Field) IsRef() bool {
	return f.IsMemberRef || f.IsTeamRef || f.IsTitleRef
}
