package table

import (
	"testing"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Field
	}{
		{
			name: "plain field",
			raw:  "name",
			want: Field{Index: 2, Name: "name", Raw: "name"},
		},
		{
			name: "id marker",
			raw:  "id (id)",
			want: Field{Index: 2, Name: "id", Raw: "id (id)", IsID: true},
		},
		{
			name: "team reference",
			raw:  "team (team)",
			want: Field{Index: 2, Name: "team", Raw: "team (team)", IsTeamRef: true},
		},
		{
			name: "multi-value member reference",
			raw:  "mentors (multi)(member)",
			want: Field{Index: 2, Name: "mentors", Raw: "mentors (multi)(member)", MultiValue: true, IsMemberRef: true},
		},
		{
			name: "title reference uppercase",
			raw:  "Role (TITLE)",
			want: Field{Index: 2, Name: "Role", Raw: "Role (TITLE)", IsTitleRef: true},
		},
		{
			name: "name is trimmed",
			raw:  "  display name   (multi)",
			want: Field{Index: 2, Name: "display name", Raw: "  display name   (multi)", MultiValue: true},
		},
		{
			name: "unknown marker is ignored",
			raw:  "notes (free text)",
			want: Field{Index: 2, Name: "notes", Raw: "notes (free text)"},
		},
		{
			name: "empty cell",
			raw:  "",
			want: Field{Index: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseField(2, tt.raw)
			if got != tt.want {
				t.Errorf("ParseField(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseField_CaseInsensitiveAndOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"Name (ID)", "name (id)"},
		{"skills (multi)(team)", "skills (TEAM) (Multi)"},
		{"x (Member)(TITLE)", "x (title)(member)"},
	}

	for _, p := range pairs {
		a := ParseField(0, p[0])
		b := ParseField(0, p[1])
		if a.MultiValue != b.MultiValue || a.IsID != b.IsID ||
			a.IsMemberRef != b.IsMemberRef || a.IsTeamRef != b.IsTeamRef || a.IsTitleRef != b.IsTitleRef {
			t.Errorf("flags differ: %q -> %+v, %q -> %+v", p[0], a, p[1], b)
		}
	}
}

func TestField_IsRef(t *testing.T) {
	if ParseField(0, "name").IsRef() {
		t.Error("plain field IsRef() = true, want false")
	}
	if ParseField(0, "id (id)").IsRef() {
		t.Error("id field IsRef() = true, want false")
	}
	for _, raw := range []string{"a (member)", "a (team)", "a (title)"} {
		if !ParseField(0, raw).IsRef() {
			t.Errorf("ParseField(%q).IsRef() = false, want true", raw)
		}
	}
}
