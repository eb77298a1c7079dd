package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/roster/internal/action"
	"github.com/hpungsan/roster/internal/errors"
)

var memberLines = []string{
	"id (id),name,team (team),title (title),skills (multi),mentor (member)",
	"1,Alice,eng,lead,go|sql,",
	"2,Bob,eng,dev,go,1",
	"3,Carol,Engineering Ops,dev,,1",
}

func mustParse(t *testing.T, lines []string) *Table {
	t.Helper()
	tbl, err := Parse("members", lines)
	require.NoError(t, err)
	return tbl
}

func TestParse(t *testing.T) {
	tbl := mustParse(t, memberLines)

	require.Equal(t, "members", tbl.Name())
	require.Equal(t, 6, tbl.Header().Len())
	require.Equal(t, 3, tbl.Len())
	require.Equal(t, []string{"1", "2", "3"}, tbl.IDs())

	rows := tbl.Rows()
	for i, r := range rows {
		require.Equal(t, i, r.Index)
	}
	require.Equal(t, []string{"2", "Bob", "eng", "dev", "go", "1"}, rows[1].Values)
}

func TestParse_TrimsCells(t *testing.T) {
	tbl := mustParse(t, []string{" id (id) , name ", " 7 ,  Dana  "})

	require.Equal(t, []string{"id", "name"}, tbl.Header().Names())
	row, err := tbl.FindRowByID("7")
	require.NoError(t, err)
	require.Equal(t, []string{"7", "Dana"}, row.Values)
}

func TestParse_IgnoresTrailingBlankLines(t *testing.T) {
	tbl := mustParse(t, []string{"id (id),name", "1,A", "", "  "})
	require.Equal(t, 1, tbl.Len())
}

func TestParse_Empty(t *testing.T) {
	for _, lines := range [][]string{nil, {}, {""}} {
		_, err := Parse("teams", lines)
		if !errors.Is(err, errors.ErrMissingHeader) {
			t.Errorf("Parse(%q) error = %v, want MISSING_HEADER", lines, err)
		}
	}
}

func TestParse_IDFieldInvariant(t *testing.T) {
	_, err := Parse("teams", []string{"code,name"})
	require.True(t, errors.Is(err, errors.ErrMissingIDField), "got %v", err)

	_, err = Parse("teams", []string{"id (id),code (ID),name"})
	require.True(t, errors.Is(err, errors.ErrDuplicateIDField), "got %v", err)
}

func TestParse_DoesNotPadOrTruncate(t *testing.T) {
	tbl := mustParse(t, []string{"id (id),name,team", "1,Alice", "2,Bob,eng,extra"})
	rows := tbl.Rows()
	require.Len(t, rows[0].Values, 2)
	require.Len(t, rows[1].Values, 4)
}

func TestValidateStructure(t *testing.T) {
	require.NoError(t, mustParse(t, memberLines).ValidateStructure())

	tbl := mustParse(t, []string{"id (id),name,team", "1,Alice,eng", "2,Bob", "3,Carol,eng,x"})
	err := tbl.ValidateStructure()
	require.True(t, errors.Is(err, errors.ErrRowWidth), "got %v", err)

	var rErr *errors.RosterError
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, 1, rErr.Details["row_index"])
}

func TestFindRowByID(t *testing.T) {
	tbl := mustParse(t, memberLines)

	row, err := tbl.FindRowByID("2")
	require.NoError(t, err)
	require.Equal(t, "Bob", row.Values[1])

	_, err = tbl.FindRowByID("99")
	require.True(t, errors.Is(err, errors.ErrUnknownID), "got %v", err)
}

func TestFindRowByID_ReturnsFirstMatch(t *testing.T) {
	tbl := mustParse(t, []string{"id (id),name", "1,first", "1,second"})
	row, err := tbl.FindRowByID("1")
	require.NoError(t, err)
	require.Equal(t, "first", row.Values[1])
}

func TestFindField(t *testing.T) {
	tbl := mustParse(t, memberLines)

	f, err := tbl.FindField("skills")
	require.NoError(t, err)
	require.Equal(t, 4, f.Index)
	require.True(t, f.MultiValue)

	_, err = tbl.FindField("Skills")
	require.True(t, errors.Is(err, errors.ErrUnknownField), "got %v", err)
	require.Contains(t, err.Error(), "id, name, team, title, skills, mentor")
}

func TestFindRowIDsBy(t *testing.T) {
	tbl := mustParse(t, memberLines)

	ids, err := tbl.FindRowIDsBy("team", "Engin")
	require.NoError(t, err)
	require.Equal(t, []string{"3"}, ids)

	ids, err = tbl.FindRowIDsBy("team", "engin")
	require.NoError(t, err)
	require.Empty(t, ids)

	ids, err = tbl.FindRowIDsBy("skills", "go")
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, ids)

	_, err = tbl.FindRowIDsBy("nope", "x")
	require.True(t, errors.Is(err, errors.ErrUnknownField), "got %v", err)
}

func TestAddRow(t *testing.T) {
	tbl := mustParse(t, memberLines)
	next := tbl.AddRow([]string{"4", "Dan", "eng", "dev", "", ""})

	require.Equal(t, 3, tbl.Len(), "receiver must not change")
	require.Equal(t, 4, next.Len())

	row, err := next.FindRowByID("4")
	require.NoError(t, err)
	require.Equal(t, 3, row.Index)
}

func TestAddRow_CopiesValues(t *testing.T) {
	tbl := mustParse(t, memberLines)
	values := []string{"4", "Dan", "eng", "dev", "", ""}
	next := tbl.AddRow(values)
	values[1] = "Mutated"

	row, err := next.FindRowByID("4")
	require.NoError(t, err)
	require.Equal(t, "Dan", row.Values[1])
}

func TestAddRow_DefersWidthCheck(t *testing.T) {
	next := mustParse(t, memberLines).AddRow([]string{"4"})
	require.Equal(t, 4, next.Len())
	require.True(t, errors.Is(next.ValidateStructure(), errors.ErrRowWidth))
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	tbl := mustParse(t, memberLines)
	next := tbl.AddRow([]string{"4", "Dan", "eng", "dev", "", ""}).RemoveRowByID("4")

	require.Equal(t, tbl.Len(), next.Len())
	require.Equal(t, tbl.IDs(), next.IDs())
	require.Equal(t, tbl.Lines(), next.Lines())
}

func TestRemoveRowByID(t *testing.T) {
	tbl := mustParse(t, memberLines)
	next := tbl.RemoveRowByID("2")

	require.Equal(t, []string{"1", "2", "3"}, tbl.IDs(), "receiver must not change")
	require.Equal(t, []string{"1", "3"}, next.IDs())
	for i, r := range next.Rows() {
		require.Equal(t, i, r.Index)
	}
}

func TestRemoveRowByID_Absent(t *testing.T) {
	tbl := mustParse(t, memberLines)
	next := tbl.RemoveRowByID("99")
	require.Equal(t, tbl.Lines(), next.Lines())
}

func TestUpdateFieldValue_TouchesOneCell(t *testing.T) {
	tbl := mustParse(t, memberLines)

	next, err := tbl.UpdateFieldValue("2", action.Action{Kind: action.Overwrite}, "name", "Robert")
	require.NoError(t, err)

	before := tbl.Rows()
	after := next.Rows()
	require.Len(t, after, len(before))
	for i := range before {
		for j := range before[i].Values {
			if i == 1 && j == 1 {
				require.Equal(t, "Robert", after[i].Values[j])
				continue
			}
			require.Equal(t, before[i].Values[j], after[i].Values[j], "row %d field %d", i, j)
		}
	}
	require.Equal(t, "Bob", before[1].Values[1], "receiver must not change")
}

func TestUpdateFieldValue_MultiValue(t *testing.T) {
	tbl := mustParse(t, memberLines)

	next, err := tbl.UpdateFieldValue("1", action.Action{Kind: action.MultiValueAdd}, "skills", "rust")
	require.NoError(t, err)
	row, _ := next.FindRowByID("1")
	require.Equal(t, "go|sql|rust", row.Values[4])

	next, err = next.UpdateFieldValue("1", action.Action{Kind: action.MultiValueRemove}, "skills", "go")
	require.NoError(t, err)
	row, _ = next.FindRowByID("1")
	require.Equal(t, "sql|rust", row.Values[4])
}

func TestUpdateFieldValue_Errors(t *testing.T) {
	tbl := mustParse(t, memberLines)

	_, err := tbl.UpdateFieldValue("99", action.Action{}, "name", "x")
	require.True(t, errors.Is(err, errors.ErrUnknownID), "got %v", err)

	_, err = tbl.UpdateFieldValue("1", action.Action{}, "nickname", "x")
	require.True(t, errors.Is(err, errors.ErrUnknownField), "got %v", err)

	short := mustParse(t, []string{"id (id),name,team", "1,Alice"})
	_, err = short.UpdateFieldValue("1", action.Action{}, "team", "eng")
	require.True(t, errors.Is(err, errors.ErrRowWidth), "got %v", err)
}

func TestRowsReturnsCopy(t *testing.T) {
	tbl := mustParse(t, memberLines)
	rows := tbl.Rows()
	rows[0].Values[1] = "Mallory"

	row, _ := tbl.FindRowByID("1")
	require.Equal(t, "Alice", row.Values[1])
}

func TestLines(t *testing.T) {
	tbl := mustParse(t, memberLines)
	require.Equal(t, memberLines, tbl.Lines())
}

func TestHeaderRefs(t *testing.T) {
	h := mustParse(t, memberLines).Header()

	require.Equal(t, "id", h.IDField().Name)
	require.Len(t, h.MemberRefs(), 1)
	require.Equal(t, "mentor", h.MemberRefs()[0].Name)
	require.Len(t, h.TeamRefs(), 1)
	require.Equal(t, "team", h.TeamRefs()[0].Name)
	require.Len(t, h.TitleRefs(), 1)
	require.Equal(t, "title", h.TitleRefs()[0].Name)
}

func TestHeaderRecord(t *testing.T) {
	tbl := mustParse(t, []string{"id (id),name,team", "1,Alice"})
	row, _ := tbl.FindRowByID("1")

	rec := tbl.Header().Record(row)
	require.Equal(t, map[string]string{"id": "1", "name": "Alice", "team": ""}, rec)
}

func TestContains(t *testing.T) {
	tbl := mustParse(t, memberLines)
	require.True(t, tbl.Contains("3"))
	require.False(t, tbl.Contains("4"))
}
