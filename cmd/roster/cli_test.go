package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/roster/internal/ops"
)

type testEnv struct {
	*env
	dataDir string
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

// newTestEnv writes a small directory to a temp dir and returns an env
// rooted there with its own global config dir.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dataDir := t.TempDir()
	writeFile(t, dataDir, "members.csv",
		"id (id),name,team (team),title (title),skills (multi)",
		"1,Alice,eng,lead,go",
	)
	writeFile(t, dataDir, "teams.csv", "id (id),name", "eng,Engineering", "ops,Operations")
	writeFile(t, dataDir, "titles.csv", "id (id),name", "dev,Developer", "lead,Team Lead")

	te := &testEnv{dataDir: dataDir, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	te.env = &env{
		stdin:     bufio.NewReader(strings.NewReader("")),
		stdout:    te.out,
		stderr:    te.errOut,
		globalDir: t.TempDir(),
		workDir:   dataDir,
	}
	return te
}

func writeFile(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	content := strings.Join(lines, "\n") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func readLines(t *testing.T, dir, name string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// exec runs one command with the given stdin and returns its exit status.
func (te *testEnv) exec(stdin string, args ...string) int {
	te.out.Reset()
	te.errOut.Reset()
	te.stdin = bufio.NewReader(strings.NewReader(stdin))
	return te.run(append([]string{"roster"}, args...))
}

func TestValidate_EndToEnd(t *testing.T) {
	te := newTestEnv(t)
	writeFile(t, te.dataDir, "members.csv", "id (id),name,team (team)", "1,Alice,eng")

	require.Equal(t, exitOK, te.exec("", "validate"), te.errOut.String())
	var out ops.ValidateOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &out))
	require.True(t, out.Valid)

	writeFile(t, te.dataDir, "members.csv", "id (id),name,team (team)", "1,Alice,sales")
	require.Equal(t, exitError, te.exec("", "validate"))
	require.Equal(t,
		"error: [INVALID_REFERENCE] members row 0: field \"team\" references unknown id \"sales\"\n",
		te.errOut.String())
	require.Empty(t, te.out.String())
}

func TestAdd_Interactive(t *testing.T) {
	te := newTestEnv(t)

	// "sales" is rejected and the menu offered; "2" picks ops
	stdin := "Bob\nsales\n2\ndev\ngo|k8s\n"
	require.Equal(t, exitOK, te.exec(stdin, "add", "member", "2"), te.errOut.String())

	require.Contains(t, te.errOut.String(), "\"sales\" is not a valid team id. Choose one:\n  1) eng\n  2) ops\n")
	var out ops.AddOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &out))
	require.Equal(t, "ops", out.Record["team"])

	require.Equal(t, []string{
		"id (id),name,team (team),title (title),skills (multi)",
		"1,Alice,eng,lead,go",
		"2,Bob,ops,dev,go|k8s",
	}, readLines(t, te.dataDir, "members.csv"))
}

func TestAdd_GeneratesID(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("Cara\neng\ndev\n\n", "add", "member"), te.errOut.String())
	var out ops.AddOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &out))
	require.Len(t, out.ID, 26)
	require.Len(t, readLines(t, te.dataDir, "members.csv"), 3)
}

func TestAdd_EOFAborts(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitError, te.exec("Bob\n", "add", "member", "2"))
	require.Contains(t, te.errOut.String(), "[INVALID_REQUEST]")
	require.Len(t, readLines(t, te.dataDir, "members.csv"), 2)
}

func TestAdd_Errors(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitError, te.exec("", "add", "member", "1"))
	require.Contains(t, te.errOut.String(), "[DUPLICATE_ID]")

	require.Equal(t, exitError, te.exec("", "add", "team", "hr"))
	require.Contains(t, te.errOut.String(), "read-only")
}

func TestUpdate(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("", "update", "member", "1", "name", "Alicia"), te.errOut.String())
	require.Equal(t, exitOK, te.exec("", "update", "member", "1", "add", "skills", "sql"), te.errOut.String())
	var out ops.UpdateOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &out))
	require.Equal(t, "go|sql", out.Value)

	require.Equal(t, exitOK, te.exec("", "update", "member", "1", "remove", "skills", "go"), te.errOut.String())
	require.Equal(t, "1,Alicia,eng,lead,sql", readLines(t, te.dataDir, "members.csv")[1])
}

func TestUpdate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown action", []string{"update", "member", "1", "append", "skills", "x"}, "[UNKNOWN_ACTION]"},
		{"unknown id", []string{"update", "member", "9", "name", "x"}, "[UNKNOWN_ID]"},
		{"unknown field", []string{"update", "member", "1", "office", "x"}, "[UNKNOWN_FIELD]"},
		{"wrong arity", []string{"update", "member", "1", "name"}, "[INVALID_REQUEST] usage: update"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			te := newTestEnv(t)
			require.Equal(t, exitError, te.exec("", tc.args...))
			require.Contains(t, te.errOut.String(), tc.want)
		})
	}
}

func TestRemove(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("", "remove", "member", "1"), te.errOut.String())
	require.Contains(t, te.out.String(), `"removed": true`)
	require.Len(t, readLines(t, te.dataDir, "members.csv"), 1)

	require.Equal(t, exitOK, te.exec("", "remove", "member", "1"))
	require.Contains(t, te.out.String(), `"removed": false`)
}

func TestHistory(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("", "update", "member", "1", "name", "Alicia"))
	require.Equal(t, exitOK, te.exec("", "remove", "member", "1"))

	require.Equal(t, exitOK, te.exec("", "history", "--limit", "1"), te.errOut.String())
	var out ops.HistoryOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &out))
	require.Len(t, out.Entries, 1)
	require.Equal(t, "remove", out.Entries[0].Op)
}

func TestHistory_JournalDisabled(t *testing.T) {
	te := newTestEnv(t)
	writeFile(t, te.globalDir, "config.json", `{"disable_journal": true}`)

	require.Equal(t, exitOK, te.exec("", "remove", "member", "1"))
	require.Equal(t, exitError, te.exec("", "history"))
	require.Contains(t, te.errOut.String(), "journal is disabled")
}

func TestQueries(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("", "show", "team", "ops"), te.errOut.String())
	require.Contains(t, te.out.String(), `"name": "Operations"`)

	require.Equal(t, exitOK, te.exec("", "find", "title", "name", "Lead"), te.errOut.String())
	var found ops.FindOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &found))
	require.Equal(t, []string{"lead"}, found.IDs)

	require.Equal(t, exitOK, te.exec("", "list", "members"), te.errOut.String())
	var list ops.ListOutput
	require.NoError(t, json.Unmarshal(te.out.Bytes(), &list))
	require.Len(t, list.Records, 1)
}

func TestReport(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitOK, te.exec("", "report"), te.errOut.String())
	require.Contains(t, te.out.String(), "| 1 | Alice | eng (Engineering) | lead (Team Lead) | go |")

	out := filepath.Join(t.TempDir(), "roster.html")
	require.Equal(t, exitOK, te.exec("", "report", "--html", "--out", out), te.errOut.String())
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "<td>eng (Engineering)</td>")
}

func TestDirFlag(t *testing.T) {
	te := newTestEnv(t)
	te.workDir = t.TempDir()

	require.Equal(t, exitError, te.exec("", "validate"))
	require.Contains(t, te.errOut.String(), "[IO]")

	require.Equal(t, exitOK, te.exec("", "--dir", te.dataDir, "validate"), te.errOut.String())
}

func TestUnknownCommand(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitUsage, te.exec("", "promote", "member", "1"))
	require.Contains(t, te.errOut.String(), "USAGE:")
	require.Contains(t, te.errOut.String(), `error: unknown command "promote"`)
	require.Empty(t, te.out.String())

	require.Equal(t, exitUsage, te.exec(""))
	require.Contains(t, te.errOut.String(), "USAGE:")
}

func TestInvalidLogLevel(t *testing.T) {
	te := newTestEnv(t)

	require.Equal(t, exitError, te.exec("", "--log-level", "loud", "validate"))
	require.Contains(t, te.errOut.String(), "invalid log level")
}

func TestValidate_MissingTableFile(t *testing.T) {
	te := newTestEnv(t)
	writeFile(t, te.dataDir, "members.csv", "id (id),name,team (team)", "1,Alice,eng")
	require.NoError(t, os.Remove(filepath.Join(te.dataDir, "titles.csv")))

	require.Equal(t, exitError, te.exec("", "validate"))
	require.Contains(t, te.errOut.String(), "error: [IO] read ")
	require.Contains(t, te.errOut.String(), "titles.csv")
	require.Empty(t, te.out.String())

	// an empty titles table (header only) is enough
	writeFile(t, te.dataDir, "titles.csv", "id (id),name")
	require.Equal(t, exitOK, te.exec("", "validate"), te.errOut.String())
}
