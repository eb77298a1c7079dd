// Package report renders a directory snapshot as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hpungsan/roster/internal/action"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/repo"
	"github.com/hpungsan/roster/internal/table"
)

// nameField is the field used to label resolved references.
const nameField = "name"

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
th { background: #f4f4f4; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Markdown renders one GFM table per table of ds, in members, teams,
// titles order. Multi-value cells are shown as comma lists and references
// as "id (name)" when the referenced table has a name field.
func Markdown(ds *repo.Dataset) string {
	names := labels(ds)

	var b strings.Builder
	b.WriteString("# Roster\n")
	for _, t := range ds.Tables() {
		fields := t.Header().Fields()

		fmt.Fprintf(&b, "\n## %s\n\n", t.Name())
		if t.Len() == 0 {
			b.WriteString("_No rows._\n")
			continue
		}

		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = escape(f.Name)
		}
		writeRow(&b, cells)
		for i := range cells {
			cells[i] = "---"
		}
		writeRow(&b, cells)

		for _, row := range t.Rows() {
			for i, f := range fields {
				cells[i] = escape(display(f, row.Value(f.Index), names))
			}
			writeRow(&b, cells)
		}
	}
	return b.String()
}

// HTML converts Markdown output to a standalone HTML page.
func HTML(markdown string) (string, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", errors.NewInternal(err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{Title: "Roster", Body: template.HTML(body.String())})
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return out.String(), nil
}

// labels maps table name -> id -> display name for tables with a name field.
func labels(ds *repo.Dataset) map[string]map[string]string {
	out := map[string]map[string]string{}
	for _, t := range ds.Tables() {
		f, err := t.FindField(nameField)
		if err != nil {
			continue
		}
		byID := map[string]string{}
		id := t.Header().IDField()
		for _, row := range t.Rows() {
			if _, seen := byID[row.Value(id.Index)]; !seen {
				byID[row.Value(id.Index)] = row.Value(f.Index)
			}
		}
		out[t.Name()] = byID
	}
	return out
}

func display(f table.Field, value string, names map[string]map[string]string) string {
	parts := []string{value}
	if f.MultiValue {
		parts = action.Split(value)
	}

	target := refTarget(f)
	for i, p := range parts {
		if name := names[target][p]; name != "" {
			parts[i] = fmt.Sprintf("%s (%s)", p, name)
		}
	}
	return strings.Join(parts, ", ")
}

func refTarget(f table.Field) string {
	switch {
	case f.IsMemberRef:
		return repo.MembersTable
	case f.IsTeamRef:
		return repo.TeamsTable
	case f.IsTitleRef:
		return repo.TitlesTable
	default:
		return ""
	}
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}

// escape keeps pipes from splitting a cell.
func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
