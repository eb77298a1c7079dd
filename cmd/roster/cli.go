package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/mcp"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/report"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(e *env) *cli.App {
	app := &cli.App{
		Name:      "roster",
		Usage:     "Team directory kept in plain comma-separated files",
		Version:   Version,
		Reader:    e.stdin,
		Writer:    e.stdout,
		ErrWriter: e.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Directory holding members.csv, teams.csv and titles.csv"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error"},
		},
		Commands: []*cli.Command{
			addCmd(e),
			updateCmd(e),
			removeCmd(e),
			validateCmd(e),
			listCmd(e),
			showCmd(e),
			findCmd(e),
			historyCmd(e),
			reportCmd(e),
			mcpCmd(e),
		},
		// Reached when no command matched
		Action: func(c *cli.Context) error {
			cli.HelpPrinter(e.stderr, cli.AppHelpTemplate, c.App)
			if c.NArg() == 0 {
				return cli.Exit("", exitUsage)
			}
			return cli.Exit(fmt.Sprintf("unknown command %q", c.Args().First()), exitUsage)
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a member, prompting for every field (id is generated when omitted)",
		ArgsUsage: "member [<id>]",
		Action: func(c *cli.Context) error {
			if err := requireMembers(c); err != nil {
				return outputError(err)
			}
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}

			id := c.Args().Get(1)
			if id == "" {
				if id, err = db.NewID(); err != nil {
					return outputError(errors.NewInternal(err))
				}
			}

			plan, err := ops.PlanAdd(deps, id)
			if err != nil {
				return outputError(err)
			}
			p := &prompter{in: e.stdin, out: e.stderr}
			values := make(map[string]string, len(plan.Fields))
			for _, f := range plan.Fields {
				v, err := p.ask(f)
				if err != nil {
					return outputError(err)
				}
				values[f.Name] = v
			}

			output, err := ops.Add(c.Context, deps, ops.AddInput{ID: plan.ID, Values: values})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Overwrite a member field, or add/remove one value of a multi-value field",
		ArgsUsage: "member <id> <field> <value> | member <id> add|remove <field> <value>",
		Action: func(c *cli.Context) error {
			if err := requireMembers(c); err != nil {
				return outputError(err)
			}
			args := c.Args().Slice()

			input := ops.UpdateInput{}
			switch len(args) {
			case 4:
				input.ID, input.Field, input.Value = args[1], args[2], args[3]
			case 5:
				input.ID, input.Action, input.Field, input.Value = args[1], args[2], args[3], args[4]
			default:
				return outputError(errors.NewInvalidRequest("usage: update " + c.Command.ArgsUsage))
			}

			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Update(c.Context, deps, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a member",
		ArgsUsage: "member <id>",
		Action: func(c *cli.Context) error {
			if err := requireMembers(c); err != nil {
				return outputError(err)
			}
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: remove " + c.Command.ArgsUsage))
			}

			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Remove(c.Context, deps, ops.RemoveInput{ID: c.Args().Get(1)})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// validateCmd creates the validate command.
func validateCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check row widths and every id reference across members, teams and titles",
		Action: func(c *cli.Context) error {
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Validate(deps)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// listCmd creates the list command.
func listCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Print every record of a table",
		ArgsUsage: "member|team|title",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("usage: list " + c.Command.ArgsUsage))
			}
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.List(deps, ops.ListInput{Table: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// showCmd creates the show command.
func showCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one record",
		ArgsUsage: "member|team|title <id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: show " + c.Command.ArgsUsage))
			}
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Fetch(deps, ops.FetchInput{Table: c.Args().Get(0), ID: c.Args().Get(1)})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// findCmd creates the find command.
func findCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Print ids of records whose field contains a substring",
		ArgsUsage: "member|team|title <field> <substring>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return outputError(errors.NewInvalidRequest("usage: find " + c.Command.ArgsUsage))
			}
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.Find(deps, ops.FindInput{
				Table:     c.Args().Get(0),
				Field:     c.Args().Get(1),
				Substring: c.Args().Get(2),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// historyCmd creates the history command.
func historyCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Print recorded mutations, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Max entries (max 500)"},
			&cli.StringFlag{Name: "table", Usage: "Only entries for this table"},
			&cli.StringFlag{Name: "id", Usage: "Only entries for this record"},
		},
		Action: func(c *cli.Context) error {
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			output, err := ops.History(c.Context, deps, ops.HistoryInput{
				Table:    c.String("table"),
				RecordID: c.String("id"),
				Limit:    c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(e.stdout, output)
		},
	}
}

// reportCmd creates the report command.
func reportCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Render the directory as Markdown or HTML",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Render a standalone HTML page"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write to this file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			ds, err := deps.Repos.LoadAll()
			if err != nil {
				return outputError(err)
			}

			content := report.Markdown(ds)
			if c.Bool("html") {
				if content, err = report.HTML(content); err != nil {
					return outputError(err)
				}
			}

			path := c.String("out")
			if path == "" {
				_, err := io.WriteString(e.stdout, content)
				return err
			}
			if err := atomic.WriteFile(path, strings.NewReader(content)); err != nil {
				return outputError(errors.NewIO("write", path, err))
			}
			return outputJSON(e.stdout, map[string]string{"path": path})
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the directory as MCP tools over stdio",
		Action: func(c *cli.Context) error {
			deps, err := e.open(c)
			if err != nil {
				return outputError(err)
			}
			if unknown := mcp.ValidateDisabledTools(e.cfg.DisabledTools); len(unknown) > 0 {
				e.log.Warnw("ignoring unknown disabled_tools", "tools", unknown, "known", mcp.AllToolNames())
			}
			if err := mcp.Run(deps, e.cfg, Version); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// requireMembers rejects mutations aimed at any table but members.
func requireMembers(c *cli.Context) error {
	switch strings.ToLower(c.Args().First()) {
	case "member", "members":
		return nil
	case "":
		return errors.NewInvalidRequest(fmt.Sprintf("usage: %s %s", c.Command.Name, c.Command.ArgsUsage))
	default:
		return errors.NewInvalidRequest(fmt.Sprintf("%s only supports members; teams and titles are read-only", c.Command.Name))
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if rErr, ok := err.(*errors.RosterError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", rErr.Code, rErr.Message), exitError)
	}
	return cli.Exit(err.Error(), exitError)
}
