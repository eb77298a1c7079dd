package main

import (
	"bufio"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/config"
	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/logging"
	"github.com/hpungsan/roster/internal/ops"
	"github.com/hpungsan/roster/internal/repo"
	"github.com/hpungsan/roster/internal/storage"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// Exit statuses.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// env carries the process streams and the lazily opened directory.
type env struct {
	stdin  *bufio.Reader
	stdout io.Writer
	stderr io.Writer

	// globalDir holds the global config and, by default, the journal.
	globalDir string
	// workDir is where repo config lookup starts and relative data dirs resolve.
	workDir string

	cfg     *config.Config
	log     *zap.SugaredLogger
	journal *sql.DB
	deps    *ops.Deps
}

func newEnv(stdin io.Reader, stdout, stderr io.Writer) (*env, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}
	return &env{
		stdin:     bufio.NewReader(stdin),
		stdout:    stdout,
		stderr:    stderr,
		globalDir: filepath.Join(homeDir, config.DirName),
		workDir:   workDir,
	}, nil
}

func main() {
	e, err := newEnv(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitError)
	}
	os.Exit(e.run(os.Args))
}

// run executes one command and returns the process exit status.
func (e *env) run(args []string) int {
	app := newCLIApp(e)
	err := app.Run(args)
	e.close()

	if err == nil {
		return exitOK
	}
	var exitErr cli.ExitCoder
	if stderrors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintf(e.stderr, "error: %s\n", msg)
		}
		return exitErr.ExitCode()
	}
	fmt.Fprintf(e.stderr, "error: %v\n", err)
	return exitError
}

// open resolves configuration and flags, then builds the operation deps.
// Later calls return the same deps.
func (e *env) open(c *cli.Context) (*ops.Deps, error) {
	if e.deps != nil {
		return e.deps, nil
	}

	cfg, err := config.LoadWithRepo(e.globalDir, e.workDir)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to load config: %v", err))
	}
	if dir := c.String("dir"); dir != "" {
		cfg.DataDir = dir
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if !filepath.IsAbs(cfg.DataDir) {
		cfg.DataDir = filepath.Join(e.workDir, cfg.DataDir)
	}

	log, err := logging.New(e.stderr, cfg.LogLevel)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	var journal *sql.DB
	if !cfg.DisableJournal {
		dir := cfg.JournalDir
		if dir == "" {
			dir = e.globalDir
		}
		journal, err = db.Init(dir)
		if err != nil {
			log.Warnw("journal unavailable; history will not be recorded", "dir", dir, "err", err)
			journal = nil
		}
	}

	log.Debugw("opened directory", "data_dir", cfg.DataDir, "journal", journal != nil)
	e.cfg = cfg
	e.log = log
	e.journal = journal
	e.deps = &ops.Deps{
		Repos:   repo.NewSet(storage.NewFileStore(cfg.DataDir), cfg, log),
		Journal: journal,
		Log:     log,
	}
	return e.deps, nil
}

// close releases the journal and flushes the logger.
func (e *env) close() {
	if e.journal != nil {
		e.journal.Close()
		e.journal = nil
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
	e.deps = nil
}
