package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DirName is the name of both the global (~/.roster) and repo-local (.roster) config directories.
const DirName = ".roster"

// Config holds application configuration.
type Config struct {
	// DataDir is the directory holding the three table files.
	// Relative paths are resolved against the working directory.
	DataDir string `json:"data_dir,omitempty"`

	// MembersFile, TeamsFile and TitlesFile name the table files inside DataDir.
	MembersFile string `json:"members_file,omitempty"`
	TeamsFile   string `json:"teams_file,omitempty"`
	TitlesFile  string `json:"titles_file,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisableJournal turns off the mutation history database.
	DisableJournal bool `json:"disable_journal,omitempty"`

	// JournalDir holds journal.db. Empty means the global config directory.
	JournalDir string `json:"journal_dir,omitempty"`

	// DisabledTools lists MCP tool names to leave unregistered.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:     ".",
		MembersFile: "members.csv",
		TeamsFile:   "teams.csv",
		TitlesFile:  "titles.csv",
		LogLevel:    "warn",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.roster.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.roster) and repo (.roster) directories.
// Repo config is found by walking upward from startDir to find the nearest .roster/config.json.
// Repo config takes precedence; either or both configs may be missing.
// A relative data_dir in the repo config is resolved against the directory containing .roster.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}
	if repoConfigPath != "" && repo.DataDir != "" && !filepath.IsAbs(repo.DataDir) {
		repoRoot := filepath.Dir(filepath.Dir(repoConfigPath))
		repo.DataDir = filepath.Join(repoRoot, repo.DataDir)
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .roster/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence when non-empty; booleans are OR-ed and
// slices are unioned.
func Merge(base, overlay *Config) *Config {
	return &Config{
		DataDir:        pick(base.DataDir, overlay.DataDir),
		MembersFile:    pick(base.MembersFile, overlay.MembersFile),
		TeamsFile:      pick(base.TeamsFile, overlay.TeamsFile),
		TitlesFile:     pick(base.TitlesFile, overlay.TitlesFile),
		LogLevel:       pick(base.LogLevel, overlay.LogLevel),
		JournalDir:     pick(base.JournalDir, overlay.JournalDir),
		DisableJournal: base.DisableJournal || overlay.DisableJournal,
		DisabledTools:  mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
	}
}

func pick(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice unions two slices, trimming whitespace and dropping duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
