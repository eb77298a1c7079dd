package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer db.Close()

	dbPath := filepath.Join(tmpDir, FileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file not created at %s", dbPath)
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		t.Fatalf("failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %s, want wal", journalMode)
	}

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='entries'").Scan(&tableName)
	if err != nil {
		t.Fatalf("entries table not found: %v", err)
	}
}

func TestInit_CreatesDirectories(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "nested", "path", ".roster")

	db, err := Init(baseDir)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		t.Errorf("base directory not created at %s", baseDir)
	}
}

func TestInit_MigrationIdempotent(t *testing.T) {
	tmpDir := t.TempDir()

	db1, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("first Init() error = %v", err)
	}
	db1.Close()

	db2, err := Init(tmpDir)
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	defer db2.Close()

	version, err := GetUserVersion(db2)
	if err != nil {
		t.Fatalf("GetUserVersion() error = %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version after second Init = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestInsertList(t *testing.T) {
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	first := &Entry{Table: "members", Op: OpAdd, RecordID: "1"}
	require.NoError(t, Insert(ctx, db, first))
	require.NotEmpty(t, first.ID)
	require.NotZero(t, first.CreatedAt)

	second := &Entry{Table: "members", Op: OpUpdate, RecordID: "1", Field: "skills", Action: "add", Value: "go"}
	require.NoError(t, Insert(ctx, db, second))
	third := &Entry{Table: "members", Op: OpRemove, RecordID: "2"}
	require.NoError(t, Insert(ctx, db, third))

	all, err := List(ctx, db, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, third.ID, all[0].ID, "newest first")
	require.Equal(t, first.ID, all[2].ID)
	require.Equal(t, "skills", all[1].Field)
	require.Equal(t, "add", all[1].Action)
	require.Equal(t, "go", all[1].Value)
	require.Empty(t, all[0].Field)

	limited, err := List(ctx, db, ListFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)

	byRecord, err := List(ctx, db, ListFilter{Table: "members", RecordID: "1"})
	require.NoError(t, err)
	require.Len(t, byRecord, 2)
}

func TestList_Empty(t *testing.T) {
	db, err := Init(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	entries, err := List(context.Background(), db, ListFilter{Table: "teams"})
	require.NoError(t, err)
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestNewID_Sorted(t *testing.T) {
	prev := ""
	for i := 0; i < 50; i++ {
		id, err := NewID()
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}
