package db

import (
	"context"
	"crypto/rand"
	"database/sql"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/roster/internal/errors"
)

// Journal operations.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpRemove = "remove"
)

// Entry is one recorded mutation of a table.
type Entry struct {
	ID        string `json:"id"`
	Table     string `json:"table"`
	Op        string `json:"op"`
	RecordID  string `json:"record_id"`
	Field     string `json:"field,omitempty"`
	Action    string `json:"action,omitempty"`
	Value     string `json:"value,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Monotonic entropy is not safe for concurrent use.
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a fresh ULID string. IDs from one process sort in creation order.
func NewID() (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Insert records e. Missing ID and CreatedAt are filled in and written back to e.
func Insert(ctx context.Context, db *sql.DB, e *Entry) error {
	if e.ID == "" {
		id, err := NewID()
		if err != nil {
			return errors.NewInternal(err)
		}
		e.ID = id
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO entries (id, table_name, op, record_id, field, action, value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		e.ID, e.Table, e.Op, e.RecordID,
		toNullString(e.Field), toNullString(e.Action), toNullString(e.Value),
		e.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Table    string
	RecordID string
	Limit    int
}

// List returns entries newest first.
func List(ctx context.Context, db *sql.DB, f ListFilter) ([]Entry, error) {
	query := `
		SELECT id, table_name, op, record_id, field, action, value, created_at
		FROM entries
		WHERE 1=1
	`
	var args []any
	if f.Table != "" {
		query += " AND table_name = ?"
		args = append(args, f.Table)
	}
	if f.RecordID != "" {
		query += " AND record_id = ?"
		args = append(args, f.RecordID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var field, act, value sql.NullString
		if err := rows.Scan(&e.ID, &e.Table, &e.Op, &e.RecordID, &field, &act, &value, &e.CreatedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		e.Field = field.String
		e.Action = act.String
		e.Value = value.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return entries, nil
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
