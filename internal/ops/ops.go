package ops

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/roster/internal/db"
	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/logging"
	"github.com/hpungsan/roster/internal/repo"
)

// History limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 500
)

// Deps holds what every operation needs.
type Deps struct {
	Repos *repo.Set

	// Journal records mutations. Nil disables history.
	Journal *sql.DB

	Log *zap.SugaredLogger
}

// logger returns d.Log or a no-op logger.
func (d *Deps) logger() *zap.SugaredLogger {
	if d.Log == nil {
		return logging.Nop()
	}
	return d.Log
}

// record writes a journal entry after a successful save. The table file is
// already persisted at this point, so a journal failure is only logged.
func (d *Deps) record(ctx context.Context, e db.Entry) {
	if d.Journal == nil {
		return
	}
	if err := db.Insert(ctx, d.Journal, &e); err != nil {
		d.logger().Warnw("journal write failed", "table", e.Table, "op", e.Op, "record_id", e.RecordID, "err", err)
	}
}

// requireID trims id and rejects an empty one.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}
