package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ActivityStore = (*ActivityRepo)(nil)

// ActivityRepo is the SQLite implementation of the ActivityStore port interface.
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a new ActivityRepo backed by the given DB.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

// Record inserts one dispatch entry. The ID must be unique.
func (r *ActivityRepo) Record(ctx context.Context, a model.Activity) error {
	const query = `
		INSERT INTO activity (id, label, action, method, outcome, status_code, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		a.ID,
		a.Label,
		a.Action,
		string(a.Method),
		string(a.Outcome),
		a.StatusCode,
		a.Duration.Milliseconds(),
		a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("record activity %s: %w", a.ID, err)
	}

	return nil
}

// ListRecent returns at most limit entries ordered newest first.
func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		return []model.Activity{}, nil
	}

	const query = `
		SELECT id, label, action, method, outcome, status_code, duration_ms, created_at
		FROM activity
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	entries := []model.Activity{}
	for rows.Next() {
		var (
			a          model.Activity
			method     string
			outcome    string
			durationMS int64
		)
		if err := rows.Scan(&a.ID, &a.Label, &a.Action, &method, &outcome, &a.StatusCode, &durationMS, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Method = model.Method(method)
		a.Outcome = model.NoticeKind(outcome)
		a.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}

	return entries, nil
}
