// Copyright 2026 The Trackd Authors
// SPDX-License-Identifier: Apache-2.0

package issuestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/trackd-project/trackd/lib/clock"
	"github.com/trackd-project/trackd/lib/issue"
	"github.com/trackd-project/trackd/lib/sqlitepool"
)

// ErrNotFound reports that no issue row matched the given id. The API
// maps it (together with malformed ids, which never reach the store)
// onto the "could not update" / "could not delete" responses.
var ErrNotFound = errors.New("issuestore: issue not found")

// schema creates the issues table. Rowid order is insertion order,
// which is the order list responses return.
const schema = `
CREATE TABLE IF NOT EXISTS issues (
	id          TEXT PRIMARY KEY,
	project     TEXT NOT NULL,
	issue_title TEXT NOT NULL,
	issue_text  TEXT NOT NULL,
	created_by  TEXT NOT NULL,
	assigned_to TEXT NOT NULL DEFAULT '',
	status_text TEXT NOT NULL DEFAULT '',
	open        INTEGER NOT NULL DEFAULT 1,
	created_on  TEXT NOT NULL,
	updated_on  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_issues_project ON issues(project);
`

// Store manages SQLite storage for issues. Construct with Open; safe
// for concurrent use. Each method takes a pooled connection, runs
// exactly one statement (or a short fixed sequence), and returns only
// after the statement completes.
type Store struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// Config holds the parameters for opening an issue store.
type Config struct {
	// Path is the filesystem path to the SQLite database file. The
	// parent directory must exist.
	Path string

	// PoolSize is the number of connections in the pool. Defaults to
	// 4 if zero or negative.
	PoolSize int

	// Clock provides the creation time encoded into new issue ids.
	// Required.
	Clock clock.Clock

	// Logger receives operational messages. Required.
	Logger *slog.Logger
}

// Open creates an issue store backed by SQLite. The database file is
// created if it does not exist, and the schema is applied to every
// pooled connection on first use.
func Open(cfg Config) (*Store, error) {
	if cfg.Clock == nil {
		return nil, fmt.Errorf("issuestore: Clock is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("issuestore: Logger is required")
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:     cfg.Path,
		PoolSize: cfg.PoolSize,
		Logger:   cfg.Logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schema, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("issuestore: %w", err)
	}

	return &Store{pool: pool, clock: cfg.Clock, logger: cfg.Logger}, nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Insert persists a new issue and returns the stored record with its
// assigned id. The caller provides a validated issue (from issue.New)
// with no id; Insert generates one whose leading bytes encode the
// current time.
func (s *Store) Insert(ctx context.Context, record issue.Issue) (issue.Issue, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return issue.Issue{}, fmt.Errorf("issuestore: insert: %w", err)
	}
	defer s.pool.Put(conn)

	// A fresh id has 64 random bits; a primary-key collision means we
	// lost a 1-in-2^64 lottery, so one retry round is plenty.
	for attempt := 0; ; attempt++ {
		record.ID = issue.NewID(s.clock.Now())

		err := sqlitex.Execute(conn, `INSERT INTO issues
			(id, project, issue_title, issue_text, created_by,
			 assigned_to, status_text, open, created_on, updated_on)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			&sqlitex.ExecOptions{
				Args: []any{
					string(record.ID),
					record.Project,
					record.Title,
					record.Text,
					record.CreatedBy,
					record.AssignedTo,
					record.StatusText,
					boolToInt(record.Open),
					record.CreatedOn,
					record.UpdatedOn,
				},
			})
		if err == nil {
			return record, nil
		}
		if attempt == 0 && sqlite.ErrCode(err) == sqlite.ResultConstraintPrimaryKey {
			continue
		}
		return issue.Issue{}, fmt.Errorf("issuestore: insert: %w", err)
	}
}

// Find returns the issues under the given project matching every
// dimension of the filter, in insertion order. An empty result is a
// plain empty slice, not an error. The project column is not selected:
// list responses omit it, so the returned issues carry an empty
// Project field.
func (s *Store) Find(ctx context.Context, project string, filter issue.Filter) ([]issue.Issue, error) {
	if filter.MatchesNone() {
		return []issue.Issue{}, nil
	}

	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("issuestore: find: %w", err)
	}
	defer s.pool.Put(conn)

	conditions := []string{"project = ?"}
	args := []any{project}

	if filter.ID != nil {
		conditions = append(conditions, "id = ?")
		args = append(args, string(*filter.ID))
	}
	if filter.Title != nil {
		conditions = append(conditions, "issue_title = ?")
		args = append(args, *filter.Title)
	}
	if filter.Text != nil {
		conditions = append(conditions, "issue_text = ?")
		args = append(args, *filter.Text)
	}
	if filter.CreatedBy != nil {
		conditions = append(conditions, "created_by = ?")
		args = append(args, *filter.CreatedBy)
	}
	if filter.AssignedTo != nil {
		conditions = append(conditions, "assigned_to = ?")
		args = append(args, *filter.AssignedTo)
	}
	if filter.StatusText != nil {
		conditions = append(conditions, "status_text = ?")
		args = append(args, *filter.StatusText)
	}
	if filter.Open != nil {
		conditions = append(conditions, "open = ?")
		args = append(args, boolToInt(*filter.Open))
	}
	if filter.CreatedOn != nil {
		conditions = append(conditions, "created_on = ?")
		args = append(args, *filter.CreatedOn)
	}
	if filter.UpdatedOn != nil {
		conditions = append(conditions, "updated_on = ?")
		args = append(args, *filter.UpdatedOn)
	}

	query := "SELECT id, issue_title, issue_text, created_by, assigned_to, " +
		"status_text, open, created_on, updated_on FROM issues WHERE " +
		strings.Join(conditions, " AND ") + " ORDER BY rowid"

	results := []issue.Issue{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			results = append(results, scanIssue(stmt))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("issuestore: find: %w", err)
	}
	return results, nil
}

// UpdateByID applies the non-nil fields of the update to the issue
// with the given id and refreshes updated_on in the same write.
// Returns ErrNotFound if no row matches. A zero update still
// refreshes updated_on — the handler has already rejected requests
// that sent no fields at all, and the timestamp refreshes whenever
// any field arrived, even an unrecognized one.
func (s *Store) UpdateByID(ctx context.Context, id issue.ID, update issue.Update, updatedOn string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("issuestore: update: %w", err)
	}
	defer s.pool.Put(conn)

	assignments := []string{"updated_on = ?"}
	args := []any{updatedOn}

	if update.Title != nil {
		assignments = append(assignments, "issue_title = ?")
		args = append(args, *update.Title)
	}
	if update.Text != nil {
		assignments = append(assignments, "issue_text = ?")
		args = append(args, *update.Text)
	}
	if update.CreatedBy != nil {
		assignments = append(assignments, "created_by = ?")
		args = append(args, *update.CreatedBy)
	}
	if update.AssignedTo != nil {
		assignments = append(assignments, "assigned_to = ?")
		args = append(args, *update.AssignedTo)
	}
	if update.StatusText != nil {
		assignments = append(assignments, "status_text = ?")
		args = append(args, *update.StatusText)
	}
	if update.Open != nil {
		assignments = append(assignments, "open = ?")
		args = append(args, boolToInt(*update.Open))
	}

	query := "UPDATE issues SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	args = append(args, string(id))

	if err := sqlitex.Execute(conn, query, &sqlitex.ExecOptions{Args: args}); err != nil {
		return fmt.Errorf("issuestore: update %s: %w", id, err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("issuestore: update %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByID removes the issue with the given id. Returns ErrNotFound
// if no row matches.
func (s *Store) DeleteByID(ctx context.Context, id issue.ID) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("issuestore: delete: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn, "DELETE FROM issues WHERE id = ?", &sqlitex.ExecOptions{
		Args: []any{string(id)},
	})
	if err != nil {
		return fmt.Errorf("issuestore: delete %s: %w", id, err)
	}
	if conn.Changes() == 0 {
		return fmt.Errorf("issuestore: delete %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanIssue reads one row of the Find projection. The project column
// is intentionally absent; Project stays empty on listed issues.
func scanIssue(stmt *sqlite.Stmt) issue.Issue {
	// Columns: id(0), issue_title(1), issue_text(2), created_by(3),
	// assigned_to(4), status_text(5), open(6), created_on(7),
	// updated_on(8)
	return issue.Issue{
		ID:         issue.ID(stmt.ColumnText(0)),
		Title:      stmt.ColumnText(1),
		Text:       stmt.ColumnText(2),
		CreatedBy:  stmt.ColumnText(3),
		AssignedTo: stmt.ColumnText(4),
		StatusText: stmt.ColumnText(5),
		Open:       stmt.ColumnInt(6) != 0,
		CreatedOn:  stmt.ColumnText(7),
		UpdatedOn:  stmt.ColumnText(8),
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
