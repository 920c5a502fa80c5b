// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acastaldi/pedit/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// Store wraps SQLite access for users, sessions, and edit records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			surname TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			corpus_path TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS edit_records (
			session_id INTEGER NOT NULL REFERENCES sessions(id),
			position INTEGER NOT NULL,
			segment_id INTEGER NOT NULL,
			original TEXT NOT NULL,
			edited TEXT NOT NULL,
			edit_time REAL NOT NULL,
			insertions INTEGER NOT NULL,
			deletions INTEGER NOT NULL,
			PRIMARY KEY (session_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id, ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_edit_records_segment ON edit_records(session_id, segment_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts a new user and returns its id. Emails are unique.
func (s *Store) CreateUser(ctx context.Context, user model.User) (int64, error) {
	active := 0
	if user.Active {
		active = 1
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (name, surname, email, password_hash, active) VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Surname, user.Email, user.PasswordHash, active)
	if err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertId()
}

// GetUserByEmail looks up an active user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, surname, email, password_hash, active FROM users WHERE email = ?`, email)
	var user model.User
	var active int
	if err := row.Scan(&user.ID, &user.Name, &user.Surname, &user.Email, &user.PasswordHash, &active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	user.Active = active != 0
	return user, nil
}

// ListUsers returns all users ordered by surname then name.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, surname, email, password_hash, active FROM users ORDER BY surname, name`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var users []model.User
	for rows.Next() {
		var user model.User
		var active int
		if err := rows.Scan(&user.ID, &user.Name, &user.Surname, &user.Email, &user.PasswordHash, &active); err != nil {
			return nil, err
		}
		user.Active = active != 0
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveSession stores a completed session bundle and its ordered records.
func (s *Store) SaveSession(ctx context.Context, bundle model.SessionBundle) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (user_id, started_at, ended_at, corpus_path) VALUES (?, ?, ?, ?)`,
		bundle.UserID,
		bundle.StartedAt.Format(time.RFC3339Nano),
		bundle.EndedAt.Format(time.RFC3339Nano),
		bundle.CorpusPath,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(bundle.Records) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO edit_records (session_id, position, segment_id, original, edited, edit_time, insertions, deletions)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for pos, r := range bundle.Records {
			if _, err = stmt.ExecContext(ctx, id, pos, r.SegmentID, r.Original, r.Edited, r.EditTime, r.Insertions, r.Deletions); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LatestRecords returns the record history of the user's most recent
// session in transition order.
func (s *Store) LatestRecords(ctx context.Context, userID int64) ([]model.EditRecord, error) {
	query := `SELECT r.segment_id, r.original, r.edited, r.edit_time, r.insertions, r.deletions
		FROM edit_records r
		JOIN sessions s ON s.id = r.session_id
		WHERE s.id = (SELECT id FROM sessions WHERE user_id = ? ORDER BY ended_at DESC, id DESC LIMIT 1)
		ORDER BY r.position ASC`
	return s.queryRecords(ctx, query, userID)
}

// PostEditedSegments returns one edited text per segment from the user's
// most recent session, ordered by segment id. When a segment was revisited
// the latest record wins.
func (s *Store) PostEditedSegments(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT r.edited
		FROM edit_records r
		JOIN (
			SELECT segment_id, MAX(position) AS position
			FROM edit_records
			WHERE session_id = (SELECT id FROM sessions WHERE user_id = ? ORDER BY ended_at DESC, id DESC LIMIT 1)
			GROUP BY segment_id
		) latest ON latest.segment_id = r.segment_id AND latest.position = r.position
		WHERE r.session_id = (SELECT id FROM sessions WHERE user_id = ? ORDER BY ended_at DESC, id DESC LIMIT 1)
		ORDER BY r.segment_id ASC`
	rows, err := s.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var edited []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, err
		}
		edited = append(edited, text)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return edited, nil
}

// UserAggregates summarizes stored records per user for the dashboard.
func (s *Store) UserAggregates(ctx context.Context, cfg model.StatsConfig) ([]model.UserAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Email != "" {
		clauses = append(clauses, "u.email = ?")
		args = append(args, cfg.Email)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "s.ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT u.id, u.name, u.surname,
			COUNT(r.segment_id) AS segments,
			COALESCE(SUM(r.edit_time), 0) AS total_time,
			COALESCE(SUM(r.insertions + r.deletions), 0) AS edits
		FROM users u
		JOIN sessions s ON s.user_id = u.id
		JOIN edit_records r ON r.session_id = s.id
		WHERE %s
		GROUP BY u.id, u.name, u.surname
		ORDER BY u.surname, u.name`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var aggs []model.UserAggregate
	for rows.Next() {
		var agg model.UserAggregate
		if err := rows.Scan(&agg.UserID, &agg.Name, &agg.Surname, &agg.Segments, &agg.TotalTime, &agg.Edits); err != nil {
			return nil, err
		}
		if agg.Segments > 0 {
			agg.AvgTime = agg.TotalTime / float64(agg.Segments)
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

// EditTimeSeries returns per-record edit times for a user across sessions
// in chronological order, for learning curves.
func (s *Store) EditTimeSeries(ctx context.Context, userID int64) ([]float64, error) {
	query := `SELECT r.edit_time
		FROM edit_records r
		JOIN sessions s ON s.id = r.session_id
		WHERE s.user_id = ?
		ORDER BY s.ended_at ASC, s.id ASC, r.position ASC`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var series []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		series = append(series, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]model.EditRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.EditRecord
	for rows.Next() {
		var r model.EditRecord
		if err := rows.Scan(&r.SegmentID, &r.Original, &r.Edited, &r.EditTime, &r.Insertions, &r.Deletions); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
