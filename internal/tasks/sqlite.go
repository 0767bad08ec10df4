package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/foxlist/internal/models"
	"github.com/dmitrijs2005/foxlist/internal/tasks/migrations"
)

// timeFormat is the canonical stored timestamp format. The fractional
// part is fixed-width (RFC3339Nano would trim trailing zeros), so the
// strings sort lexicographically and created_at ordering works at the
// SQL level.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// legacyTimeFormats are accepted when reading rows written by earlier
// releases (CURRENT_TIMESTAMP defaults and variable-precision ISO).
var legacyTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeFormat, s); err == nil {
		return t, nil
	}
	for _, f := range legacyTimeFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unreadable stored timestamp %q", s)
}

// SQLiteStore implements Store on an embedded SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore returns a SQLiteStore bound to db. Call Init before
// any other operation.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Init runs the embedded schema migrations: table creation and the
// probe-and-add owner-column step. goose tracks applied versions, so
// repeated calls are no-ops.
func (s *SQLiteStore) Init(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("running task migrations: %w", err)
	}
	return nil
}

const taskColumns = `id, title, description, status, time, completed, user_email, created_at, updated_at`

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, converting the stored integer completed
// flag to bool and the nullable owner column to a pointer.
func scanTask(sc scanner) (*models.Task, error) {
	var (
		t                  models.Task
		completed          int
		owner              sql.NullString
		createdAt, updated string
	)
	if err := sc.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Deadline,
		&completed, &owner, &createdAt, &updated); err != nil {
		return nil, err
	}

	t.Completed = completed != 0
	if owner.Valid {
		t.OwnerEmail = &owner.String
	}

	var err error
	if t.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseStoredTime(updated); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()

	var result []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SQLiteStore) Create(ctx context.Context, p CreateParams) (*models.Task, error) {
	now := s.now().UTC()
	ts := now.Format(timeFormat)

	var owner any
	if p.OwnerEmail != nil {
		owner = *p.OwnerEmail
	}

	query := `INSERT INTO tasks (title, description, status, time, completed, user_email, created_at, updated_at)
			  VALUES (?, ?, ?, ?, 0, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Priority, normalizeDeadline(p.Deadline), owner, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return &models.Task{
		ID:          id,
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Deadline:    normalizeDeadline(p.Deadline),
		Completed:   false,
		OwnerEmail:  p.OwnerEmail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context, owner string) ([]models.Task, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if owner == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+taskColumns+` FROM tasks WHERE user_email = ? OR user_email IS NULL ORDER BY created_at DESC`,
			owner)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return t, nil
}

// Update rewrites the mutable columns wholesale. Zero rows affected
// (missing id) is not surfaced as an error.
func (s *SQLiteStore) Update(ctx context.Context, id int64, p UpdateParams) error {
	query := `UPDATE tasks
			  SET title = ?, description = ?, status = ?, time = ?, completed = ?, updated_at = ?
			  WHERE id = ?`

	_, err := s.db.ExecContext(ctx, query,
		p.Title, p.Description, p.Priority, normalizeDeadline(p.Deadline),
		boolToInt(p.Completed), s.now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ToggleCompletion(ctx context.Context, id int64, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET completed = ?, updated_at = ? WHERE id = ?`,
		boolToInt(completed), s.now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteByOwner(ctx context.Context, owner string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_email = ? OR user_email IS NULL`, owner)
	if err != nil {
		return fmt.Errorf("failed to delete tasks by owner: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ReconcileOrphans(ctx context.Context, owner string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET user_email = ? WHERE user_email IS NULL`, owner)
	if err != nil {
		return fmt.Errorf("failed to reconcile orphan tasks: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Search(ctx context.Context, text string) ([]models.Task, error) {
	pattern := "%" + text + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE title LIKE ? OR description LIKE ? ORDER BY created_at DESC`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}
	return collectTasks(rows)
}

func (s *SQLiteStore) GetByCompletion(ctx context.Context, completed bool) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE completed = ? ORDER BY created_at DESC`,
		boolToInt(completed))
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks by completion: %w", err)
	}
	return collectTasks(rows)
}

func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks`)
	if err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
