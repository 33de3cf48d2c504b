package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"todo-desktop/internal/models"
)

const memoryPath = ":memory:"

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given database path.
// The schema is created or upgraded on every call.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	}

	if dbPath == memoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		// No idle connections: each operation opens the file, runs its
		// statement and closes the connection again.
		db.SetMaxIdleConns(0)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListTasks returns every task, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, completed, created_at
		FROM todos ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, &PersistenceError{Op: "list tasks", Err: err}
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed, &task.CreatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan task", Err: err}
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list tasks", Err: err}
	}

	return tasks, nil
}

// CreateTask inserts a new, not yet completed task and returns its id.
func (s *SQLiteStore) CreateTask(ctx context.Context, title string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, completed, created_at) VALUES (?, ?, ?)
	`, title, false, time.Now().UTC())
	if err != nil {
		return 0, &PersistenceError{Op: "create task", Err: err}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, &PersistenceError{Op: "create task", Err: fmt.Errorf("failed to get last insert id: %w", err)}
	}

	return id, nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task := &models.Task{}

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, completed, created_at
		FROM todos WHERE id = ?
	`, id).Scan(&task.ID, &task.Title, &task.Completed, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
		}
		return nil, &PersistenceError{Op: "get task", Err: err}
	}

	return task, nil
}

// SetTaskCompleted sets the completion flag of a task.
func (s *SQLiteStore) SetTaskCompleted(ctx context.Context, id int64, completed bool) error {
	_, err := s.db.ExecContext(ctx, `UPDATE todos SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return &PersistenceError{Op: "update task", Err: err}
	}
	return nil
}

// DeleteTask deletes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return &PersistenceError{Op: "delete task", Err: err}
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
