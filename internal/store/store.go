package store

import (
	"context"
	"errors"
	"fmt"

	"todo-desktop/internal/models"
)

// ErrTaskNotFound is returned by GetTask when no task has the given id.
var ErrTaskNotFound = errors.New("task not found")

// PersistenceError wraps a failure of the underlying storage engine.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Store defines the interface for task persistence.
//
// SetTaskCompleted and DeleteTask succeed silently when the id does not
// exist; callers that need confirmation should use GetTask.
type Store interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title string) (int64, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	SetTaskCompleted(ctx context.Context, id int64, completed bool) error
	DeleteTask(ctx context.Context, id int64) error

	// Lifecycle
	Close() error
}
