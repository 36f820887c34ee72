package repository

import (
	"context"

	model "task-manager.com/task-manager/internal/models"
)

// Persister reads and writes the whole task collection at once.
type Persister interface {
	Save(ctx context.Context, tasks []model.Task) error
	// Load returns an empty collection when nothing has been saved yet.
	Load(ctx context.Context) ([]model.Task, error)
}
