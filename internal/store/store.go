package store

import (
	"context"

	"todoapp/internal/models"
)

// Store defines the interface for data persistence operations.
type Store interface {
	// Task operations
	ListTasks(ctx context.Context, filter *models.TaskFilter) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id int64) error
	SetTaskCompletion(ctx context.Context, id int64, completed bool) error
	ReorderTasks(ctx context.Context, moves []models.TaskPosition) ([]models.Task, error)

	// Category operations
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Aggregates
	Stats(ctx context.Context) (*models.Stats, error)

	// Lifecycle
	Close() error
}
