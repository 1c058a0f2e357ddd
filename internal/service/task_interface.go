package service

import (
	"context"
	"taskAPI/internal/models/task"

	"github.com/google/uuid"
)

// TaskRepository — контракт хранилища со стороны сервиса.
// Конкретные реализации: postgres и inmemory.
type TaskRepository interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	List(ctx context.Context, f task.Filter, page, limit int) ([]*task.Task, error)
	Update(ctx context.Context, t *task.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}
