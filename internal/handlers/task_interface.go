package handlers

import (
	"context"
	"taskAPI/internal/models/task"
	"taskAPI/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, title, description, status string) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	ListTasks(ctx context.Context, f task.Filter, page, limit int) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch service.TaskPatch) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}
