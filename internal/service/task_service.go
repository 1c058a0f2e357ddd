package service

import (
	"context"
	"errors"
	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	repo "taskAPI/internal/repository"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TaskService — единственный слой с бизнес-логикой: назначение id
// и временных меток, проверка переходов статуса, классификация
// ошибок хранилища. Между вызовами состояния не держит.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

// storeError переводит ошибку хранилища в бизнес-ошибку:
// ничего не глотаем и не ретраим, всё уходит вызывающему
func storeError(operation string, id string, err error) *BusinessError {
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFound(id)
	}
	logger.Error("Service: Ошибка хранилища", err, zap.String("operation", operation))
	return NewStoreUnavailable(operation, err)
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return NewStoreUnavailable("health_check", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, description, status string) (*task.Task, error) {
	in, vErr := validateCreate(title, description, status)
	if vErr != nil {
		logger.Warn("Service: Ошибка валидации", zap.String("error", vErr.Message))
		return nil, vErr
	}

	newTask, err := task.New(in.Title,
		task.WithDescription(in.Description),
		task.WithStatus(in.Status),
	)
	if err != nil {
		return nil, NewValidationError("title", err.Error())
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, storeError("create", newTask.ID.String(), err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", newTask.ID.String()))
	return newTask, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
		}
		return nil, storeError("get", id.String(), err)
	}
	return t, nil
}

// ListTasks отдаёт задачи в порядке создания; фильтрация — на стороне
// хранилища. limit <= 0 — без ограничения.
func (s *TaskService) ListTasks(ctx context.Context, f task.Filter, page, limit int) ([]*task.Task, error) {
	if page < 1 {
		page = 1
	}

	tasks, err := s.repo.List(ctx, f, page, limit)
	if err != nil {
		return nil, storeError("list", "", err)
	}
	return tasks, nil
}

// maxUpdateAttempts ограничивает повторы цикла чтение-запись
// при конфликте версий
const maxUpdateAttempts = 3

// UpdateTask применяет разреженный патч: получает задачу, валидирует,
// проверяет переход статуса и сохраняет всё-или-ничего. Запись условна
// по версии прочитанного снимка: проигравшая гонку мутация не
// затирает выигравшую, а перечитывает задачу и повторяет цикл
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch TaskPatch) (*task.Task, error) {
	norm, vErr := validateUpdate(patch)
	if vErr != nil {
		logger.Warn("Service: Ошибка валидации обновления",
			zap.String("task_id", id.String()),
			zap.String("error", vErr.Message))
		return nil, vErr
	}

	var lastErr error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			}
			return nil, storeError("update", id.String(), err)
		}

		if norm.Status != nil && !task.CanTransition(existing.Status, *norm.Status) {
			return nil, NewValidationError("status",
				"переход "+string(existing.Status)+" -> "+string(*norm.Status)+" запрещён")
		}

		if norm.Title != nil {
			existing.Title = *norm.Title
		}
		if norm.Description != nil {
			existing.Description = *norm.Description
		}
		if norm.Status != nil {
			existing.Status = *norm.Status
		}

		// updated_at строго растёт даже если часы не успели тикнуть
		// между двумя подряд принятыми мутациями
		now := time.Now().UTC()
		if !now.After(existing.UpdatedAt) {
			now = existing.UpdatedAt.Add(time.Microsecond)
		}
		existing.UpdatedAt = now

		err = s.repo.Update(ctx, existing)
		if err == nil {
			logger.Info("Service: Задача обновлена", zap.String("task_id", id.String()))
			return existing, nil
		}
		if !errors.Is(err, repo.ErrVersionConflict) {
			return nil, storeError("update", id.String(), err)
		}

		logger.Warn("Service: Конфликт версий, повтор обновления",
			zap.String("task_id", id.String()),
			zap.Int("attempt", attempt))
		lastErr = err
	}

	logger.Error("Service: Обновление не прошло из-за конкуренции", lastErr,
		zap.String("task_id", id.String()))
	return nil, NewStoreUnavailable("update", lastErr)
}

// DeleteTask — одноразовое событие: повторное удаление того же id
// завершается NOT_FOUND
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
		}
		return storeError("delete", id.String(), err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}
