package inmemory

import (
	"context"
	"sync"
	"taskAPI/internal/logger"
	"taskAPI/internal/models/task"
	repo "taskAPI/internal/repository"

	"github.com/google/uuid"
)

// TaskStorage — потокобезопасное хранилище в памяти.
// Срез ids хранит порядок создания: контракт списка требует
// отдавать задачи именно в этом порядке.
type TaskStorage struct {
	storage map[uuid.UUID]*task.Task
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[uuid.UUID]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

// clone отделяет хранимую копию от копии вызывающего:
// неудачная мутация в сервисе не должна менять хранилище
func clone(t *task.Task) *task.Task {
	c := *t
	return &c
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[taskToCreate.ID] = clone(taskToCreate)
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

// Update принимает задачу той версии, что была прочитана: несовпадение
// версий означает, что между чтением и записью прошла другая мутация
func (s *TaskStorage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[taskToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	if stored.Version != taskToUpdate.Version {
		return repo.ErrVersionConflict
	}

	taskToUpdate.Version++
	s.storage[taskToUpdate.ID] = clone(taskToUpdate)
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return clone(taskToGet), nil
}

// Delete удаляет задачу навсегда: повторное удаление того же id — ошибка
func (s *TaskStorage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

// List отдаёт задачи в порядке создания: сначала фильтр, потом пагинация.
// limit <= 0 означает "без ограничения".
func (s *TaskStorage) List(ctx context.Context, f task.Filter, page, limit int) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := []*task.Task{}
	for _, id := range s.ids {
		t := s.storage[id]
		if !f.Matches(t) {
			continue
		}
		matched = append(matched, clone(t))
	}

	if limit <= 0 {
		return matched, nil
	}

	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return []*task.Task{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}
