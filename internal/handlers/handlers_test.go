package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"taskAPI/internal/handlers"
	"taskAPI/internal/handlers/dto"
	"taskAPI/internal/models/task"
	"taskAPI/internal/service"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTaskService мок сервисного слоя для тестов обработчиков
type MockTaskService struct {
	mock.Mock
}

var _ handlers.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, title, description, status string) (*task.Task, error) {
	args := m.Called(ctx, title, description, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, f task.Filter, page, limit int) ([]*task.Task, error) {
	args := m.Called(ctx, f, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, patch service.TaskPatch) (*task.Task, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// newTestRouter собирает роутер так же, как основное приложение
func newTestRouter(svc handlers.TaskService) http.Handler {
	h := handlers.NewTaskHandler(svc)

	r := chi.NewRouter()
	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.GetTasks)
		r.Post("/", h.PostTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetTaskByID)
			r.Put("/", h.UpdateTaskByID)
			r.Delete("/", h.DeleteTaskByID)
		})
	})
	r.Get("/health", h.HealthCheck)
	return r
}

func newTestTask(t *testing.T, title string) *task.Task {
	created, err := task.New(title)
	require.NoError(t, err)
	return created
}

func decodeError(t *testing.T, body *bytes.Buffer) map[string]any {
	var payload map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&payload))
	return payload
}

func TestPostTask(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	created := newTestTask(t, "Test Task")
	mockService.On("CreateTask", mock.Anything, "Test Task", "Test Description", "").
		Return(created, nil)

	body := `{"title":"Test Task","description":"Test Description"}`
	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response dto.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, created.ID, response.ID)
	assert.Equal(t, "Test Task", response.Title)
	assert.Equal(t, "pending", response.Status)

	mockService.AssertExpectations(t)
}

func TestPostTask_WrongContentType(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString(`{"title":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	mockService.AssertNotCalled(t, "CreateTask")
}

func TestPostTask_InvalidJSON(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "CreateTask")
}

func TestPostTask_ValidationError(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	mockService.On("CreateTask", mock.Anything, "", "", "").
		Return(nil, service.NewValidationError("title", "title не может быть пустым"))

	req := httptest.NewRequest(http.MethodPost, "/tasks/", bytes.NewBufferString(`{"title":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeError(t, rec.Body)
	assert.Equal(t, service.CodeValidation, payload["error"])
}

func TestGetTaskByID(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	created := newTestTask(t, "Test Task")
	mockService.On("GetTaskByID", mock.Anything, created.ID).Return(created, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/"+created.ID.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, created.ID, response.ID)
}

func TestGetTaskByID_NotFound(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	id := uuid.New()
	mockService.On("GetTaskByID", mock.Anything, id).Return(nil, service.NewNotFound(id.String()))

	req := httptest.NewRequest(http.MethodGet, "/tasks/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	payload := decodeError(t, rec.Body)
	assert.Equal(t, service.CodeNotFound, payload["error"])
}

func TestGetTaskByID_BadID(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/tasks/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetTaskByID")
}

func TestGetTasks(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	first := newTestTask(t, "First")
	second := newTestTask(t, "Second")
	mockService.On("ListTasks", mock.Anything, task.Filter{}, 1, 50).
		Return([]*task.Task{first, second}, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, 2)
	assert.Equal(t, first.ID, response[0].ID)
	assert.Equal(t, second.ID, response[1].ID)
}

func TestGetTasks_WithFilters(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	completed := task.StatusCompleted
	owner := "alice"
	expected := task.Filter{Status: &completed, Owner: &owner, Search: "milk"}
	mockService.On("ListTasks", mock.Anything, expected, 2, 10).
		Return([]*task.Task{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/tasks/?status=completed&owner=alice&search=milk&page=2&limit=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []dto.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Empty(t, response)

	mockService.AssertExpectations(t)
}

func TestGetTasks_InvalidStatus(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	req := httptest.NewRequest(http.MethodGet, "/tasks/?status=done", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "ListTasks")
}

func TestGetTasks_InvalidPage(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	for _, query := range []string{"?page=0", "?page=abc", "?limit=0", "?limit=xyz"} {
		req := httptest.NewRequest(http.MethodGet, "/tasks/"+query, nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %s", query)
	}
	mockService.AssertNotCalled(t, "ListTasks")
}

func TestUpdateTaskByID(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	updated := newTestTask(t, "Updated Title")
	title := "Updated Title"
	status := "in_progress"
	patch := service.TaskPatch{Title: &title, Status: &status}

	mockService.On("UpdateTask", mock.Anything, updated.ID, patch).Return(updated, nil)

	body := `{"title":"Updated Title","status":"in_progress"}`
	req := httptest.NewRequest(http.MethodPut, "/tasks/"+updated.ID.String(), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "Updated Title", response.Title)

	mockService.AssertExpectations(t)
}

func TestUpdateTaskByID_EmptyPatch(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	id := uuid.New()
	mockService.On("UpdateTask", mock.Anything, id, service.TaskPatch{}).
		Return(nil, service.NewEmptyPatch())

	req := httptest.NewRequest(http.MethodPut, "/tasks/"+id.String(), bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	payload := decodeError(t, rec.Body)
	assert.Equal(t, service.CodeEmptyPatch, payload["error"])
}

func TestUpdateTaskByID_NotFound(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	id := uuid.New()
	title := "New Title"
	mockService.On("UpdateTask", mock.Anything, id, service.TaskPatch{Title: &title}).
		Return(nil, service.NewNotFound(id.String()))

	req := httptest.NewRequest(http.MethodPut, "/tasks/"+id.String(), bytes.NewBufferString(`{"title":"New Title"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteTaskByID(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	id := uuid.New()
	mockService.On("DeleteTask", mock.Anything, id).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteTaskByID_NotFound(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	id := uuid.New()
	mockService.On("DeleteTask", mock.Anything, id).Return(service.NewNotFound(id.String()))

	req := httptest.NewRequest(http.MethodDelete, "/tasks/"+id.String(), nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	mockService.On("HealthCheck", mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestHealthCheck_StoreDown(t *testing.T) {
	mockService := new(MockTaskService)
	router := newTestRouter(mockService)

	mockService.On("HealthCheck", mock.Anything).
		Return(service.NewStoreUnavailable("health_check", errors.New("connection refused")))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
