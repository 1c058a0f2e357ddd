package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"taskAPI/internal/config"
	"taskAPI/internal/handlers"
	"taskAPI/internal/logger"
	"taskAPI/internal/middleware"
	"taskAPI/internal/repository/task/inmemory"
	"taskAPI/internal/repository/task/postgres"
	"taskAPI/internal/service"
	"taskAPI/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	shutdowns []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	repo, err := a.buildRepository(ctx)
	if err != nil {
		return err
	}

	taskService := service.NewTaskService(repo)
	taskHandler := handlers.NewTaskHandler(taskService)

	monitor := worker.NewStoreMonitor(repo, nil, nil)
	go monitor.Start(ctx)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.routes(taskHandler),
	}

	return nil
}

func (a *App) buildRepository(ctx context.Context) (service.TaskRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConns:        int32(a.config.Database.MaxConnections),
			MinConns:        int32(a.config.Database.MinConnections),
			MaxConnIdleTime: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}

		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := storage.Migrate(a.config.Database.Migrations); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
		return storage, nil

	case "inmemory":
		return inmemory.NewTaskStorage(), nil

	default:
		return nil, fmt.Errorf("неизвестный тип репозитория: %q", a.config.Repository.Type)
	}
}

func (a *App) routes(taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(a.config.Server.RequestTimeout))
	r.Use(middleware.RateLimit(a.config.Server.RateLimitRPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}
		})
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run блокируется до отмены ctx, затем гасит сервер и выполняет shutdown-функции
func (a *App) Run(ctx context.Context) error {
	if err := a.init(ctx); err != nil {
		// init мог успеть открыть пул и логгер до ошибки
		a.shutdown()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("сервер: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Остановка сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	a.shutdown()
	return nil
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
