package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"orgBoard/internal/blob"
	"orgBoard/internal/config"
	"orgBoard/internal/handlers"
	"orgBoard/internal/logger"
	"orgBoard/internal/middleware"
	"orgBoard/internal/repository/inmemory"
	"orgBoard/internal/repository/postgres"
	"orgBoard/internal/service"
	"orgBoard/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	sweeper   *worker.StorageSweeper
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	var (
		taskRepo       service.TaskRepository
		commentRepo    service.CommentRepository
		attachmentRepo service.AttachmentRepository
		directoryRepo  service.DirectoryRepository
	)

	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			logger.Info("Закрытие пула соединений...")
			storage.Close()
		})
		taskRepo, commentRepo, attachmentRepo, directoryRepo = storage, storage, storage, storage
	case "inmemory", "":
		taskRepo = inmemory.NewTaskStorage()
		commentRepo = inmemory.NewCommentStorage()
		attachmentRepo = inmemory.NewAttachmentStorage()
		directoryRepo = inmemory.NewDirectoryStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}

	var blobs blob.Store
	if a.config.Storage.Root != "" {
		fsStore, err := blob.NewFSStore(a.config.Storage.Root)
		if err != nil {
			return fmt.Errorf("файловое хранилище вложений: %w", err)
		}
		blobs = fsStore
	} else {
		logger.Warn("App: Каталог вложений не задан, используется хранилище в памяти")
		blobs = blob.NewMemoryStore()
	}

	taskService := service.NewTaskService(taskRepo, directoryRepo)
	memberService := service.NewMemberService(directoryRepo)
	commentService := service.NewCommentService(commentRepo, taskRepo)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, blobs)

	taskHandler := handlers.NewTaskHandler(&taskService)
	memberHandler := handlers.NewMemberHandler(&memberService)
	commentHandler := handlers.NewCommentHandler(&commentService)
	attachmentHandler := handlers.NewAttachmentHandler(&attachmentService)

	a.router = buildRouter(a.config, taskHandler, memberHandler, commentHandler, attachmentHandler)

	var sweepInterval *time.Duration
	if a.config.Storage.SweepInterval > 0 {
		sweepInterval = &a.config.Storage.SweepInterval
	}
	a.sweeper = worker.NewStorageSweeper(attachmentRepo, blobs, sweepInterval)

	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

// Run блокируется до остановки сервера. Фоновая сверка вложений живёт
// на том же контексте, что и сервер.
func (a *App) Run(ctx context.Context) error {
	go a.sweeper.Start(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			logger.Error("App: Ошибка при остановке сервера", err)
		}
	}()

	logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown() {
	// в обратном порядке: сначала то, что поднималось последним
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}

func buildRouter(cfg *config.Config,
	taskHandler *handlers.TaskHandler,
	memberHandler *handlers.MemberHandler,
	commentHandler *handlers.CommentHandler,
	attachmentHandler *handlers.AttachmentHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Identity)
	r.Use(middleware.RateLimit(300))

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Person-ID", "X-Request-ID"},
			AllowCredentials: true,
		}))
	}

	r.Route("/organisations/{orgID}", func(r chi.Router) {
		r.Get("/tasks", taskHandler.ListTasks)   // GET /organisations/{orgID}/tasks
		r.Post("/tasks", taskHandler.CreateTask) // POST /organisations/{orgID}/tasks
		r.Get("/members", memberHandler.ListMembers)
	})

	r.Route("/tasks/{id}", func(r chi.Router) {
		r.Get("/", taskHandler.GetTask)    // GET /tasks/{id}
		r.Put("/", taskHandler.UpdateTask) // PUT /tasks/{id}

		r.Post("/transition", taskHandler.Transition) // POST /tasks/{id}/transition
		r.Post("/assign", taskHandler.Assign)         // POST /tasks/{id}/assign
		r.Get("/audit", taskHandler.ListAudit)        // GET /tasks/{id}/audit

		r.Get("/comments", commentHandler.ListComments)
		r.Post("/comments", commentHandler.AddComment)

		r.Get("/attachments", attachmentHandler.List)
		r.Post("/attachments", attachmentHandler.Upload)
	})

	r.Route("/attachments/{id}", func(r chi.Router) {
		r.Get("/", attachmentHandler.Download)  // GET /attachments/{id}
		r.Delete("/", attachmentHandler.Delete) // DELETE /attachments/{id}
	})

	r.Get("/health", taskHandler.Health)

	return r
}
