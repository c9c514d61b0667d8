package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL
	"github.com/maynagashev/gophboard/server/internal/auth"
	"github.com/maynagashev/gophboard/server/internal/handlers"
	appmiddleware "github.com/maynagashev/gophboard/server/internal/middleware"
	"github.com/maynagashev/gophboard/server/internal/repository"
	"github.com/maynagashev/gophboard/server/internal/services"
	"github.com/maynagashev/gophboard/server/internal/storage"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Точки подмены для тестов.
var (
	newPostgresDB  = repository.NewPostgresDB
	migrate        = repository.Migrate
	newFileStorage = func(ctx context.Context, cfg storage.MinioConfig) (storage.FileStorage, error) {
		return storage.NewMinioClient(ctx, cfg)
	}
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db             *sqlx.DB
	gate           *auth.Gate
	authHandler    *handlers.AuthHandler
	messageHandler *handlers.MessageHandler
	archiveHandler *handlers.ArchiveHandler // nil, если объектное хранилище не настроено
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Ошибка конфигурации", "error", err)
		os.Exit(2) //nolint:mnd // код ошибки использования
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg); err != nil {
		slog.Error("Ошибка выполнения сервера", "error", err)
		stop()
		os.Exit(1)
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
// Сервер работает до отмены ctx.
func run(ctx context.Context, cfg *config) error {
	slog.Info("Запуск сервера GophBoard...")

	deps, err := setupDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer func() {
		if closeErr := deps.db.Close(); closeErr != nil {
			slog.Error("Ошибка закрытия соединения с БД", "error", closeErr)
		}
	}()

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      setupRouter(deps, cfg.RequestTimeout),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if cfg.TLSEnabled() {
			slog.Info("Запуск HTTPS-сервера", "addr", cfg.Address, "cert", cfg.CertFile)
			serveErr <- server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
			return
		}
		slog.Info("Запуск HTTP-сервера", "addr", cfg.Address)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Получен сигнал завершения, останавливаем сервер...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	slog.Info("Сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config) (*dependencies, error) {
	codec, err := auth.NewCodec(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
		Leeway: cfg.TokenLeeway,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации токенов: %w", err)
	}

	// 1. Подключение к БД и миграции
	db, err := newPostgresDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	if err = migrate(ctx, db.DB); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	// 2. Репозитории и сервисы
	memberRepo := repository.NewPostgresMemberRepository(db)
	messageRepo := repository.NewPostgresMessageRepository(db)

	deps := &dependencies{
		db:             db,
		gate:           auth.NewGate(codec, memberRepo),
		authHandler:    handlers.NewAuthHandler(services.NewAuthService(memberRepo, codec)),
		messageHandler: handlers.NewMessageHandler(services.NewMessageService(messageRepo)),
	}

	// 3. Объектное хранилище для архивов (необязательно)
	if !cfg.ArchivesEnabled() {
		slog.Info("MINIO_ENDPOINT не задан, архивы доски отключены")
		return deps, nil
	}
	files, err := newFileStorage(ctx, storage.MinioConfig{
		Endpoint:        cfg.MinioEndpoint,
		AccessKeyID:     cfg.MinioUser,
		SecretAccessKey: cfg.MinioPassword,
		UseSSL:          cfg.MinioUseSSL,
		BucketName:      cfg.MinioBucket,
	})
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", err)
	}
	archiveRepo := repository.NewPostgresArchiveRepository(db)
	deps.archiveHandler = handlers.NewArchiveHandler(services.NewArchiveService(messageRepo, archiveRepo, files))

	return deps, nil
}

func closeDB(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		slog.Error("Ошибка закрытия соединения с БД", "error", err)
	}
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(deps *dependencies, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(requestTimeout))

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})

	r.Route("/api", func(r chi.Router) {
		// Публичные маршруты
		r.Post("/register", deps.authHandler.Register)
		r.Post("/login", deps.authHandler.Login)
		r.With(appmiddleware.OptionalAuthenticator(deps.gate)).Get("/hello", handlers.Hello)

		// Приватные маршруты (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Authenticator(deps.gate))

			r.Get("/profile", deps.authHandler.Profile)
			r.Get("/messages", deps.messageHandler.List)
			r.Post("/messages", deps.messageHandler.Create)

			if deps.archiveHandler != nil {
				r.Route("/archives", func(r chi.Router) {
					r.Post("/", deps.archiveHandler.Create)
					r.Get("/", deps.archiveHandler.List)
					r.Get("/{id}/download", deps.archiveHandler.Download)
				})
			}
		})
	})
	return r
}
