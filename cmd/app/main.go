package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/config"
	"github.com/BuzzLyutic/task-tracker-api/internal/handler"
	"github.com/BuzzLyutic/task-tracker-api/internal/logger"
	"github.com/BuzzLyutic/task-tracker-api/internal/metrics"
	"github.com/BuzzLyutic/task-tracker-api/internal/migrations"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err) // логгера еще нет
	}

	// Подключаем логгер
	zl := logger.New(cfg.Log)
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Подключаем хранилище
	taskRepo, closeStore, err := openStore(ctx, cfg.Database, zl)
	if err != nil {
		zl.Fatal("Failed to open task store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer closeStore()

	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService, zl)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	srv := http.Server{ // Создаем сервер
		Addr:         cfg.Server.Addr(),
		Handler:      handler.NewRouter(taskHandler, zl, cfg.CORS, cfg.Metrics, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { // Запуск сервера и обработка ошибок
		zl.Info("Server started", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		zl.Error("Server failed", zap.Error(err))
	}

	zl.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("Shutdown error", zap.Error(err))
		return
	}
	zl.Info("Server stopped successfully!")
}

// openStore выбирает реализацию хранилища по database.driver
func openStore(ctx context.Context, cfg config.DatabaseConfig, zl *zap.Logger) (repo.TaskRepository, func(), error) {
	if cfg.Driver == "memory" {
		zl.Warn("Using in-memory task store, data is lost on restart")
		return repo.NewMemoryTaskRepo(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg) // Создаем новое соединение к БД
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil { // Пытаемся пингануть БД
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	zl.Info("Successfully connected to the Database!")

	if cfg.Migrate {
		if err := migrations.Up(ctx, pool, zl); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	if cfg.Driver == "gorm" {
		gormRepo, err := repo.NewGormTaskRepo(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return gormRepo, pool.Close, nil
	}
	return repo.NewTaskRepo(pool), pool.Close, nil
}
