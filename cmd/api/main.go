package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaekwang-park/tasktrack/internal/config"
	todohttp "github.com/jaekwang-park/tasktrack/internal/http"
	"github.com/jaekwang-park/tasktrack/internal/repository"
	"github.com/jaekwang-park/tasktrack/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"storage", cfg.StorageDriver,
		"api_prefix", cfg.APIPrefix,
		"log_level", cfg.LogLevel,
	)

	todoRepo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Services
	todoSvc := service.NewTodoService(todoRepo)

	// HTTP Server
	srv := todohttp.NewServer(cfg.ServerPort, logger, todoSvc, cfg.APIPrefix)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}

// openStore builds the repository for the configured driver. The returned
// close func releases the connection pool, if any.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.TodoRepository, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Warn("using in-memory storage: data is lost on restart")
		return repository.NewMemoryTodo(), func() {}, nil
	}

	db, err := repository.NewDB(cfg.StorageDriver, cfg.DB.DSN(cfg.StorageDriver), cfg.DB.MaxOpenConns)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected", "driver", cfg.StorageDriver, "host", cfg.DB.Host)

	todoRepo := repository.NewPostgresTodo(db)
	if cfg.StorageDriver == config.DriverMySQL {
		todoRepo = repository.NewMySQLTodo(db)
	}

	if err := todoRepo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	return todoRepo, func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}, nil
}
