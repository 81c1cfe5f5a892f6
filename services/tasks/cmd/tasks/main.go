package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/h30s/taskmanager/services/tasks/internal/config"
	grpcserver "github.com/h30s/taskmanager/services/tasks/internal/grpc"
	handlers "github.com/h30s/taskmanager/services/tasks/internal/http"
	"github.com/h30s/taskmanager/services/tasks/internal/repository"
	"github.com/h30s/taskmanager/services/tasks/internal/service"
	"github.com/h30s/taskmanager/shared/logger"
)

// Интервал проверки хранилища для gRPC health
const healthInterval = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("tasks", os.Getenv("LOG_LEVEL"), nil).WithError(err).Fatal("failed to load config")
	}
	logrusLogger := logger.Init("tasks", cfg.LogLevel, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализация репозитория
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		logrusLogger.WithError(err).WithField("driver", cfg.DB.Driver).Fatal("failed to connect to database")
	}
	defer repo.Close()
	logrusLogger.WithField("driver", cfg.DB.Driver).Info("storage connected")

	taskService := service.NewTaskService(repo)
	taskHandler := handlers.NewTaskHandler(taskService, logrusLogger)
	handler := handlers.NewHandler(taskHandler, cfg.RequestTimeout, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logrusLogger.WithField("port", cfg.TasksPort).Info("tasks service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCPort != "" {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logrusLogger.WithError(err).Fatal("failed to listen")
		}

		checker := grpcserver.NewHealthChecker(taskService, logrusLogger, healthInterval, handlers.ReadyTimeout)
		grpcSrv = grpcserver.NewServer(checker, logrusLogger)

		go checker.Run(ctx)
		go func() {
			logrusLogger.WithField("port", cfg.GRPCPort).Info("gRPC health server starting")
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logrusLogger.Info("shutting down tasks service...")
	case err := <-errCh:
		logrusLogger.WithError(err).Error("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if grpcSrv != nil && grpcserver.Shutdown(shutdownCtx, grpcSrv) {
		logrusLogger.Warn("gRPC server stopped forcibly after shutdown timeout")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrusLogger.WithError(err).Error("graceful shutdown failed")
	}
	logrusLogger.Info("tasks service stopped")
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.TaskRepository, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	switch cfg.DB.Driver {
	case config.DriverMongo:
		return repository.NewMongoTaskRepository(connectCtx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	case config.DriverPostgres:
		return repository.NewPostgresTaskRepository(connectCtx, cfg.DB.DSN())
	case config.DriverRedis:
		return repository.NewRedisTaskRepository(connectCtx, cfg.Redis.URL, cfg.Redis.Prefix)
	case config.DriverMemory:
		logger.Logger.Warn("using in-memory storage: data is lost on restart")
		return repository.NewMemoryTaskRepository(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DB.Driver)
	}
}
