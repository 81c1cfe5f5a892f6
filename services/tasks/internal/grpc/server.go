package grpc

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// ServiceName - имя сервиса в gRPC health
const ServiceName = "taskmanager.Tasks"

// Pinger - проверка доступности хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker периодически пингует хранилище и публикует статус через grpc_health_v1
type HealthChecker struct {
	health   *health.Server
	pinger   Pinger
	logger   *logrus.Logger
	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	serving bool
	checked bool
}

func NewHealthChecker(pinger Pinger, logger *logrus.Logger, interval, timeout time.Duration) *HealthChecker {
	hs := health.NewServer()
	// До первой проверки считаем сервис недоступным
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthChecker{
		health:   hs,
		pinger:   pinger,
		logger:   logger,
		interval: interval,
		timeout:  timeout,
	}
}

// Check выполняет одну проверку и обновляет статус
func (c *HealthChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.pinger.Ping(ctx)
	serving := err == nil

	c.mu.Lock()
	changed := !c.checked || c.serving != serving
	c.serving, c.checked = serving, true
	c.mu.Unlock()

	st := healthpb.HealthCheckResponse_SERVING
	if !serving {
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.health.SetServingStatus("", st)
	c.health.SetServingStatus(ServiceName, st)

	if changed {
		logEntry := c.logger.WithFields(logrus.Fields{
			"component": "grpc_health",
			"status":    st.String(),
		})
		if err != nil {
			logEntry.WithError(err).Warn("storage health changed")
		} else {
			logEntry.Info("storage health changed")
		}
	}
	return serving
}

// Run проверяет хранилище каждые interval до отмены ctx, затем переводит все сервисы в NOT_SERVING
func (c *HealthChecker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			c.health.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// NewServer создаёт gRPC сервер с health и reflection
func NewServer(checker *HealthChecker, logger *logrus.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor(logger)))
	healthpb.RegisterHealthServer(s, checker.health)
	reflection.Register(s)
	return s
}

// Shutdown ждёт завершения активных RPC до отмены ctx, затем обрывает их.
// Возвращает true, если пришлось остановить сервер принудительно.
func Shutdown(ctx context.Context, s *grpc.Server) bool {
	stopped := make(chan struct{})
	go func() {
		// Watch-стримы health держат GracefulStop сколько угодно
		s.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return false
	case <-ctx.Done():
		s.Stop()
		<-stopped
		return true
	}
}

func loggingInterceptor(logger *logrus.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		// Извлекаем request-id из входящих метаданных
		var requestID string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("x-request-id"); len(values) > 0 {
				requestID = values[0]
			}
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		logger.WithFields(logrus.Fields{
			"component":   "grpc_server",
			"request_id":  requestID,
			"method":      info.FullMethod,
			"code":        status.Code(err).String(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("rpc completed")
		return resp, err
	}
}
