// Package health поднимает gRPC-сервер со стандартным health-сервисом.
// Статус SERVING выставляется по результату проверки БД.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName: имя, под которым публикуется статус приложения.
const ServiceName = "campaign.v1.Admin"

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	db         Pinger
	log        *zap.Logger
}

func NewServer(db Pinger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		db:         db,
		log:        log.Named("health"),
	}
}

// Ping проверяет БД и обновляет статус общего ("") и именованного сервиса.
// Через него же отвечает HTTP /healthz, так что оба протокола видят одно состояние.
func (s *Server) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	err := s.db.Ping(ctx)
	if err != nil {
		s.log.Warn("database ping failed", zap.Error(err))
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return err
}

// Check возвращает статус после свежей проверки БД.
func (s *Server) Check(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	if err := s.Ping(ctx); err != nil {
		return grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

// Serve обслуживает lis до отмены ctx, затем останавливается мягко.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.Check(ctx)

	s.log.Info("gRPC health server listening", zap.String("addr", lis.Addr().String()))
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}
