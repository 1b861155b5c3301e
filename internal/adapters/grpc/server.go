package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/jsamuelsen/go-error-filters/internal/platform/config"
	"github.com/jsamuelsen/go-error-filters/internal/platform/telemetry"
)

// Server wraps grpc.Server with the error filter, tracing and the standard
// health service.
type Server struct {
	grpcServer *gogrpc.Server
	health     *health.Server
	config     config.GRPCConfig
	logger     *slog.Logger
	listener   net.Listener
}

// ServerOption customizes a Server.
type ServerOption func(*serverOptions)

type serverOptions struct {
	listener   net.Listener
	grpcOption []gogrpc.ServerOption
}

// WithListener serves on ln instead of listening on the configured address.
func WithListener(ln net.Listener) ServerOption {
	return func(o *serverOptions) {
		o.listener = ln
	}
}

// WithGRPCOptions appends raw grpc.ServerOptions.
func WithGRPCOptions(opts ...gogrpc.ServerOption) ServerOption {
	return func(o *serverOptions) {
		o.grpcOption = append(o.grpcOption, opts...)
	}
}

// NewServer creates a gRPC server whose handlers' RPC exceptions are turned
// into failed results by filter.
func NewServer(cfg config.GRPCConfig, filter *ErrorFilter, logger *slog.Logger, opts ...ServerOption) *Server {
	o := serverOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	grpcOpts := append([]gogrpc.ServerOption{
		gogrpc.StatsHandler(telemetry.GRPCServerHandler()),
		gogrpc.ChainUnaryInterceptor(UnaryServerErrorInterceptor(filter, logger)),
		gogrpc.ChainStreamInterceptor(StreamServerErrorInterceptor(filter, logger)),
	}, o.grpcOption...)

	grpcServer := gogrpc.NewServer(grpcOpts...)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		config:     cfg,
		logger:     logger,
		listener:   o.listener,
	}
}

// GRPCServer returns the underlying server for service registration.
// Register services before calling Start.
func (s *Server) GRPCServer() *gogrpc.Server {
	return s.grpcServer
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start begins serving RPCs without blocking.
// The returned channel receives a listen or serve error, if any, and is
// closed when the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)

		ln := s.listener
		if ln == nil {
			var err error

			ln, err = net.Listen("tcp", s.Addr())
			if err != nil {
				errCh <- fmt.Errorf("grpc listen: %w", err)
				return
			}
		}

		s.logger.Info("starting gRPC server",
			slog.String("addr", ln.Addr().String()),
			slog.Bool("reflection", s.config.Reflection),
		)

		if err := s.grpcServer.Serve(ln); err != nil {
			errCh <- fmt.Errorf("grpc server error: %w", err)
		}
	}()

	return errCh
}

// Shutdown marks the server not serving and stops it gracefully. If ctx ends
// first, in-flight RPCs are cancelled.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down gRPC server")

	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped")
		return nil
	case <-ctx.Done():
		s.grpcServer.Stop()
		return fmt.Errorf("grpc server shutdown: %w", ctx.Err())
	}
}
