// Package auth запускает gRPC-сервис проверки токенов.
package auth

import (
	"context"
	"log/slog"
	"net"

	"google.golang.org/grpc"

	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/grpc/authpb"
	"github.com/magabrotheeeer/study-assistant/internal/grpc/server"
	"github.com/magabrotheeeer/study-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/paymentprovider"
	"github.com/magabrotheeeer/study-assistant/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/study-assistant/internal/services/auth"
	"github.com/magabrotheeeer/study-assistant/internal/services/subscription"
	"github.com/magabrotheeeer/study-assistant/internal/storage/repository"
)

// App gRPC-сервер аутентификации.
type App struct {
	grpcServer *grpc.Server
	listener   net.Listener
	db         *repository.Storage
	logger     *slog.Logger
}

// New подключается к хранилищу и регистрирует AuthService.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	// Сервис только проверяет токены, поэтому кэш и брокер не нужны.
	expiry := subscription.New(logger, db, nil, paymentprovider.NewMockProvider(), rabbitmq.NopPublisher{}, 0)
	authService := authservice.New(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), expiry)

	lis, err := net.Listen("tcp", cfg.GRPCAuthAddress)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer()
	authpb.RegisterAuthServiceServer(grpcServer, server.NewAuthServer(authService, logger))

	return &App{
		grpcServer: grpcServer,
		listener:   lis,
		db:         db,
		logger:     logger,
	}, nil
}

// Run обслуживает gRPC-запросы до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("gRPC server starting on", slog.String("address", a.listener.Addr().String()))
		errCh <- a.grpcServer.Serve(a.listener)
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		a.logger.Info("shutting down gRPC server gracefully")
		a.grpcServer.GracefulStop()
	}

	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close storage", sl.Err(cerr))
	}
	return err
}
