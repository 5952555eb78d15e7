// Package server реализует gRPC-сервер для авторизационного сервиса.
//
// AuthServer проверяет JWT токены по запросу HTTP API, логирует операции
// и делегирует проверку TokenValidator.
package server

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/magabrotheeeer/study-assistant/internal/grpc/authpb"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

// TokenValidator проверяет токен и возвращает UID и email пользователя.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, string, error)
}

// AuthServer реализует gRPC-сервис авторизации
type AuthServer struct {
	validator TokenValidator
	log       *slog.Logger
}

// NewAuthServer создает новый экземпляр AuthServer.
func NewAuthServer(validator TokenValidator, logger *slog.Logger) *AuthServer {
	return &AuthServer{
		validator: validator,
		log:       logger,
	}
}

// ValidateToken проверяет валидность JWT и возвращает данные пользователя
func (s *AuthServer) ValidateToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}

	userUID, email, err := s.validator.ValidateToken(ctx, req.GetValue())
	if err != nil {
		s.log.Warn("invalid token", sl.Err(err))
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	resp, err := structpb.NewStruct(map[string]any{
		authpb.FieldUserUID: userUID,
		authpb.FieldEmail:   email,
		authpb.FieldValid:   true,
	})
	if err != nil {
		s.log.Error("failed to build response", sl.Err(err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return resp, nil
}
