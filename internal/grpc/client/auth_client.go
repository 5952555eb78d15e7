// Package client содержит gRPC-клиент сервиса авторизации, которым HTTP API
// проверяет токены, когда задан адрес внешнего сервиса.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/magabrotheeeer/study-assistant/internal/grpc/authpb"
	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
)

// AuthClient вызывает удалённый сервис авторизации.
type AuthClient struct {
	conn *grpc.ClientConn
}

// NewAuthClient создаёт клиент для сервиса по адресу addr.
func NewAuthClient(addr string, opts ...grpc.DialOption) (*AuthClient, error) {
	const op = "client.NewAuthClient"
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthClient{conn: conn}, nil
}

// Close закрывает соединение.
func (a *AuthClient) Close() error {
	return a.conn.Close()
}

// ValidateToken проверяет токен и возвращает UID и email пользователя.
func (a *AuthClient) ValidateToken(ctx context.Context, token string) (string, string, error) {
	const op = "client.ValidateToken"
	out := new(structpb.Struct)
	if err := a.conn.Invoke(ctx, authpb.ValidateTokenMethod, wrapperspb.String(token), out); err != nil {
		switch status.Code(err) {
		case codes.Unauthenticated, codes.InvalidArgument:
			return "", "", fmt.Errorf("%s: %w", op, apperr.Wrap(err, apperr.KindUnauthorized, "Invalid or expired token"))
		default:
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
	}

	fields := out.GetFields()
	if !fields[authpb.FieldValid].GetBoolValue() {
		return "", "", fmt.Errorf("%s: %w", op, apperr.New(apperr.KindUnauthorized, "Invalid or expired token"))
	}
	return fields[authpb.FieldUserUID].GetStringValue(), fields[authpb.FieldEmail].GetStringValue(), nil
}
