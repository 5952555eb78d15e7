// Package authpb описывает gRPC-сервис проверки токенов. Сообщения
// передаются стандартными типами protobuf: токен в StringValue, данные
// пользователя в Struct.
package authpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Имена сервиса и методов.
const (
	ServiceName         = "auth.AuthService"
	ValidateTokenMethod = "/" + ServiceName + "/ValidateToken"
)

// Поля ответа ValidateToken.
const (
	FieldUserUID = "userId"
	FieldEmail   = "email"
	FieldValid   = "valid"
)

// AuthServiceServer серверная часть сервиса авторизации.
type AuthServiceServer interface {
	ValidateToken(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc дескриптор сервиса для grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ValidateToken",
			Handler:    validateTokenHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth.proto",
}

// RegisterAuthServiceServer регистрирует реализацию сервиса.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, srv AuthServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func validateTokenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServiceServer).ValidateToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ValidateTokenMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServiceServer).ValidateToken(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}
