package register

import "context"

// AuthService определяет регистрацию пользователя.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
}
