package login

import (
	"context"

	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// AuthService определяет вход пользователя.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}
