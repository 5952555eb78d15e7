// Package auth содержит логику регистрации, входа, смены пароля и удаления
// аккаунта, а также проверку JWT токенов сессии.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/study-assistant/internal/lib/password"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePassword заменяет хэш пароля.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
	// DeleteUser удаляет пользователя вместе с его материалами.
	DeleteUser(ctx context.Context, userUID string) error
}

// ExpiryChecker деактивирует истёкшую подписку пользователя.
type ExpiryChecker interface {
	ExpiryCheck(ctx context.Context, user *models.User) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	expiry   ExpiryChecker
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, expiry ExpiryChecker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		expiry:   expiry,
	}
}

// Register создает пользователя на бесплатном тарифе и возвращает его UID.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Register"
	if err := password.Validate(rawPassword); err != nil {
		return "", fmt.Errorf("%s: %w", op, apperr.Wrap(err, apperr.KindValidation, err.Error()))
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	uid, err := s.users.RegisterUser(ctx, *models.NewUser(email, hashed))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль, применяет проверку истечения подписки и выпускает токен.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, models.ErrUnknownEmail)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPassword)
	}

	if s.expiry != nil {
		user, err = s.expiry.ExpiryCheck(ctx, user)
		if err != nil {
			return "", nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// ChangePassword заменяет пароль после проверки текущего.
func (s *Service) ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error {
	const op = "auth.ChangePassword"
	if err := password.Validate(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, apperr.Wrap(err, apperr.KindValidation, err.Error()))
	}
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrIncorrectCurrentPassword)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userUID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteAccount удаляет пользователя после подтверждения паролем.
func (s *Service) DeleteAccount(ctx context.Context, userUID, rawPassword string) error {
	const op = "auth.DeleteAccount"
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return fmt.Errorf("%s: %w", op, models.ErrIncorrectPassword)
	}
	if err := s.users.DeleteUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает UID и email владельца.
func (s *Service) ValidateToken(_ context.Context, token string) (string, string, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, apperr.Wrap(err, apperr.KindUnauthorized, "Invalid or expired token"))
	}
	return claims.UserUID, claims.Email, nil
}
