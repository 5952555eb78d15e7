package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/models"
)

const userColumns = `uid, email, password_hash, is_paid_user, subscription_status,
			      subscription, subscription_end, payment_method, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var (
		end           sql.NullTime
		paymentMethod []byte
	)
	if err := row.Scan(&u.UUID, &u.Email, &u.PasswordHash, &u.IsPaidUser, &u.Status,
		&u.Plan, &end, &paymentMethod, &u.CreatedAt); err != nil {
		return nil, err
	}
	if end.Valid {
		t := end.Time
		u.End = &t
	}
	if len(paymentMethod) > 0 {
		var pm models.PaymentMethod
		if err := json.Unmarshal(paymentMethod, &pm); err != nil {
			return nil, err
		}
		u.PaymentMethod = &pm
	}
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]*models.User, error) {
	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func paymentMethodValue(pm *models.PaymentMethod) (any, error) {
	if pm == nil {
		return nil, nil
	}
	b, err := json.Marshal(pm)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// RegisterUser сохраняет нового пользователя и возвращает его UID.
// При занятом email возвращает models.ErrUserExists.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := ctxErr(ctx, op); err != nil {
		return "", err
	}

	var newID string
	query := `INSERT INTO users (email, password_hash, is_paid_user, subscription_status, subscription)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.IsPaidUser, string(user.Status), string(user.Plan)).Scan(&newID); err != nil {
		if pgCode(err) == pgUniqueViolation {
			return "", fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdatePassword заменяет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE uid = $2`, passwordHash, userUID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op, models.ErrUserNotFound)
}

// UpdateSubscription сохраняет состояние подписки пользователя целиком.
func (s *Storage) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	const op = "storage.UpdateSubscription"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	pm, err := paymentMethodValue(sub.PaymentMethod)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE users
			  SET is_paid_user = $1,
			      subscription_status = $2,
			      subscription = $3,
			      subscription_end = $4,
			      payment_method = $5
			  WHERE uid = $6`
	res, err := s.DB.ExecContext(ctx, query, sub.IsPaidUser, string(sub.Status), string(sub.Plan), sub.End, pm, userUID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op, models.ErrUserNotFound)
}

// DeleteUser удаляет пользователя; его конспекты и колоды удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteUser"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, userUID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op, models.ErrUserNotFound)
}

// ExpireSubscriptions переводит в inactive все отменённые и просроченные
// подписки с датой окончания раньше now. Возвращает затронутых пользователей.
func (s *Storage) ExpireSubscriptions(ctx context.Context, now time.Time) ([]*models.User, error) {
	const op = "storage.ExpireSubscriptions"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET is_paid_user = false,
			      subscription_status = 'inactive'
			  WHERE subscription_status IN ('cancelled', 'past-due')
			    AND subscription_end IS NOT NULL
			    AND subscription_end < $1
			  RETURNING ` + userColumns
	rows, err := s.DB.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	users, err := scanUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// FindSubscriptionsEndingBetween возвращает платных пользователей,
// чья подписка заканчивается в интервале [from, to).
func (s *Storage) FindSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.User, error) {
	const op = "storage.FindSubscriptionsEndingBetween"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE is_paid_user
			    AND subscription_end >= $1
			    AND subscription_end < $2`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	users, err := scanUsers(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func requireAffected(res sql.Result, op string, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	return nil
}
