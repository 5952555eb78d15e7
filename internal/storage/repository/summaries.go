package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// CountSummaries возвращает число конспектов пользователя.
func (s *Storage) CountSummaries(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountSummaries"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM summaries WHERE user_uid = $1`, userUID).
		Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateSummary сохраняет конспект. При limit > 0 подсчёт и вставка
// выполняются в одной транзакции под advisory-блокировкой пользователя;
// при достигнутом лимите возвращается *apperr.LimitError.
func (s *Storage) CreateSummary(ctx context.Context, summary *models.Summary, limit int) (*models.Summary, error) {
	const op = "storage.CreateSummary"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	if limit > 0 {
		if err = lockUser(ctx, tx, summary.UserUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var count int
		if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM summaries WHERE user_uid = $1`, summary.UserUID).
			Scan(&count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if count >= limit {
			return nil, fmt.Errorf("%s: %w", op, &apperr.LimitError{
				ResourceType: string(models.ResourceSummary),
				CurrentCount: count,
				Limit:        limit,
			})
		}
	}

	created := *summary
	query := `INSERT INTO summaries (user_uid, title, extracted_text, summary)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at, updated_at`
	if err = tx.QueryRowContext(ctx, query, summary.UserUID, summary.Title, summary.ExtractedText, summary.Summary).
		Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// ListSummaries возвращает конспекты пользователя, новые первыми.
func (s *Storage) ListSummaries(ctx context.Context, userUID string) ([]*models.Summary, error) {
	const op = "storage.ListSummaries"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_uid, title, extracted_text, summary, created_at, updated_at
			  FROM summaries
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.Summary{}
	for rows.Next() {
		sm, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sm)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetSummary возвращает конспект по id, если он принадлежит пользователю.
func (s *Storage) GetSummary(ctx context.Context, userUID, id string) (*models.Summary, error) {
	const op = "storage.GetSummary"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_uid, title, extracted_text, summary, created_at, updated_at
			  FROM summaries
			  WHERE id = $1 AND user_uid = $2`
	sm, err := scanSummary(s.DB.QueryRowContext(ctx, query, id, userUID))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSummaryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sm, nil
}

// UpdateSummary заменяет текст конспекта и возвращает обновлённую запись.
func (s *Storage) UpdateSummary(ctx context.Context, userUID, id, text string) (*models.Summary, error) {
	const op = "storage.UpdateSummary"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE summaries
			  SET summary = $1, updated_at = NOW()
			  WHERE id = $2 AND user_uid = $3
			  RETURNING id, user_uid, title, extracted_text, summary, created_at, updated_at`
	sm, err := scanSummary(s.DB.QueryRowContext(ctx, query, text, id, userUID))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSummaryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sm, nil
}

// DeleteSummary удаляет конспект пользователя.
func (s *Storage) DeleteSummary(ctx context.Context, userUID, id string) error {
	const op = "storage.DeleteSummary"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM summaries WHERE id = $1 AND user_uid = $2`, id, userUID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrSummaryNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op, models.ErrSummaryNotFound)
}

func scanSummary(row rowScanner) (*models.Summary, error) {
	var sm models.Summary
	if err := row.Scan(&sm.ID, &sm.UserUID, &sm.Title, &sm.ExtractedText, &sm.Summary,
		&sm.CreatedAt, &sm.UpdatedAt); err != nil {
		return nil, err
	}
	return &sm, nil
}

