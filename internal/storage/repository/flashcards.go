package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// CountDecks возвращает число колод пользователя.
func (s *Storage) CountDecks(ctx context.Context, userUID string) (int, error) {
	const op = "storage.CountDecks"
	if err := ctxErr(ctx, op); err != nil {
		return 0, err
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcard_decks WHERE user_uid = $1`, userUID).
		Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateDeck сохраняет колоду вместе с начальными карточками cards.
// При limit > 0 проверка лимита и вставка сериализуются по пользователю,
// как в CreateSummary.
func (s *Storage) CreateDeck(ctx context.Context, deck *models.FlashcardDeck, cards []models.QA, limit int) (*models.FlashcardDeck, error) {
	const op = "storage.CreateDeck"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	if limit > 0 {
		if err = lockUser(ctx, tx, deck.UserUID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		var count int
		if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM flashcard_decks WHERE user_uid = $1`, deck.UserUID).
			Scan(&count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if count >= limit {
			return nil, fmt.Errorf("%s: %w", op, &apperr.LimitError{
				ResourceType: string(models.ResourceFlashcard),
				CurrentCount: count,
				Limit:        limit,
			})
		}
	}

	created := *deck
	created.Flashcards = []models.Flashcard{}
	query := `INSERT INTO flashcard_decks (user_uid, name, extracted_text)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at`
	if err = tx.QueryRowContext(ctx, query, deck.UserUID, deck.Name, deck.ExtractedText).
		Scan(&created.ID, &created.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i, qa := range cards {
		card, err := insertFlashcard(ctx, tx, created.ID, qa, i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		created.Flashcards = append(created.Flashcards, *card)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// AddFlashcard добавляет карточку в конец колоды, принадлежащей пользователю.
func (s *Storage) AddFlashcard(ctx context.Context, userUID, deckID string, qa models.QA) (*models.Flashcard, error) {
	const op = "storage.AddFlashcard"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rollback(tx)

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM flashcard_decks WHERE id = $1 AND user_uid = $2 FOR UPDATE`,
		deckID, userUID).Scan(&id)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDeckNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var position int
	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), 0) + 1 FROM flashcards WHERE deck_id = $1`, id).
		Scan(&position); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	card, err := insertFlashcard(ctx, tx, id, qa, position)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// ListDecks возвращает колоды пользователя с карточками в порядке position.
func (s *Storage) ListDecks(ctx context.Context, userUID string) ([]*models.FlashcardDeck, error) {
	const op = "storage.ListDecks"
	if err := ctxErr(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, user_uid, name, extracted_text, created_at
			  FROM flashcard_decks
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	decks := []*models.FlashcardDeck{}
	byID := make(map[string]*models.FlashcardDeck)
	for rows.Next() {
		d := &models.FlashcardDeck{Flashcards: []models.Flashcard{}}
		if err = rows.Scan(&d.ID, &d.UserUID, &d.Name, &d.ExtractedText, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		decks = append(decks, d)
		byID[d.ID] = d
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(decks) == 0 {
		return decks, nil
	}

	cardRows, err := s.DB.QueryContext(ctx, `SELECT f.id, f.deck_id, f.question, f.answer, f.position, f.created_at
			  FROM flashcards f
			  JOIN flashcard_decks d ON d.id = f.deck_id
			  WHERE d.user_uid = $1
			  ORDER BY f.deck_id, f.position`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = cardRows.Close()
	}()
	for cardRows.Next() {
		var c models.Flashcard
		if err = cardRows.Scan(&c.ID, &c.DeckID, &c.Question, &c.Answer, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if d, ok := byID[c.DeckID]; ok {
			d.Flashcards = append(d.Flashcards, c)
		}
	}
	if err = cardRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return decks, nil
}

// DeleteDeck удаляет колоду пользователя вместе с её карточками.
func (s *Storage) DeleteDeck(ctx context.Context, userUID, deckID string) error {
	const op = "storage.DeleteDeck"
	if err := ctxErr(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM flashcard_decks WHERE id = $1 AND user_uid = $2`, deckID, userUID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", op, models.ErrDeckNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return requireAffected(res, op, models.ErrDeckNotFound)
}

func insertFlashcard(ctx context.Context, tx *sql.Tx, deckID string, qa models.QA, position int) (*models.Flashcard, error) {
	card := models.Flashcard{
		DeckID:   deckID,
		Question: qa.Question,
		Answer:   qa.Answer,
		Position: position,
	}
	err := tx.QueryRowContext(ctx, `INSERT INTO flashcards (deck_id, question, answer, position)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`, deckID, qa.Question, qa.Answer, position).
		Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &card, nil
}
