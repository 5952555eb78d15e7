// Package content управляет конспектами и колодами карточек пользователя
// и обращается к генератору за их содержимым.
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Repository определяет методы хранилища конспектов и карточек.
type Repository interface {
	CreateSummary(ctx context.Context, summary *models.Summary, limit int) (*models.Summary, error)
	ListSummaries(ctx context.Context, userUID string) ([]*models.Summary, error)
	GetSummary(ctx context.Context, userUID, id string) (*models.Summary, error)
	UpdateSummary(ctx context.Context, userUID, id, text string) (*models.Summary, error)
	DeleteSummary(ctx context.Context, userUID, id string) error

	CreateDeck(ctx context.Context, deck *models.FlashcardDeck, cards []models.QA, limit int) (*models.FlashcardDeck, error)
	AddFlashcard(ctx context.Context, userUID, deckID string, qa models.QA) (*models.Flashcard, error)
	ListDecks(ctx context.Context, userUID string) ([]*models.FlashcardDeck, error)
	DeleteDeck(ctx context.Context, userUID, deckID string) error
}

// Generator создаёт конспекты и карточки по тексту.
type Generator interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateFlashcards(ctx context.Context, text string) ([]models.QA, error)
}

// SummaryInput данные нового конспекта.
type SummaryInput struct {
	Title       string
	Text        string
	SummaryText string
}

// DeckInput данные новой колоды.
type DeckInput struct {
	Name          string
	ExtractedText string
	Flashcards    []models.QA
	Generate      bool
}

// Service реализует операции над материалами пользователя.
type Service struct {
	repo      Repository
	generator Generator
}

// New создаёт Service. generator может быть nil: генерация тогда недоступна.
func New(repo Repository, generator Generator) *Service {
	return &Service{repo: repo, generator: generator}
}

// limitFor возвращает лимит, который хранилище проверит в транзакции создания;
// 0 означает отсутствие ограничения.
func limitFor(quota models.Quota) int {
	if quota.Unlimited {
		return 0
	}
	if quota.Limit > 0 {
		return quota.Limit
	}
	return models.FreeTierLimit
}

// CreateSummary сохраняет конспект. Если текст конспекта не передан,
// он генерируется из исходного текста.
func (s *Service) CreateSummary(ctx context.Context, userUID string, quota models.Quota, in SummaryInput) (*models.Summary, error) {
	const op = "content.CreateSummary"

	summaryText := strings.TrimSpace(in.SummaryText)
	if summaryText == "" && s.generator != nil {
		generated, err := s.generator.Summarize(ctx, in.Text)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summaryText = generated
	}

	summary, err := s.repo.CreateSummary(ctx, &models.Summary{
		UserUID:       userUID,
		Title:         in.Title,
		ExtractedText: in.Text,
		Summary:       summaryText,
	}, limitFor(quota))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// ListSummaries возвращает конспекты пользователя, новые первыми.
func (s *Service) ListSummaries(ctx context.Context, userUID string) ([]*models.Summary, error) {
	const op = "content.ListSummaries"
	list, err := s.repo.ListSummaries(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// GetSummary возвращает конспект пользователя по ID.
func (s *Service) GetSummary(ctx context.Context, userUID, id string) (*models.Summary, error) {
	const op = "content.GetSummary"
	summary, err := s.repo.GetSummary(ctx, userUID, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// UpdateSummary заменяет текст конспекта.
func (s *Service) UpdateSummary(ctx context.Context, userUID, id, text string) (*models.Summary, error) {
	const op = "content.UpdateSummary"
	summary, err := s.repo.UpdateSummary(ctx, userUID, id, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// DeleteSummary удаляет конспект пользователя.
func (s *Service) DeleteSummary(ctx context.Context, userUID, id string) error {
	const op = "content.DeleteSummary"
	if err := s.repo.DeleteSummary(ctx, userUID, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CreateDeck создаёт колоду с переданными карточками или, при Generate,
// с карточками, сгенерированными из текста.
func (s *Service) CreateDeck(ctx context.Context, userUID string, quota models.Quota, in DeckInput) (*models.FlashcardDeck, error) {
	const op = "content.CreateDeck"

	cards := in.Flashcards
	if in.Generate && len(cards) == 0 {
		generated, err := s.GenerateFlashcards(ctx, in.ExtractedText)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cards = generated
	}

	deck, err := s.repo.CreateDeck(ctx, &models.FlashcardDeck{
		UserUID:       userUID,
		Name:          in.Name,
		ExtractedText: in.ExtractedText,
	}, cards, limitFor(quota))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return deck, nil
}

// AddFlashcard добавляет карточку в конец колоды пользователя.
func (s *Service) AddFlashcard(ctx context.Context, userUID, deckID string, qa models.QA) (*models.Flashcard, error) {
	const op = "content.AddFlashcard"
	card, err := s.repo.AddFlashcard(ctx, userUID, deckID, qa)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return card, nil
}

// ListDecks возвращает колоды пользователя вместе с карточками.
func (s *Service) ListDecks(ctx context.Context, userUID string) ([]*models.FlashcardDeck, error) {
	const op = "content.ListDecks"
	decks, err := s.repo.ListDecks(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return decks, nil
}

// DeleteDeck удаляет колоду и её карточки.
func (s *Service) DeleteDeck(ctx context.Context, userUID, deckID string) error {
	const op = "content.DeleteDeck"
	if err := s.repo.DeleteDeck(ctx, userUID, deckID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GenerateSummary возвращает конспект текста, не сохраняя его.
func (s *Service) GenerateSummary(ctx context.Context, text string) (string, error) {
	const op = "content.GenerateSummary"
	if s.generator == nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrGeneratorUnavailable)
	}
	summary, err := s.generator.Summarize(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}

// GenerateFlashcards возвращает карточки по тексту, не сохраняя их.
func (s *Service) GenerateFlashcards(ctx context.Context, text string) ([]models.QA, error) {
	const op = "content.GenerateFlashcards"
	if s.generator == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrGeneratorUnavailable)
	}
	cards, err := s.generator.GenerateFlashcards(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}
