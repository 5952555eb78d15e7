// Package usage считает материалы пользователя и решает, пропускать ли
// запрос на создание через ограничение бесплатного тарифа.
package usage

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Repository определяет методы хранилища для подсчёта использования.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	CountSummaries(ctx context.Context, userUID string) (int, error)
	CountDecks(ctx context.Context, userUID string) (int, error)
}

// Service считает использование и применяет бесплатный лимит.
type Service struct {
	repo  Repository
	limit int
}

// New создаёт Service с лимитом models.FreeTierLimit.
func New(repo Repository) *Service {
	return &Service{repo: repo, limit: models.FreeTierLimit}
}

// GetUsage возвращает текущее число конспектов и колод пользователя и его лимиты.
func (s *Service) GetUsage(ctx context.Context, userUID string) (*models.Usage, error) {
	const op = "usage.GetUsage"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var summaries, decks int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountSummaries(gctx, userUID)
		summaries = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountDecks(gctx, userUID)
		decks = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	usage := &models.Usage{
		SummaryCount:       summaries,
		FlashcardCount:     decks,
		IsPaidUser:         user.IsPaidUser,
		SubscriptionStatus: user.Status,
	}
	if !user.IsPaidUser {
		summaryLimit, deckLimit := s.limit, s.limit
		usage.SummaryLimit = &summaryLimit
		usage.FlashcardLimit = &deckLimit
	}
	return usage, nil
}

// ClassifyRoute определяет тип ресурса по пути запроса. Признаки конспекта
// проверяются раньше признака карточек.
func ClassifyRoute(path string) (models.ResourceType, error) {
	p := strings.ToLower(path)
	switch {
	case strings.Contains(p, "/summary"), strings.Contains(p, "/summaries"), strings.Contains(p, "/upload"):
		return models.ResourceSummary, nil
	case strings.Contains(p, "/flashcard"):
		return models.ResourceFlashcard, nil
	default:
		return "", models.ErrInvalidRouteConfiguration
	}
}

// Authorize решает, может ли пользователь создать ещё один ресурс по пути path.
// Превышение лимита возвращается как *apperr.LimitError.
func (s *Service) Authorize(ctx context.Context, userUID, path string) (models.Quota, error) {
	const op = "usage.Authorize"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return models.Quota{}, fmt.Errorf("%s: %w", op, err)
	}
	if user.HasPremiumAccess() {
		return models.Quota{Unlimited: true}, nil
	}

	resource, err := ClassifyRoute(path)
	if err != nil {
		return models.Quota{}, fmt.Errorf("%s: %w", op, err)
	}

	var count int
	switch resource {
	case models.ResourceSummary:
		count, err = s.repo.CountSummaries(ctx, userUID)
	default:
		count, err = s.repo.CountDecks(ctx, userUID)
	}
	if err != nil {
		return models.Quota{}, fmt.Errorf("%s: %w", op, err)
	}

	quota := models.Quota{Resource: resource, CurrentCount: count, Limit: s.limit}
	if count >= s.limit {
		return quota, fmt.Errorf("%s: %w", op, &apperr.LimitError{
			ResourceType: string(resource),
			CurrentCount: count,
			Limit:        s.limit,
		})
	}
	return quota, nil
}
