package studyassistant

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// memStore хранилище в памяти с семантикой PostgreSQL-репозитория.
type memStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	summaries map[string]models.Summary
	decks     map[string]models.FlashcardDeck
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[string]models.User),
		summaries: make(map[string]models.Summary),
		decks:     make(map[string]models.FlashcardDeck),
	}
}

func (s *memStore) RegisterUser(_ context.Context, user models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return "", models.ErrUserExists
		}
	}
	user.UUID = uuid.NewString()
	user.CreatedAt = time.Now()
	s.users[user.UUID] = user
	return user.UUID, nil
}

func (s *memStore) GetUser(_ context.Context, userUID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userUID]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *memStore) UpdatePassword(_ context.Context, userUID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userUID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	s.users[userUID] = u
	return nil
}

func (s *memStore) UpdateSubscription(_ context.Context, userUID string, sub models.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userUID]
	if !ok {
		return models.ErrUserNotFound
	}
	u.Subscription = sub
	s.users[userUID] = u
	return nil
}

func (s *memStore) DeleteUser(_ context.Context, userUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userUID]; !ok {
		return models.ErrUserNotFound
	}
	delete(s.users, userUID)
	for id, sum := range s.summaries {
		if sum.UserUID == userUID {
			delete(s.summaries, id)
		}
	}
	for id, deck := range s.decks {
		if deck.UserUID == userUID {
			delete(s.decks, id)
		}
	}
	return nil
}

func (s *memStore) ExpireSubscriptions(_ context.Context, now time.Time) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []*models.User
	for id, u := range s.users {
		if (u.Status == models.StatusCancelled || u.Status == models.StatusPastDue) && u.End != nil && u.End.Before(now) {
			u.IsPaidUser = false
			u.Status = models.StatusInactive
			s.users[id] = u
			expired = append(expired, &u)
		}
	}
	return expired, nil
}

func (s *memStore) countSummaries(userUID string) int {
	n := 0
	for _, sum := range s.summaries {
		if sum.UserUID == userUID {
			n++
		}
	}
	return n
}

func (s *memStore) countDecks(userUID string) int {
	n := 0
	for _, deck := range s.decks {
		if deck.UserUID == userUID {
			n++
		}
	}
	return n
}

func (s *memStore) CountSummaries(_ context.Context, userUID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countSummaries(userUID), nil
}

func (s *memStore) CountDecks(_ context.Context, userUID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countDecks(userUID), nil
}

func (s *memStore) CreateSummary(_ context.Context, summary *models.Summary, limit int) (*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count := s.countSummaries(summary.UserUID); limit > 0 && count >= limit {
		return nil, &apperr.LimitError{ResourceType: string(models.ResourceSummary), CurrentCount: count, Limit: limit}
	}
	created := *summary
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.summaries[created.ID] = created
	return &created, nil
}

func (s *memStore) ListSummaries(_ context.Context, userUID string) ([]*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*models.Summary
	for _, sum := range s.summaries {
		if sum.UserUID == userUID {
			sum := sum
			list = append(list, &sum)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *memStore) GetSummary(_ context.Context, userUID, id string) (*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[id]
	if !ok || sum.UserUID != userUID {
		return nil, models.ErrSummaryNotFound
	}
	return &sum, nil
}

func (s *memStore) UpdateSummary(_ context.Context, userUID, id, text string) (*models.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[id]
	if !ok || sum.UserUID != userUID {
		return nil, models.ErrSummaryNotFound
	}
	sum.Summary = text
	sum.UpdatedAt = time.Now()
	s.summaries[id] = sum
	return &sum, nil
}

func (s *memStore) DeleteSummary(_ context.Context, userUID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.summaries[id]
	if !ok || sum.UserUID != userUID {
		return models.ErrSummaryNotFound
	}
	delete(s.summaries, id)
	return nil
}

func (s *memStore) CreateDeck(_ context.Context, deck *models.FlashcardDeck, cards []models.QA, limit int) (*models.FlashcardDeck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if count := s.countDecks(deck.UserUID); limit > 0 && count >= limit {
		return nil, &apperr.LimitError{ResourceType: string(models.ResourceFlashcard), CurrentCount: count, Limit: limit}
	}
	created := *deck
	created.ID = uuid.NewString()
	created.CreatedAt = time.Now()
	created.Flashcards = nil
	for i, qa := range cards {
		created.Flashcards = append(created.Flashcards, models.Flashcard{
			ID:       uuid.NewString(),
			DeckID:   created.ID,
			Question: qa.Question,
			Answer:   qa.Answer,
			Position: i + 1,
		})
	}
	s.decks[created.ID] = created
	return &created, nil
}

func (s *memStore) AddFlashcard(_ context.Context, userUID, deckID string, qa models.QA) (*models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deck, ok := s.decks[deckID]
	if !ok || deck.UserUID != userUID {
		return nil, models.ErrDeckNotFound
	}
	card := models.Flashcard{
		ID:       uuid.NewString(),
		DeckID:   deckID,
		Question: qa.Question,
		Answer:   qa.Answer,
		Position: len(deck.Flashcards) + 1,
	}
	deck.Flashcards = append(deck.Flashcards, card)
	s.decks[deckID] = deck
	return &card, nil
}

func (s *memStore) ListDecks(_ context.Context, userUID string) ([]*models.FlashcardDeck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*models.FlashcardDeck
	for _, deck := range s.decks {
		if deck.UserUID == userUID {
			deck := deck
			list = append(list, &deck)
		}
	}
	return list, nil
}

func (s *memStore) DeleteDeck(_ context.Context, userUID, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	deck, ok := s.decks[deckID]
	if !ok || deck.UserUID != userUID {
		return models.ErrDeckNotFound
	}
	delete(s.decks, deckID)
	return nil
}
