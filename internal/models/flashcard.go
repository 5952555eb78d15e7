package models

import "time"

// FlashcardDeck колода карточек пользователя.
type FlashcardDeck struct {
	ID            string      `json:"id"`
	UserUID       string      `json:"userId"`
	Name          string      `json:"name"`
	ExtractedText string      `json:"extractedText"`
	CreatedAt     time.Time   `json:"createdAt"`
	Flashcards    []Flashcard `json:"flashcards"`
}

// Flashcard карточка вопрос/ответ внутри колоды.
type Flashcard struct {
	ID        string    `json:"id"`
	DeckID    string    `json:"deckId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// QA пара вопрос/ответ, передаваемая при создании колоды.
type QA struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}
