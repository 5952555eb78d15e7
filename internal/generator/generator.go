// Package generator обращается к языковой модели за конспектами и карточками.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

const (
	summaryPrompt = "You are a study assistant. Summarize the following study material " +
		"into a concise, well-structured summary that keeps the key facts and definitions."
	flashcardsPrompt = "You are a study assistant. Create flashcards from the following study material. " +
		`Reply with JSON only: {"flashcards":[{"question":"...","answer":"..."}]}.`
	maxFlashcards = 20
)

// ErrEmptyResponse возвращается, если модель не прислала ни одного варианта ответа.
var ErrEmptyResponse = errors.New("empty completion")

// GPT генерирует конспекты и карточки через OpenAI-совместимый API.
type GPT struct {
	client *openai.Client
	model  string
}

// New создаёт генератор. Без ключа API возвращает nil: генерация отключена.
func New(cfg config.OpenAI) *GPT {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &GPT{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// Summarize возвращает конспект текста text.
func (g *GPT) Summarize(ctx context.Context, text string) (string, error) {
	const op = "generator.Summarize"
	content, err := g.complete(ctx, summaryPrompt, text, false)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return strings.TrimSpace(content), nil
}

// GenerateFlashcards возвращает пары вопрос/ответ по тексту text.
func (g *GPT) GenerateFlashcards(ctx context.Context, text string) ([]models.QA, error) {
	const op = "generator.GenerateFlashcards"
	content, err := g.complete(ctx, flashcardsPrompt, text, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cards, err := parseFlashcards(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}

func (g *GPT) complete(ctx context.Context, system, text string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.3,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func parseFlashcards(content string) ([]models.QA, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var payload struct {
		Flashcards []models.QA `json:"flashcards"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("invalid flashcards payload: %w", err)
	}

	cards := make([]models.QA, 0, len(payload.Flashcards))
	for _, c := range payload.Flashcards {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		cards = append(cards, c)
		if len(cards) == maxFlashcards {
			break
		}
	}
	return cards, nil
}
