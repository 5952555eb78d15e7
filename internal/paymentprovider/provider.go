// Package paymentprovider описывает границу с платёжным провайдером.
//
// Provider списывает стоимость подписки с карты пользователя. MockProvider
// используется по умолчанию и никогда не обращается к сети; Client отправляет
// платёж во внешний API провайдера по HTTP.
package paymentprovider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-assistant/internal/lib/card"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Provider списывает средства за подписку.
type Provider interface {
	Charge(ctx context.Context, charge models.Charge) (*models.ChargeResult, error)
}

// Статусы платежа.
const (
	StatusSucceeded = "succeeded"
	StatusCanceled  = "canceled"
)

// DeclinedCardNumber тестовый номер карты, который MockProvider всегда отклоняет.
const DeclinedCardNumber = "4000000000000002"

// MockProvider имитирует успешное списание для любой карты,
// кроме DeclinedCardNumber.
type MockProvider struct {
	now func() time.Time
}

// NewMockProvider создаёт MockProvider.
func NewMockProvider() *MockProvider {
	return &MockProvider{now: time.Now}
}

// Charge возвращает результат с новым идентификатором транзакции.
func (p *MockProvider) Charge(ctx context.Context, charge models.Charge) (*models.ChargeResult, error) {
	const op = "paymentprovider.MockProvider.Charge"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if charge.AmountCents <= 0 {
		return nil, fmt.Errorf("%s: non-positive amount %d", op, charge.AmountCents)
	}
	if card.Normalize(charge.CardNumber) == DeclinedCardNumber {
		return nil, fmt.Errorf("%s: %w", op, models.ErrPaymentDeclined)
	}
	return &models.ChargeResult{
		TransactionID: "mock_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Status:        StatusSucceeded,
		ProcessedAt:   p.now().UTC(),
	}, nil
}
