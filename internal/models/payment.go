package models

import "time"

// Charge запрос на списание средств через платёжного провайдера.
type Charge struct {
	UserUID     string // Идентификатор плательщика
	AmountCents int64  // Сумма в минимальных единицах валюты
	Currency    string // Код валюты ISO 4217
	Description string // Назначение платежа
	CardNumber  string // Номер карты (не сохраняется)
	ExpiryDate  string // Срок действия карты MM/YY
	CVV         string // CVV (не сохраняется)
}

// ChargeResult результат успешного списания.
type ChargeResult struct {
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	ProcessedAt   time.Time `json:"processedAt"`
}

// PremiumPriceCents стоимость месяца премиум-подписки.
const PremiumPriceCents int64 = 999

// PremiumCurrency валюта списания премиум-подписки.
const PremiumCurrency = "USD"
