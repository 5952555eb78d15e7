package paymentprovider

import "time"

// Amount сумма платежа в формате API провайдера.
type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// BankCard реквизиты карты для разового списания.
type BankCard struct {
	Number      string `json:"number"`
	ExpiryYear  string `json:"expiry_year"`
	ExpiryMonth string `json:"expiry_month"`
	CSC         string `json:"csc,omitempty"`
}

// PaymentMethodData способ оплаты в запросе на создание платежа.
type PaymentMethodData struct {
	Type string   `json:"type"`
	Card BankCard `json:"card"`
}

// CreatePaymentRequest тело запроса на создание платежа.
type CreatePaymentRequest struct {
	Amount            Amount            `json:"amount"`
	Capture           bool              `json:"capture"`
	Description       string            `json:"description"`
	PaymentMethodData PaymentMethodData `json:"payment_method_data"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse ответ провайдера на создание платежа.
type CreatePaymentResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}
