package models

import "time"

// SubscriptionStatus статус подписки пользователя.
type SubscriptionStatus string

// Возможные статусы подписки.
const (
	StatusInactive  SubscriptionStatus = "inactive"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusPastDue   SubscriptionStatus = "past-due"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusInactive, StatusActive, StatusCancelled, StatusPastDue:
		return true
	}
	return false
}

// Plan тарифный план пользователя.
type Plan string

// Тарифные планы.
const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// Valid сообщает, является ли план известным.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPremium
}

// SubscriptionPeriod длительность оплаченного периода и льготного
// периода после отмены.
const SubscriptionPeriod = 30 * 24 * time.Hour

// PaymentMethod безопасное представление платёжной карты.
// Полный номер карты и CVV никогда не сохраняются.
type PaymentMethod struct {
	CardType       string `json:"cardType"`
	LastFourDigits string `json:"lastFourDigits"`
	ExpiryDate     string `json:"expiryDate"`
}

// Subscription снимок состояния подписки пользователя.
type Subscription struct {
	IsPaidUser    bool               `json:"isPaidUser"`
	Status        SubscriptionStatus `json:"subscriptionStatus"`
	Plan          Plan               `json:"subscription"`
	End           *time.Time         `json:"subscriptionEnd"`
	PaymentMethod *PaymentMethod     `json:"paymentMethod"`
}

// HasPremiumAccess сообщает, снимаются ли ограничения бесплатного тарифа.
func (s Subscription) HasPremiumAccess() bool {
	return s.IsPaidUser && s.Status == StatusActive
}

// PaymentDetails реквизиты карты, приходящие от клиента.
type PaymentDetails struct {
	CardNumber     string `json:"cardNumber" validate:"required"`
	ExpiryDate     string `json:"expiryDate" validate:"required"`
	CVV            string `json:"cvv" validate:"omitempty,numeric,min=3,max=4"`
	CardholderName string `json:"cardholderName,omitempty"`
}

// PaymentMethodPatch частичное обновление платёжного метода.
// Если передан CardNumber, тип карты и последние цифры вычисляются из него.
type PaymentMethodPatch struct {
	CardNumber     *string `json:"cardNumber,omitempty"`
	CardType       *string `json:"cardType,omitempty"`
	LastFourDigits *string `json:"lastFourDigits,omitempty" validate:"omitempty,numeric,len=4"`
	ExpiryDate     *string `json:"expiryDate,omitempty"`
}

// SubscriptionPatch частичное обновление полей подписки.
// nil означает, что поле не изменяется.
type SubscriptionPatch struct {
	IsPaidUser    *bool               `json:"isPaidUser,omitempty"`
	Status        *SubscriptionStatus `json:"subscriptionStatus,omitempty" validate:"omitempty,oneof=inactive active cancelled past-due"`
	Plan          *Plan               `json:"subscription,omitempty" validate:"omitempty,oneof=free premium"`
	End           *time.Time          `json:"subscriptionEnd,omitempty"`
	PaymentMethod *PaymentMethodPatch `json:"paymentMethod,omitempty"`
}
