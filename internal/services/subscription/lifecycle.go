package subscription

import (
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/lib/card"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// ApplyExpiry переводит отменённую или просроченную подписку с истёкшей
// датой окончания в неактивное состояние. Возвращает true, если снимок изменился.
func ApplyExpiry(sub *models.Subscription, now time.Time) bool {
	if sub.Status != models.StatusCancelled && sub.Status != models.StatusPastDue {
		return false
	}
	if sub.End == nil || !sub.End.Before(now) {
		return false
	}
	sub.IsPaidUser = false
	sub.Status = models.StatusInactive
	return true
}

// Activate открывает оплаченный премиум-период длиной models.SubscriptionPeriod.
func Activate(sub *models.Subscription, pm *models.PaymentMethod, now time.Time) {
	end := now.Add(models.SubscriptionPeriod)
	sub.IsPaidUser = true
	sub.Status = models.StatusActive
	sub.Plan = models.PlanPremium
	sub.End = &end
	if pm != nil {
		sub.PaymentMethod = pm
	}
}

// Cancel отменяет подписку, оставляя доступ до конца периода.
// Подписка с уже истёкшим сроком сначала деактивируется.
func Cancel(sub *models.Subscription, now time.Time) error {
	ApplyExpiry(sub, now)
	if !sub.IsPaidUser {
		return models.ErrNoActiveSubscription
	}
	sub.Status = models.StatusCancelled
	if sub.End == nil {
		end := now.Add(models.SubscriptionPeriod)
		sub.End = &end
	}
	return nil
}

// Normalize приводит снимок к согласованному состоянию после
// произвольного обновления полей.
func Normalize(sub *models.Subscription, now time.Time) {
	switch sub.Status {
	case models.StatusActive:
		sub.IsPaidUser = true
	case models.StatusCancelled:
		if sub.End == nil {
			end := now.Add(models.SubscriptionPeriod)
			sub.End = &end
		}
	case models.StatusInactive, models.StatusPastDue:
		sub.IsPaidUser = false
	default:
		sub.Status = models.StatusInactive
		sub.IsPaidUser = false
	}
	if !sub.Plan.Valid() {
		sub.Plan = models.PlanFree
	}
	ApplyExpiry(sub, now)
}

// SanitizeCard проверяет реквизиты карты и оставляет только то, что
// допустимо хранить: тип карты, последние четыре цифры и срок действия MM/YY.
func SanitizeCard(details models.PaymentDetails) (*models.PaymentMethod, error) {
	if !card.ValidNumber(details.CardNumber) {
		return nil, models.ErrInvalidCard
	}
	expiry, ok := card.NormalizeExpiry(details.ExpiryDate)
	if !ok {
		return nil, models.ErrInvalidCard
	}
	return &models.PaymentMethod{
		CardType:       card.Classify(details.CardNumber),
		LastFourDigits: card.LastFour(details.CardNumber),
		ExpiryDate:     expiry,
	}, nil
}

// ApplyPatch переносит заданные поля patch в снимок и нормализует его.
func ApplyPatch(sub *models.Subscription, patch models.SubscriptionPatch, now time.Time) error {
	if patch.IsPaidUser != nil {
		sub.IsPaidUser = *patch.IsPaidUser
	}
	if patch.Status != nil {
		sub.Status = *patch.Status
	}
	if patch.Plan != nil {
		sub.Plan = *patch.Plan
	}
	if patch.End != nil {
		end := *patch.End
		sub.End = &end
	}
	if pm := patch.PaymentMethod; pm != nil {
		merged := models.PaymentMethod{}
		if sub.PaymentMethod != nil {
			merged = *sub.PaymentMethod
		}
		if pm.CardNumber != nil {
			if !card.ValidNumber(*pm.CardNumber) {
				return models.ErrInvalidCard
			}
			merged.CardType = card.Classify(*pm.CardNumber)
			merged.LastFourDigits = card.LastFour(*pm.CardNumber)
		} else {
			if pm.CardType != nil {
				merged.CardType = *pm.CardType
			}
			if pm.LastFourDigits != nil {
				merged.LastFourDigits = *pm.LastFourDigits
			}
		}
		if pm.ExpiryDate != nil {
			expiry, ok := card.NormalizeExpiry(*pm.ExpiryDate)
			if !ok {
				return models.ErrInvalidCard
			}
			merged.ExpiryDate = expiry
		}
		sub.PaymentMethod = &merged
	}
	Normalize(sub, now)
	return nil
}
