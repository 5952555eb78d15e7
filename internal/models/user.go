// Package models содержит доменные структуры сервиса: пользователя с его
// подпиской, конспекты, колоды карточек, учёт использования и события.
// Структуры используются в бизнес‑логике, хранилище и HTTP-ответах.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    `json:"id"`    // Уникальный идентификатор пользователя
	Email        string    `json:"email"` // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`     // bcrypt-хэш пароля
	CreatedAt    time.Time `json:"-"`     // Дата регистрации
	Subscription                           // Состояние подписки
}

// NewUser возвращает пользователя в начальном состоянии: бесплатный план,
// подписка неактивна.
func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Subscription: Subscription{
			IsPaidUser: false,
			Status:     StatusInactive,
			Plan:       PlanFree,
		},
	}
}

// Profile проекция пользователя, возвращаемая клиенту после входа.
type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Subscription
}

// Profile строит проекцию пользователя без секретных полей.
func (u *User) Profile() Profile {
	return Profile{
		ID:           u.UUID,
		Email:        u.Email,
		Subscription: u.Subscription,
	}
}
