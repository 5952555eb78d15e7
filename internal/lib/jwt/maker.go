// Package jwt реализует генерацию и парсинг JWT токенов сессии.
//
// Maker определяет интерфейс для создания и проверки токенов, несущих
// идентификатор пользователя и его email. MakerImpl — реализация на основе
// секретного ключа и времени жизни токена.
package jwt

import (
	"time"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя с указанным UID и email.
	GenerateToken(userUID, email string) (string, error)
	// ParseToken проверяет подпись и срок действия, возвращая claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
