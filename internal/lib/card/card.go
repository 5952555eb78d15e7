// Package card классифицирует банковские карты по BIN-префиксу и
// приводит реквизиты к виду, пригодному для хранения.
package card

import (
	"regexp"
	"strings"
	"unicode"
)

// Типы карт, определяемые по префиксу номера.
const (
	TypeVisa       = "Visa"
	TypeMastercard = "Mastercard"
	TypeAmex       = "American Express"
	TypeDiscover   = "Discover"
	TypeGeneric    = "Card"
)

// Допустимая длина номера карты.
const (
	MinNumberLength = 12
	MaxNumberLength = 19
)

// Срок действия: MM/YY, MM/YYYY, MMYY или MMYYYY.
var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/?([0-9]{2}|[0-9]{4})$`)

// Normalize удаляет пробелы и дефисы из номера карты.
func Normalize(number string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return r
	}, number)
}

// Classify возвращает тип карты по первым цифрам номера.
func Classify(number string) string {
	n := Normalize(number)
	switch {
	case strings.HasPrefix(n, "4"):
		return TypeVisa
	case len(n) >= 2 && n[0] == '5' && n[1] >= '1' && n[1] <= '5':
		return TypeMastercard
	case strings.HasPrefix(n, "34"), strings.HasPrefix(n, "37"):
		return TypeAmex
	case strings.HasPrefix(n, "6011"), strings.HasPrefix(n, "65"):
		return TypeDiscover
	default:
		return TypeGeneric
	}
}

// LastFour возвращает последние четыре цифры номера
// (или весь номер, если он короче).
func LastFour(number string) string {
	n := Normalize(number)
	if len(n) <= 4 {
		return n
	}
	return n[len(n)-4:]
}

// IsDigits сообщает, состоит ли нормализованный номер только из цифр.
func IsDigits(number string) bool {
	n := Normalize(number)
	if n == "" {
		return false
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidNumber сообщает, похож ли номер на номер банковской карты:
// только цифры, от MinNumberLength до MaxNumberLength знаков.
func ValidNumber(number string) bool {
	n := Normalize(number)
	return IsDigits(n) && len(n) >= MinNumberLength && len(n) <= MaxNumberLength
}

// ParseExpiry разбирает срок действия в месяц и четырёхзначный год.
func ParseExpiry(expiry string) (month, year string, ok bool) {
	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return "", "", false
	}
	year = m[2]
	if len(year) == 2 {
		year = "20" + year
	}
	return m[1], year, true
}

// NormalizeExpiry приводит срок действия к виду MM/YY.
func NormalizeExpiry(expiry string) (string, bool) {
	month, year, ok := ParseExpiry(expiry)
	if !ok {
		return "", false
	}
	return month + "/" + year[2:], true
}
