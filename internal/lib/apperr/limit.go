package apperr

import "fmt"

// LimitCode машиночитаемый код ошибки бесплатного лимита.
const LimitCode = "FREE_TIER_LIMIT"

// LimitError сообщает, что пользователь бесплатного тарифа исчерпал лимит ресурса.
type LimitError struct {
	ResourceType string
	CurrentCount int
	Limit        int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: %s %d/%d", LimitCode, e.ResourceType, e.CurrentCount, e.Limit)
}

// Message формирует текст для клиента, например
// "Free-tier users can only generate 3 summaries."
func (e *LimitError) Message() string {
	noun := "summaries"
	if e.ResourceType == "flashcard" {
		noun = "flashcard decks"
	}
	return fmt.Sprintf("Free-tier users can only generate %d %s.", e.Limit, noun)
}
