package models

// FreeTierLimit максимальное число конспектов и колод для бесплатного тарифа.
const FreeTierLimit = 3

// ResourceType тип ресурса, на который распространяется лимит.
type ResourceType string

// Типы ресурсов.
const (
	ResourceSummary   ResourceType = "summary"
	ResourceFlashcard ResourceType = "flashcard"
)

// Usage статистика использования, возвращаемая /auth/usage.
// Лимиты равны nil для платных пользователей.
type Usage struct {
	SummaryCount       int                `json:"summaryCount"`
	FlashcardCount     int                `json:"flashcardCount"`
	IsPaidUser         bool               `json:"isPaidUser"`
	SubscriptionStatus SubscriptionStatus `json:"subscriptionStatus"`
	SummaryLimit       *int               `json:"summaryLimit"`
	FlashcardLimit     *int               `json:"flashcardLimit"`
}

// Quota решение ограничителя бесплатного тарифа для одного запроса.
// Unlimited выставляется для премиум-доступа; иначе Limit и CurrentCount
// описывают состояние на момент проверки.
type Quota struct {
	Resource     ResourceType
	Unlimited    bool
	CurrentCount int
	Limit        int
}
