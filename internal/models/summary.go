package models

import "time"

// Summary конспект, созданный пользователем из PDF или вставленного текста.
type Summary struct {
	ID            string    `json:"id"`
	UserUID       string    `json:"userId"`
	Title         string    `json:"title"`
	ExtractedText string    `json:"extractedText"`
	Summary       string    `json:"summary"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
