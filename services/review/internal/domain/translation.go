package domain

import "time"

// Translation is a cached machine translation of a review into one language.
// At most one exists per (ReviewID, Language). Edits to the source review do
// not invalidate it.
type Translation struct {
	ReviewID          int64     `json:"reviewId" dynamodbav:"ReviewId"`
	Language          string    `json:"language" dynamodbav:"Language"`
	MovieID           int64     `json:"movieId" dynamodbav:"MovieId"`
	TranslatedContent string    `json:"translation" dynamodbav:"TranslatedContent"`
	CreatedAt         time.Time `json:"createdAt" dynamodbav:"CreatedAt"`
}
