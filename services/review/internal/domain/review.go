package domain

import (
	"time"
	"unicode/utf8"
)

// MaxContentLength is the maximum review length in characters.
const MaxContentLength = 1000

// Review is a reviewer's text about a movie. MovieID and ReviewID together
// form the primary key; ReviewerID and ReviewDate never change after creation.
type Review struct {
	MovieID    int64     `json:"movieId" dynamodbav:"MovieId"`
	ReviewID   int64     `json:"reviewId" dynamodbav:"ReviewId"`
	ReviewerID string    `json:"reviewerId" dynamodbav:"ReviewerId"`
	Content    string    `json:"content" dynamodbav:"Content"`
	ReviewDate time.Time `json:"reviewDate" dynamodbav:"ReviewDate"`
}

// ValidContent reports whether content has between 1 and MaxContentLength
// characters.
func ValidContent(content string) bool {
	n := utf8.RuneCountInString(content)
	return n >= 1 && n <= MaxContentLength
}

// OwnedBy reports whether callerID wrote the review.
func (r *Review) OwnedBy(callerID string) bool {
	return callerID != "" && r.ReviewerID == callerID
}
