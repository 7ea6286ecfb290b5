// Package dynamodb implements the review repositories on Amazon DynamoDB.
package dynamodb

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// storeDependency names DynamoDB in UPSTREAM_ERROR responses.
const storeDependency = "key-value store"

// Attribute names shared by the tables.
const (
	attrMovieID     = "MovieId"
	attrReviewID    = "ReviewId"
	attrReviewerID  = "ReviewerId"
	attrContent     = "Content"
	attrLanguage    = "Language"
	attrCounterName = "CounterName"
	attrLastValue   = "LastValue"
)

func numberAttr(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(n, 10)}
}

func reviewKey(movieID, reviewID int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrMovieID:  numberAttr(movieID),
		attrReviewID: numberAttr(reviewID),
	}
}

func translationKey(reviewID int64, language string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrReviewID: numberAttr(reviewID),
		attrLanguage: &types.AttributeValueMemberS{Value: language},
	}
}

func counterKey(name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrCounterName: &types.AttributeValueMemberS{Value: name},
	}
}
