package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/moviereviews/backend/pkg/database"
	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

// ReviewRepository implements repository.ReviewRepository on a table keyed by
// (MovieId, ReviewId).
type ReviewRepository struct {
	client database.DynamoDBAPI
	table  string
}

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new DynamoDB-backed review repository.
func NewReviewRepository(client database.DynamoDBAPI, table string) *ReviewRepository {
	return &ReviewRepository{client: client, table: table}
}

// Put writes the review, replacing any item with the same key.
func (r *ReviewRepository) Put(ctx context.Context, review *domain.Review) error {
	item, err := attributevalue.MarshalMap(review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	ctx, end := database.TraceOp(ctx, r.table, "PutItem")
	out, err := r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName:              aws.String(r.table),
		Item:                   item,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		return apperrors.Upstream(storeDependency, fmt.Errorf("put review: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "PutItem", out.ConsumedCapacity)

	return nil
}

// Get retrieves a review with a strongly consistent read.
func (r *ReviewRepository) Get(ctx context.Context, movieID, reviewID int64) (*domain.Review, error) {
	ctx, end := database.TraceOp(ctx, r.table, "GetItem")
	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:              aws.String(r.table),
		Key:                    reviewKey(movieID, reviewID),
		ConsistentRead:         aws.Bool(true),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		return nil, apperrors.Upstream(storeDependency, fmt.Errorf("get review: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "GetItem", out.ConsumedCapacity)

	if len(out.Item) == 0 {
		return nil, apperrors.NotFound("review", strconv.FormatInt(reviewID, 10))
	}

	var review domain.Review
	if err := attributevalue.UnmarshalMap(out.Item, &review); err != nil {
		return nil, fmt.Errorf("unmarshal review: %w", err)
	}
	return &review, nil
}

// ListByMovie queries the movie's partition, following pagination to the end.
// A ReviewID filter narrows the key condition; a ReviewerName filter is
// applied server-side after the read.
func (r *ReviewRepository) ListByMovie(ctx context.Context, movieID int64, filter repository.ReviewFilter) ([]domain.Review, error) {
	keyCond := expression.Key(attrMovieID).Equal(expression.Value(movieID))
	if filter.ReviewID > 0 {
		keyCond = expression.KeyAnd(keyCond, expression.Key(attrReviewID).Equal(expression.Value(filter.ReviewID)))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if filter.ReviewerName != "" {
		builder = builder.WithFilter(expression.Name(attrReviewerID).Equal(expression.Value(filter.ReviewerName)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build review query: %w", err)
	}

	input := &ddb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnConsumedCapacity:    types.ReturnConsumedCapacityTotal,
	}

	reviews := make([]domain.Review, 0)
	pages := ddb.NewQueryPaginator(r.client, input)
	for pages.HasMorePages() {
		pageCtx, end := database.TraceOp(ctx, r.table, "Query")
		page, err := pages.NextPage(pageCtx)
		end(err)
		if err != nil {
			return nil, apperrors.Upstream(storeDependency, fmt.Errorf("query reviews: %w", err))
		}
		database.RecordConsumedCapacity(r.table, "Query", page.ConsumedCapacity)

		var batch []domain.Review
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal reviews: %w", err)
		}
		reviews = append(reviews, batch...)
	}

	return reviews, nil
}

// UpdateContent sets Content only if the review still exists and still
// belongs to reviewerID, returning the full updated item.
func (r *ReviewRepository) UpdateContent(ctx context.Context, movieID, reviewID int64, reviewerID, content string) (*domain.Review, error) {
	update := expression.Set(expression.Name(attrContent), expression.Value(content))
	cond := expression.AttributeExists(expression.Name(attrReviewID)).
		And(expression.Name(attrReviewerID).Equal(expression.Value(reviewerID)))

	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build review update: %w", err)
	}

	ctx, end := database.TraceOp(ctx, r.table, "UpdateItem")
	out, err := r.client.UpdateItem(ctx, &ddb.UpdateItemInput{
		TableName:                           aws.String(r.table),
		Key:                                 reviewKey(movieID, reviewID),
		UpdateExpression:                    expr.Update(),
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
		ReturnConsumedCapacity:              types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if len(ccf.Item) == 0 {
				return nil, apperrors.NotFound("review", strconv.FormatInt(reviewID, 10))
			}
			return nil, apperrors.Forbidden("only the reviewer may edit this review")
		}
		return nil, apperrors.Upstream(storeDependency, fmt.Errorf("update review: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "UpdateItem", out.ConsumedCapacity)

	var review domain.Review
	if err := attributevalue.UnmarshalMap(out.Attributes, &review); err != nil {
		return nil, fmt.Errorf("unmarshal review: %w", err)
	}
	return &review, nil
}

// Delete removes the review unconditionally.
func (r *ReviewRepository) Delete(ctx context.Context, movieID, reviewID int64) error {
	ctx, end := database.TraceOp(ctx, r.table, "DeleteItem")
	out, err := r.client.DeleteItem(ctx, &ddb.DeleteItemInput{
		TableName:              aws.String(r.table),
		Key:                    reviewKey(movieID, reviewID),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		return apperrors.Upstream(storeDependency, fmt.Errorf("delete review: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "DeleteItem", out.ConsumedCapacity)

	return nil
}
