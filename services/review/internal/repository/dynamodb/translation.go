package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/moviereviews/backend/pkg/database"
	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/services/review/internal/domain"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

// TranslationRepository implements repository.TranslationRepository on a
// table keyed by (ReviewId, Language).
type TranslationRepository struct {
	client database.DynamoDBAPI
	table  string
}

var _ repository.TranslationRepository = (*TranslationRepository)(nil)

// NewTranslationRepository creates a new DynamoDB-backed translation store.
func NewTranslationRepository(client database.DynamoDBAPI, table string) *TranslationRepository {
	return &TranslationRepository{client: client, table: table}
}

// Get retrieves a cached translation.
func (r *TranslationRepository) Get(ctx context.Context, reviewID int64, language string) (*domain.Translation, error) {
	ctx, end := database.TraceOp(ctx, r.table, "GetItem")
	out, err := r.client.GetItem(ctx, &ddb.GetItemInput{
		TableName:              aws.String(r.table),
		Key:                    translationKey(reviewID, language),
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		return nil, apperrors.Upstream(storeDependency, fmt.Errorf("get translation: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "GetItem", out.ConsumedCapacity)

	if len(out.Item) == 0 {
		return nil, apperrors.NotFound("translation", strconv.FormatInt(reviewID, 10)+"/"+language)
	}

	var t domain.Translation
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, fmt.Errorf("unmarshal translation: %w", err)
	}
	return &t, nil
}

// Put stores the translation unconditionally.
func (r *TranslationRepository) Put(ctx context.Context, t *domain.Translation) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal translation: %w", err)
	}

	ctx, end := database.TraceOp(ctx, r.table, "PutItem")
	out, err := r.client.PutItem(ctx, &ddb.PutItemInput{
		TableName:              aws.String(r.table),
		Item:                   item,
		ReturnConsumedCapacity: types.ReturnConsumedCapacityTotal,
	})
	end(err)
	if err != nil {
		return apperrors.Upstream(storeDependency, fmt.Errorf("put translation: %w", err))
	}
	database.RecordConsumedCapacity(r.table, "PutItem", out.ConsumedCapacity)

	return nil
}
