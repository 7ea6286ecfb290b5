package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cenkalti/backoff/v5"

	"github.com/moviereviews/backend/pkg/database"
	apperrors "github.com/moviereviews/backend/pkg/errors"
	"github.com/moviereviews/backend/services/review/internal/repository"
)

const defaultSequenceAttempts = 5

// SequenceRepository implements repository.SequenceGenerator with an atomic
// ADD on one counter item per name. Missing counters start from zero, so the
// first value handed out is 1.
type SequenceRepository struct {
	client      database.DynamoDBAPI
	table       string
	maxAttempts uint
	newBackOff  func() backoff.BackOff
}

var _ repository.SequenceGenerator = (*SequenceRepository)(nil)

// NewSequenceRepository creates a new DynamoDB-backed sequence generator.
func NewSequenceRepository(client database.DynamoDBAPI, table string) *SequenceRepository {
	return &SequenceRepository{
		client:      client,
		table:       table,
		maxAttempts: defaultSequenceAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 20 * time.Millisecond
			b.MaxInterval = 500 * time.Millisecond
			return b
		},
	}
}

// Next atomically increments the named counter and returns the new value.
// Contention and throttling errors are retried; the increment is a single
// request, so a failed attempt never leaves a partial write.
func (s *SequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(expression.Add(expression.Name(attrLastValue), expression.Value(1))).
		Build()
	if err != nil {
		return 0, fmt.Errorf("build counter update: %w", err)
	}

	input := &ddb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       counterKey(name),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
		ReturnConsumedCapacity:    types.ReturnConsumedCapacityTotal,
	}

	next, err := backoff.Retry(ctx, func() (int64, error) {
		opCtx, end := database.TraceOp(ctx, s.table, "UpdateItem")
		out, err := s.client.UpdateItem(opCtx, input)
		end(err)
		if err != nil {
			if !retryableCounterError(err) {
				return 0, backoff.Permanent(err)
			}
			return 0, err
		}
		database.RecordConsumedCapacity(s.table, "UpdateItem", out.ConsumedCapacity)

		var counter struct {
			LastValue int64 `dynamodbav:"LastValue"`
		}
		if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
			return 0, backoff.Permanent(fmt.Errorf("unmarshal counter: %w", err))
		}
		if counter.LastValue < 1 {
			return 0, backoff.Permanent(fmt.Errorf("counter %s returned no value", name))
		}
		return counter.LastValue, nil
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.maxAttempts),
		backoff.WithMaxElapsedTime(10*time.Second),
	)
	if err != nil {
		return 0, apperrors.Upstream(storeDependency, fmt.Errorf("increment counter %s: %w", name, err))
	}
	return next, nil
}

func retryableCounterError(err error) bool {
	var (
		conflict   *types.TransactionConflictException
		throughput *types.ProvisionedThroughputExceededException
		condition  *types.ConditionalCheckFailedException
		limit      *types.RequestLimitExceeded
	)
	return errors.As(err, &conflict) ||
		errors.As(err, &throughput) ||
		errors.As(err, &condition) ||
		errors.As(err, &limit)
}
