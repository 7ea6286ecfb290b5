package dynamodb

import (
	"context"
	"sync"

	ddb "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/moviereviews/backend/pkg/database"
)

// fakeClient records every request and answers through per-operation hooks.
// Unset hooks return an empty output.
type fakeClient struct {
	mu sync.Mutex

	getItem    func(*ddb.GetItemInput) (*ddb.GetItemOutput, error)
	putItem    func(*ddb.PutItemInput) (*ddb.PutItemOutput, error)
	updateItem func(*ddb.UpdateItemInput) (*ddb.UpdateItemOutput, error)
	deleteItem func(*ddb.DeleteItemInput) (*ddb.DeleteItemOutput, error)
	query      func(*ddb.QueryInput) (*ddb.QueryOutput, error)

	gets    []*ddb.GetItemInput
	puts    []*ddb.PutItemInput
	updates []*ddb.UpdateItemInput
	deletes []*ddb.DeleteItemInput
	queries []*ddb.QueryInput
}

var _ database.DynamoDBAPI = (*fakeClient)(nil)

func (f *fakeClient) GetItem(_ context.Context, in *ddb.GetItemInput, _ ...func(*ddb.Options)) (*ddb.GetItemOutput, error) {
	f.mu.Lock()
	f.gets = append(f.gets, in)
	f.mu.Unlock()
	if f.getItem == nil {
		return &ddb.GetItemOutput{}, nil
	}
	return f.getItem(in)
}

func (f *fakeClient) PutItem(_ context.Context, in *ddb.PutItemInput, _ ...func(*ddb.Options)) (*ddb.PutItemOutput, error) {
	f.mu.Lock()
	f.puts = append(f.puts, in)
	f.mu.Unlock()
	if f.putItem == nil {
		return &ddb.PutItemOutput{}, nil
	}
	return f.putItem(in)
}

func (f *fakeClient) UpdateItem(_ context.Context, in *ddb.UpdateItemInput, _ ...func(*ddb.Options)) (*ddb.UpdateItemOutput, error) {
	f.mu.Lock()
	f.updates = append(f.updates, in)
	f.mu.Unlock()
	if f.updateItem == nil {
		return &ddb.UpdateItemOutput{}, nil
	}
	return f.updateItem(in)
}

func (f *fakeClient) DeleteItem(_ context.Context, in *ddb.DeleteItemInput, _ ...func(*ddb.Options)) (*ddb.DeleteItemOutput, error) {
	f.mu.Lock()
	f.deletes = append(f.deletes, in)
	f.mu.Unlock()
	if f.deleteItem == nil {
		return &ddb.DeleteItemOutput{}, nil
	}
	return f.deleteItem(in)
}

func (f *fakeClient) Query(_ context.Context, in *ddb.QueryInput, _ ...func(*ddb.Options)) (*ddb.QueryOutput, error) {
	f.mu.Lock()
	f.queries = append(f.queries, in)
	f.mu.Unlock()
	if f.query == nil {
		return &ddb.QueryOutput{}, nil
	}
	return f.query(in)
}

func (f *fakeClient) DescribeTable(context.Context, *ddb.DescribeTableInput, ...func(*ddb.Options)) (*ddb.DescribeTableOutput, error) {
	return &ddb.DescribeTableOutput{}, nil
}
