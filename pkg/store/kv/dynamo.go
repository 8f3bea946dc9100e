package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client the store needs.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type dynamoRecord struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	ExpiresAt int64  `dynamodbav:"expires_at_ms"`
	TTL       int64  `dynamodbav:"ttl"`
}

// DynamoStore keeps entries in a table keyed by "key" with TTL enabled on "ttl". DynamoDB
// deletes expired items lazily, so Get also checks the expiry itself.
type DynamoStore struct {
	client    DynamoAPI
	tableName string
	now       func() time.Time
}

func NewDynamoStore(client DynamoAPI, tableName string) (*DynamoStore, error) {
	if client == nil {
		return nil, fmt.Errorf("dynamodb client is nil")
	}
	if tableName == "" {
		return nil, fmt.Errorf("table name is required")
	}
	return &DynamoStore{client: client, tableName: tableName, now: time.Now}, nil
}

func (s *DynamoStore) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	if out.Item == nil {
		return "", false, nil
	}

	var record dynamoRecord
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return "", false, fmt.Errorf("unmarshal %q: %w", key, err)
	}
	if s.now().UnixMilli() >= record.ExpiresAt {
		return "", false, nil
	}
	return record.Value, true, nil
}

func (s *DynamoStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl)
	item, err := attributevalue.MarshalMap(dynamoRecord{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt.UnixMilli(),
		TTL:       expiresAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}
