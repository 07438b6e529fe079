package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/ai-dashboard/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KVRepo is a key-value backend on a single-attribute-key table.
// Values are stored as raw bytes under the "value" attribute.
type KVRepo struct {
	client    API
	tableName string
}

func NewKVRepo(client API, tableName string) *KVRepo {
	return &KVRepo{client: client, tableName: tableName}
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldKVKey, key),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, domain.ErrNotFound
	}
	v, ok := out.Item[fieldKVValue].(*types.AttributeValueMemberB)
	if !ok {
		return nil, fmt.Errorf("kv item %s has no binary value: %w", key, domain.ErrNotFound)
	}
	return v.Value, nil
}

func (r *KVRepo) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item: map[string]types.AttributeValue{
			fieldKVKey:   &types.AttributeValueMemberS{Value: key},
			fieldKVValue: &types.AttributeValueMemberB{Value: value},
		},
	})
	return err
}

// Keys scans the table for keys beginning with prefix.
func (r *KVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	input := &dynamodb.ScanInput{
		TableName:                 aws.String(r.tableName),
		ProjectionExpression:      aws.String("#k"),
		FilterExpression:          aws.String("begins_with(#k, :p)"),
		ExpressionAttributeNames:  map[string]string{"#k": fieldKVKey},
		ExpressionAttributeValues: map[string]types.AttributeValue{":p": &types.AttributeValueMemberS{Value: prefix}},
	}
	if prefix == "" {
		input.FilterExpression = nil
		input.ExpressionAttributeValues = nil
	}
	keys := []string{}
	for {
		out, err := r.client.Scan(ctx, input)
		if err != nil {
			return nil, err
		}
		for _, item := range out.Items {
			if k, ok := item[fieldKVKey].(*types.AttributeValueMemberS); ok {
				keys = append(keys, k.Value)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	sort.Strings(keys)
	return keys, nil
}
