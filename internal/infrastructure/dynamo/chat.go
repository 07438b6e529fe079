package dynamo

import (
	"context"
	"fmt"

	"github.com/ai-dashboard/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChatRepo stores chat messages partitioned by channel and sorted by time.
type ChatRepo struct {
	client    API
	tableName string
}

func NewChatRepo(client API, tableName string) *ChatRepo {
	return &ChatRepo{client: client, tableName: tableName}
}

// Put appends m. Channel and SortKey are derived from the message.
func (r *ChatRepo) Put(ctx context.Context, m *domain.ChatMessage) error {
	if m.Channel == "" {
		m.Channel = domain.ChatChannel
	}
	m.SortKey = chatSortKey(m.Timestamp, m.ID)
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// List returns every message in channel, oldest first.
func (r *ChatRepo) List(ctx context.Context, channel string) ([]domain.ChatMessage, error) {
	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("#c = :c"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldChannel},
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: channel}},
		ScanIndexForward:          aws.Bool(true),
		ConsistentRead:            aws.Bool(true),
	}
	msgs := []domain.ChatMessage{}
	for {
		out, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, err
		}
		var page []domain.ChatMessage
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		msgs = append(msgs, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return msgs, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Empty reports whether channel holds no messages.
func (r *ChatRepo) Empty(ctx context.Context, channel string) (bool, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    aws.String("#c = :c"),
		ExpressionAttributeNames:  map[string]string{"#c": fieldChannel},
		ExpressionAttributeValues: map[string]types.AttributeValue{":c": &types.AttributeValueMemberS{Value: channel}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return false, err
	}
	return len(out.Items) == 0, nil
}
