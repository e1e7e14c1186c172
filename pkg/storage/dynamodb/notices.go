package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
)

// AppendNotice appends a notice to the recipient's notification list.
// The list is created on first use.
func (s *Store) AppendNotice(ctx context.Context, notice models.Notice) error {
	noticeAV, err := attributevalue.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to marshal notice: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.Accounts),
		Key:                 map[string]types.AttributeValue{"id": stringAV(notice.RecipientId)},
		UpdateExpression:    aws.String("SET notifications = list_append(if_not_exists(notifications, :empty), :notice)"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty":  &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":notice": &types.AttributeValueMemberL{Value: []types.AttributeValue{noticeAV}},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("recipient %s: %w", notice.RecipientId, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to append notice: %w", err)
	}

	return nil
}
