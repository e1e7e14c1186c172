package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
)

// CreditCapture credits a captured payment to the account. The capture record
// is keyed by provider and reference, so a redelivered webhook is a no-op and
// CreditCapture reports false.
func (s *Store) CreditCapture(ctx context.Context, capture *models.PaymentCapture) (bool, error) {
	if capture.Credits <= 0 {
		return false, fmt.Errorf("%w: captured credits must be positive", storage.ErrInvalidOperation)
	}
	if err := balance.ValidateDelta(capture.Credits); err != nil {
		return false, fmt.Errorf("%w: %v", storage.ErrInvalidOperation, err)
	}

	capture.Id = models.CaptureID(capture.Provider, capture.Reference)
	capture.CreatedAt = time.Now().UTC()

	captureAV, err := attributevalue.MarshalMap(capture)
	if err != nil {
		return false, fmt.Errorf("failed to marshal payment capture: %w", err)
	}
	entry, err := s.putEntry(newEntry(capture.Id, capture.AccountId, models.EntryPaymentCapture, models.EntryCompleted, 0, capture.Credits, fmt.Sprintf("Payment via %s", capture.Provider), capture.CreatedAt))
	if err != nil {
		return false, err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the capture reference.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.PaymentCaptures),
					Item:                captureAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 2: Credit the account.
				Update: &types.Update{
					TableName:                 aws.String(s.Tables.Accounts),
					Key:                       map[string]types.AttributeValue{"id": stringAV(capture.AccountId)},
					UpdateExpression:          aws.String("SET #balances.#available = #balances.#available + :credits"),
					ConditionExpression:       aws.String("attribute_exists(id)"),
					ExpressionAttributeNames:  map[string]string{"#balances": "balances", "#available": "available"},
					ExpressionAttributeValues: map[string]types.AttributeValue{":credits": numberAV(capture.Credits)},
				},
			},
			entry,
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if c, ok := asCancellation(err); ok {
			switch {
			case c.conflicted():
				return false, conflictError("payment capture", err)
			case c.failed(0):
				return false, nil
			case c.failed(1):
				return false, fmt.Errorf("account %s: %w", capture.AccountId, storage.ErrNotFound)
			}
		}
		return false, fmt.Errorf("failed to execute payment capture transaction: %w", err)
	}

	return true, nil
}
