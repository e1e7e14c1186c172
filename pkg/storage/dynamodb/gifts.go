package dynamodb

import (
	"context"
	"errors"
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

// CreateGiftCode creates a new active gift code.
func (s *Store) CreateGiftCode(ctx context.Context, code *models.GiftCode) (*models.GiftCode, error) {
	if code.Amount <= 0 {
		return nil, fmt.Errorf("%w: gift amount must be positive", storage.ErrInvalidOperation)
	}
	code.Active = true
	code.Redemptions = nil
	code.CreatedAt = time.Now().UTC()

	codeAV, err := attributevalue.MarshalMap(code)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gift code: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.GiftCodes),
		Item:                codeAV,
		ConditionExpression: aws.String("attribute_not_exists(code)"),
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("gift code %s: %w", code.Code, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create gift code in DynamoDB: %w", err)
	}

	return code, nil
}

// GetGiftCode retrieves a gift code with a strongly consistent read.
func (s *Store) GetGiftCode(ctx context.Context, code string) (*models.GiftCode, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.GiftCodes),
		Key:            map[string]types.AttributeValue{"code": stringAV(code)},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get gift code from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, storage.ErrGiftCodeNotFound
	}

	var gift models.GiftCode
	if err := attributevalue.UnmarshalMap(result.Item, &gift); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gift code: %w", err)
	}

	return &gift, nil
}

// DeactivateGiftCode marks a gift code inactive.
func (s *Store) DeactivateGiftCode(ctx context.Context, code string) error {
	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.Tables.GiftCodes),
		Key:                 map[string]types.AttributeValue{"code": stringAV(code)},
		UpdateExpression:    aws.String("SET active = :false"),
		ConditionExpression: aws.String("attribute_exists(code)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":false": &types.AttributeValueMemberBOOL{Value: false},
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return storage.ErrGiftCodeNotFound
		}
		return fmt.Errorf("failed to deactivate gift code: %w", err)
	}

	return nil
}

// RedeemGiftCode credits the code's amount to the account once.
//
// The code is read first so ineligible redemptions fail without a write. The
// transaction then re-asserts every eligibility rule and the amount that was
// read, adds the account to the code's redemption set, credits the account
// and appends the history row.
func (s *Store) RedeemGiftCode(ctx context.Context, accountID, code string) (*models.GiftCode, error) {
	gift, err := s.GetGiftCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := redemptionError(gift, accountID); err != nil {
		return nil, err
	}
	if err := balance.ValidateDelta(gift.Amount); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidOperation, err)
	}

	now := time.Now().UTC()
	amountAV := numberAV(gift.Amount)
	entry, err := s.putEntry(newEntry(gift.Code, accountID, models.EntryGiftRedemption, models.EntryCompleted, 0, gift.Amount, fmt.Sprintf("Redeemed gift code %s", gift.Code), now))
	if err != nil {
		return nil, err
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Record the redemption if the code is still redeemable by this account.
				Update: &types.Update{
					TableName:           aws.String(s.Tables.GiftCodes),
					Key:                 map[string]types.AttributeValue{"code": stringAV(gift.Code)},
					UpdateExpression:    aws.String("ADD redemptions :account_set"),
					ConditionExpression: aws.String("attribute_exists(code) AND active = :true AND amount = :amount AND NOT contains(redemptions, :account) AND (attribute_not_exists(target) OR target = :account)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":account_set": &types.AttributeValueMemberSS{Value: []string{accountID}},
						":account":     stringAV(accountID),
						":true":        &types.AttributeValueMemberBOOL{Value: true},
						":amount":      amountAV,
					},
					ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
				},
			},
			{
				// Operation 2: Credit the account.
				Update: &types.Update{
					TableName:                 aws.String(s.Tables.Accounts),
					Key:                       map[string]types.AttributeValue{"id": stringAV(accountID)},
					UpdateExpression:          aws.String("SET #balances.#available = #balances.#available + :amount"),
					ConditionExpression:       aws.String("attribute_exists(id)"),
					ExpressionAttributeNames:  map[string]string{"#balances": "balances", "#available": "available"},
					ExpressionAttributeValues: map[string]types.AttributeValue{":amount": amountAV},
				},
			},
			// Operation 3: The history row.
			entry,
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		c, ok := asCancellation(err)
		if !ok {
			return nil, fmt.Errorf("failed to execute redemption transaction: %w", err)
		}
		switch {
		case c.conflicted():
			return nil, conflictError("redemption", err)
		case c.failed(0):
			old := c.old(0)
			if old == nil {
				return nil, storage.ErrGiftCodeNotFound
			}
			var current models.GiftCode
			if uerr := attributevalue.UnmarshalMap(old, &current); uerr != nil {
				return nil, fmt.Errorf("failed to unmarshal gift code: %w", uerr)
			}
			if rerr := redemptionError(&current, accountID); rerr != nil {
				return nil, rerr
			}
			// Only the amount changed since the read.
			return nil, conflictError("gift code changed", err)
		case c.failed(1):
			return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to execute redemption transaction: %w", err)
	}

	gift.Redemptions = append(gift.Redemptions, accountID)
	return gift, nil
}

// redemptionError returns why accountID cannot redeem gift, or nil.
func redemptionError(gift *models.GiftCode, accountID string) error {
	switch {
	case !gift.Active:
		return storage.ErrGiftCodeInactive
	case gift.Target != "" && gift.Target != accountID:
		return storage.ErrGiftCodeForbidden
	case gift.RedeemedBy(accountID):
		return storage.ErrAlreadyRedeemed
	}
	return nil
}
