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
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/google/uuid"
)

// CreateAccount creates a new account record with zero balances.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.Id == "" {
		account.Id = uuid.New().String()
	}
	if account.Role == "" {
		account.Role = models.RoleUser
	}
	account.Balances = models.Balances{}
	account.Notifications = nil
	account.CreatedAt = time.Now().UTC()

	accountAV, err := attributevalue.MarshalMap(account)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.Tables.Accounts),
		Item:                accountAV,
		ConditionExpression: aws.String("attribute_not_exists(id)"), // Prevent overwriting existing balances.
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, fmt.Errorf("account %s: %w", account.Id, storage.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to create account in DynamoDB: %w", err)
	}

	return account, nil
}

// GetAccount retrieves an account with a strongly consistent read.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Accounts),
		Key:            map[string]types.AttributeValue{"id": stringAV(accountID)},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("account %s: %w", accountID, storage.ErrNotFound)
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &account, nil
}

// ListAccountsByRole returns the accounts holding role, ordered by id.
func (s *Store) ListAccountsByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Accounts),
		IndexName:              aws.String(roleIndex),
		KeyConditionExpression: aws.String("#role = :role"),
		ExpressionAttributeNames: map[string]string{
			"#role": "role",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":role": stringAV(string(role)),
		},
		ScanIndexForward: aws.Bool(true),
	}

	var accounts []models.Account
	paginator := dynamodb.NewQueryPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query accounts by role: %w", err)
		}
		var batch []models.Account
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		accounts = append(accounts, batch...)
	}

	return accounts, nil
}
