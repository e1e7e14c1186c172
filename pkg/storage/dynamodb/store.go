package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/rotmarket/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
//
//go:generate go tool mockery --name=DynamoDBAPI --output=mocks --outpkg=mocks
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Tables holds the table names used by the Store.
type Tables struct {
	Accounts        string
	Listings        string
	SellerListings  string
	Sales           string
	Commissions     string
	GiftCodes       string
	Transactions    string
	Channels        string
	Messages        string
	PaymentCaptures string
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client DynamoDBAPI
	Tables Tables
}

// New creates a new Store.
func New(client DynamoDBAPI, tables Tables) *Store {
	return &Store{
		Client: client,
		Tables: tables,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	roleIndex          = "role-index"
	saleStatusIndex    = "status-created_at-index"
	saleSellerIndex    = "seller_id-index"
	ledgerAccountIndex = "account_id-timestamp-index"
	ledgerIndex        = "gsi1pk-timestamp-index"

	ledgerPartition = "LEDGER_ENTRIES"
)

// balanceNames are the expression attribute names for the nested balance buckets.
func balanceNames() map[string]string {
	return map[string]string{
		"#balances":  "balances",
		"#available": "available",
		"#pending":   "pending",
	}
}
