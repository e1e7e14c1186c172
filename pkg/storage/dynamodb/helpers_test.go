package dynamodb

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/storage/dynamodb/mocks"
)

var testTables = Tables{
	Accounts:        "accounts",
	Listings:        "listings",
	SellerListings:  "seller_listings",
	Sales:           "sales",
	Commissions:     "commissions",
	GiftCodes:       "gift_codes",
	Transactions:    "transactions",
	Channels:        "channels",
	Messages:        "messages",
	PaymentCaptures: "payment_captures",
}

func newTestStore() (*Store, *mocks.DynamoDBAPI) {
	mockClient := new(mocks.DynamoDBAPI)
	return &Store{Client: mockClient, Tables: testTables}, mockClient
}

// canceled builds a TransactionCanceledException with one reason per item.
// A reason without a code stands for "None".
func canceled(reasons ...types.CancellationReason) error {
	for i := range reasons {
		if reasons[i].Code == nil {
			reasons[i].Code = aws.String("None")
		}
	}
	return &types.TransactionCanceledException{
		Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
		CancellationReasons: reasons,
	}
}

func none() types.CancellationReason {
	return types.CancellationReason{Code: aws.String("None")}
}

func conditionFailed(old interface{}) types.CancellationReason {
	reason := types.CancellationReason{Code: aws.String(reasonConditionalCheckFailed)}
	if old != nil {
		item, err := attributevalue.MarshalMap(old)
		if err != nil {
			panic(err)
		}
		reason.Item = item
	}
	return reason
}

func conflict() types.CancellationReason {
	return types.CancellationReason{Code: aws.String(reasonTransactionConflict)}
}

// nones returns n "None" reasons.
func nones(n int) []types.CancellationReason {
	reasons := make([]types.CancellationReason, n)
	for i := range reasons {
		reasons[i] = none()
	}
	return reasons
}
