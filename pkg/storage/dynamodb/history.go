package dynamodb

import (
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/google/uuid"
)

// newEntry builds a history row. Exactly one of debit and credit is non-zero.
func newEntry(referenceID, accountID string, entryType models.EntryType, status models.EntryStatus, debit, credit int64, description string, now time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     uuid.New().String(),
		ReferenceID: referenceID,
		AccountID:   accountID,
		Type:        entryType,
		Status:      status,
		Debit:       debit,
		Credit:      credit,
		Description: description,
		Timestamp:   now,
		GSI1PK:      ledgerPartition,
	}
}

// putEntry returns the transaction item that appends entry to the history table.
func (s *Store) putEntry(entry models.LedgerEntry) (types.TransactWriteItem, error) {
	av, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return types.TransactWriteItem{}, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}
	return types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.Tables.Transactions),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		},
	}, nil
}

func numberAV(n int64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", n)}
}

func stringAV(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}
