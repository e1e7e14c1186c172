package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
)

// errPendingShortfall means the seller's pending balance no longer covers the sale.
var errPendingShortfall = errors.New("seller pending balance is below the sale amount")

// SettleSale releases a pending sale in one TransactWriteItems call.
//
// The sale update is the guard: it only applies while the sale is pending and
// its holding window has elapsed, so a duplicate or early delivery cannot
// move funds a second time. The transaction also moves the amount out of the
// seller's pending balance, credits both shares, writes the commission record
// and appends the payout and commission history rows.
func (s *Store) SettleSale(ctx context.Context, req storage.SettleRequest) error {
	sale := req.Sale
	if sale.Amount != req.SellerShare+req.PlatformShare {
		return fmt.Errorf("%w: shares %d+%d do not sum to %d", storage.ErrInvalidOperation, req.SellerShare, req.PlatformShare, sale.Amount)
	}
	for _, delta := range []int64{req.SellerShare, req.PlatformShare} {
		if err := balance.ValidateDelta(delta); err != nil {
			return fmt.Errorf("%w: %v", storage.ErrInvalidOperation, err)
		}
	}

	now := req.Now.UTC()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	platformID := req.PlatformAccountID
	status := models.CommissionCredited
	if platformID == "" {
		status = models.CommissionUnallocated
	}
	// A founder selling their own item receives both shares in one update.
	sellerCredit := req.SellerShare
	if platformID == sale.SellerId {
		sellerCredit = sale.Amount
	}

	commissionAV, err := attributevalue.MarshalMap(models.Commission{
		Id:                sale.Id,
		SaleId:            sale.Id,
		SellerId:          sale.SellerId,
		PlatformAccountId: platformID,
		Amount:            req.PlatformShare,
		SellerShare:       req.SellerShare,
		Status:            status,
		CreatedAt:         now,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal commission: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Close the sale if it is still pending and eligible.
			Update: &types.Update{
				TableName:           aws.String(s.Tables.Sales),
				Key:                 map[string]types.AttributeValue{"id": stringAV(sale.Id)},
				UpdateExpression:    aws.String("SET #status = :completed, released_at = :now, seller_share = :seller_share, platform_share = :platform_share"),
				ConditionExpression: aws.String("#status = :pending AND created_at <= :cutoff"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed":      stringAV(string(models.SaleCompleted)),
					":pending":        stringAV(string(models.SalePending)),
					":now":            nowAV,
					":cutoff":         numberAV(req.Cutoff.Unix()),
					":seller_share":   numberAV(req.SellerShare),
					":platform_share": numberAV(req.PlatformShare),
				},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		},
		{
			// Operation 2: Release the seller's share.
			Update: &types.Update{
				TableName:                aws.String(s.Tables.Accounts),
				Key:                      map[string]types.AttributeValue{"id": stringAV(sale.SellerId)},
				UpdateExpression:         aws.String("SET #balances.#pending = #balances.#pending - :amount, #balances.#available = #balances.#available + :credit"),
				ConditionExpression:      aws.String("#balances.#pending >= :amount"),
				ExpressionAttributeNames: balanceNames(),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":amount": numberAV(sale.Amount),
					":credit": numberAV(sellerCredit),
				},
			},
		},
	}

	platformIdx := -1
	if platformID != "" && platformID != sale.SellerId {
		platformIdx = len(items)
		items = append(items, types.TransactWriteItem{
			// Operation 3: Credit the platform share to the operator account.
			Update: &types.Update{
				TableName:                 aws.String(s.Tables.Accounts),
				Key:                       map[string]types.AttributeValue{"id": stringAV(platformID)},
				UpdateExpression:          aws.String("SET #balances.#available = #balances.#available + :share"),
				ConditionExpression:       aws.String("attribute_exists(id)"),
				ExpressionAttributeNames:  map[string]string{"#balances": "balances", "#available": "available"},
				ExpressionAttributeValues: map[string]types.AttributeValue{":share": numberAV(req.PlatformShare)},
			},
		})
	}

	commissionIdx := len(items)
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.Tables.Commissions),
			Item:                commissionAV,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	})

	commissionAccount := platformID
	if commissionAccount == "" {
		commissionAccount = models.UnallocatedAccountID
	}
	description := fmt.Sprintf("Settlement of %s", sale.ListingTitle)
	for _, entry := range []models.LedgerEntry{
		newEntry(sale.Id, sale.SellerId, models.EntrySalePayout, models.EntryCompleted, 0, req.SellerShare, description, now),
		newEntry(sale.Id, commissionAccount, models.EntryCommission, models.EntryCompleted, 0, req.PlatformShare, description, now),
	} {
		item, err := s.putEntry(entry)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return s.settlementError(err, sale, platformIdx, commissionIdx)
	}

	return nil
}

// settlementError maps a cancelled settlement to the storage error taxonomy.
func (s *Store) settlementError(err error, sale models.Sale, platformIdx, commissionIdx int) error {
	c, ok := asCancellation(err)
	if !ok {
		return fmt.Errorf("failed to execute settlement transaction: %w", err)
	}
	switch {
	case c.conflicted():
		return conflictError("settlement", err)
	case c.failed(0):
		old := c.old(0)
		if old == nil {
			return fmt.Errorf("sale %s: %w", sale.Id, storage.ErrNotFound)
		}
		var current models.Sale
		if uerr := attributevalue.UnmarshalMap(old, &current); uerr != nil {
			return fmt.Errorf("failed to unmarshal sale: %w", uerr)
		}
		if current.Status != models.SalePending {
			return fmt.Errorf("sale %s is %s: %w", sale.Id, current.Status, storage.ErrSettlementSkipped)
		}
		return fmt.Errorf("sale %s is not yet eligible: %w", sale.Id, storage.ErrSettlementSkipped)
	case c.failed(platformIdx):
		return storage.ErrMissingPlatformAccount
	case c.failed(commissionIdx):
		return fmt.Errorf("commission for sale %s already recorded: %w", sale.Id, storage.ErrSettlementSkipped)
	case c.failed(1):
		return fmt.Errorf("seller %s: %w", sale.SellerId, errPendingShortfall)
	}
	return fmt.Errorf("failed to execute settlement transaction: %w", err)
}
