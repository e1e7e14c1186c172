package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/google/uuid"
)

// Purchase commits a purchase as one TransactWriteItems call.
//
// For a paid listing the transaction debits the buyer, credits the seller's
// pending balance, creates the pending sale and appends both history rows.
// For every listing it deletes the listing and its mirror, upserts the
// channel and posts the system message. The listing delete re-asserts the
// version the caller read, so two buyers racing for one listing cannot both
// commit.
func (s *Store) Purchase(ctx context.Context, req storage.PurchaseRequest) (*storage.PurchaseResult, error) {
	listing := req.Listing
	if err := balance.ValidateDelta(listing.Price); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrInvalidOperation, err)
	}

	now := req.Now.UTC()
	result := &storage.PurchaseResult{
		ListingID: listing.Id,
		SellerID:  listing.SellerId,
		ChannelID: models.ChannelID(req.BuyerID, listing.SellerId),
		MessageID: uuid.New().String(),
	}

	var items []types.TransactWriteItem
	buyerIdx, sellerIdx := -1, -1

	if !listing.Free {
		sale := &models.Sale{
			Id:           uuid.New().String(),
			SellerId:     listing.SellerId,
			BuyerId:      req.BuyerID,
			ListingId:    listing.Id,
			ListingTitle: listing.Title,
			Amount:       listing.Price,
			SellerPct:    req.SellerPct,
			Status:       models.SalePending,
			CreatedAt:    now,
		}
		saleAV, err := attributevalue.MarshalMap(sale)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sale: %w", err)
		}
		priceAV := numberAV(listing.Price)

		buyerIdx = len(items)
		items = append(items, types.TransactWriteItem{
			// Debit the buyer.
			Update: &types.Update{
				TableName:                           aws.String(s.Tables.Accounts),
				Key:                                 map[string]types.AttributeValue{"id": stringAV(req.BuyerID)},
				UpdateExpression:                    aws.String("SET #balances.#available = #balances.#available - :price"),
				ConditionExpression:                 aws.String("attribute_exists(id) AND #balances.#available >= :price"),
				ExpressionAttributeNames:            map[string]string{"#balances": "balances", "#available": "available"},
				ExpressionAttributeValues:           map[string]types.AttributeValue{":price": priceAV},
				ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
			},
		})

		sellerIdx = len(items)
		items = append(items, types.TransactWriteItem{
			// Hold the price in the seller's pending balance.
			Update: &types.Update{
				TableName:                 aws.String(s.Tables.Accounts),
				Key:                       map[string]types.AttributeValue{"id": stringAV(listing.SellerId)},
				UpdateExpression:          aws.String("SET #balances.#pending = #balances.#pending + :price"),
				ConditionExpression:       aws.String("attribute_exists(id)"),
				ExpressionAttributeNames:  map[string]string{"#balances": "balances", "#pending": "pending"},
				ExpressionAttributeValues: map[string]types.AttributeValue{":price": priceAV},
			},
		})

		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.Tables.Sales),
				Item:                saleAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		})

		description := fmt.Sprintf("Purchase of %s", listing.Title)
		for _, entry := range []models.LedgerEntry{
			newEntry(sale.Id, req.BuyerID, models.EntryPurchase, models.EntryCompleted, listing.Price, 0, description, now),
			newEntry(sale.Id, listing.SellerId, models.EntrySalePending, models.EntryPending, 0, listing.Price, description, now),
		} {
			item, err := s.putEntry(entry)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		result.Sale = sale
	}

	listingIdx := len(items)
	items = append(items, types.TransactWriteItem{
		// Remove the listing only if nobody changed or sold it since it was read.
		Delete: &types.Delete{
			TableName:                           aws.String(s.Tables.Listings),
			Key:                                 map[string]types.AttributeValue{"id": stringAV(listing.Id)},
			ConditionExpression:                 aws.String("attribute_exists(id) AND version = :version"),
			ExpressionAttributeValues:           map[string]types.AttributeValue{":version": numberAV(listing.Version)},
			ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
		},
	})

	items = append(items, types.TransactWriteItem{
		Delete: &types.Delete{
			TableName: aws.String(s.Tables.SellerListings),
			Key: map[string]types.AttributeValue{
				"seller_id":  stringAV(listing.SellerId),
				"listing_id": stringAV(listing.Id),
			},
		},
	})

	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	items = append(items, types.TransactWriteItem{
		// Create the channel or reuse the existing one for this pair.
		Update: &types.Update{
			TableName:        aws.String(s.Tables.Channels),
			Key:              map[string]types.AttributeValue{"id": stringAV(result.ChannelID)},
			UpdateExpression: aws.String("SET last_listing_id = :listing, updated_at = :now ADD participants :pair"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":listing": stringAV(listing.Id),
				":now":     nowAV,
				":pair":    &types.AttributeValueMemberSS{Value: []string{req.BuyerID, listing.SellerId}},
			},
		},
	})

	messageAV, err := attributevalue.MarshalMap(models.Message{
		Id:        result.MessageID,
		ChannelId: result.ChannelID,
		SenderId:  models.SystemSenderID,
		Body:      purchaseNotice(listing),
		CreatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(s.Tables.Messages),
			Item:                messageAV,
			ConditionExpression: aws.String("attribute_not_exists(id)"),
		},
	})

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return nil, s.purchaseError(err, req, buyerIdx, sellerIdx, listingIdx)
	}

	return result, nil
}

// purchaseError maps a cancelled purchase to the storage error taxonomy.
func (s *Store) purchaseError(err error, req storage.PurchaseRequest, buyerIdx, sellerIdx, listingIdx int) error {
	c, ok := asCancellation(err)
	if !ok {
		return fmt.Errorf("failed to execute purchase transaction: %w", err)
	}
	switch {
	case c.conflicted():
		return conflictError("purchase", err)
	case c.failed(listingIdx):
		if c.old(listingIdx) == nil {
			return fmt.Errorf("listing %s: %w", req.Listing.Id, storage.ErrListingUnavailable)
		}
		// The listing still exists but its version moved on.
		return conflictError("listing changed", err)
	case c.failed(buyerIdx):
		if c.old(buyerIdx) == nil {
			return fmt.Errorf("buyer %s: %w", req.BuyerID, storage.ErrNotFound)
		}
		return storage.ErrInsufficientFunds
	case c.failed(sellerIdx):
		return fmt.Errorf("seller %s: %w", req.Listing.SellerId, storage.ErrNotFound)
	}
	return fmt.Errorf("failed to execute purchase transaction: %w", err)
}

func purchaseNotice(listing models.Listing) string {
	if listing.Free {
		return fmt.Sprintf("%s was claimed for free.", listing.Title)
	}
	return fmt.Sprintf("%s was purchased for %d RotCoins. Funds are held until the sale settles.", listing.Title, listing.Price)
}
