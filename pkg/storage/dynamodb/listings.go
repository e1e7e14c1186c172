package dynamodb

import (
	"context"
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

// CreateListing writes the canonical listing and the seller's mirror row in one transaction.
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) (*models.Listing, error) {
	listing.Id = uuid.New().String()
	listing.Version = 1
	listing.CreatedAt = time.Now().UTC()
	if listing.Free {
		listing.Price = 0
	}

	listingAV, err := attributevalue.MarshalMap(listing)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing: %w", err)
	}
	mirrorAV, err := attributevalue.MarshalMap(models.SellerListing{
		SellerId:  listing.SellerId,
		ListingId: listing.Id,
		Title:     listing.Title,
		Price:     listing.Price,
		Free:      listing.Free,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seller listing: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: The seller must exist.
				ConditionCheck: &types.ConditionCheck{
					TableName:           aws.String(s.Tables.Accounts),
					Key:                 map[string]types.AttributeValue{"id": stringAV(listing.SellerId)},
					ConditionExpression: aws.String("attribute_exists(id)"),
				},
			},
			{
				// Operation 2: The canonical listing.
				Put: &types.Put{
					TableName:           aws.String(s.Tables.Listings),
					Item:                listingAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 3: The per-seller mirror.
				Put: &types.Put{
					TableName: aws.String(s.Tables.SellerListings),
					Item:      mirrorAV,
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if c, ok := asCancellation(err); ok {
			if c.conflicted() {
				return nil, conflictError("failed to create listing", err)
			}
			if c.failed(0) {
				return nil, fmt.Errorf("seller %s: %w", listing.SellerId, storage.ErrNotFound)
			}
		}
		return nil, fmt.Errorf("failed to execute create listing transaction: %w", err)
	}

	return listing, nil
}

// GetListing retrieves a listing with a strongly consistent read.
func (s *Store) GetListing(ctx context.Context, listingID string) (*models.Listing, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Listings),
		Key:            map[string]types.AttributeValue{"id": stringAV(listingID)},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get listing from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("listing %s: %w", listingID, storage.ErrNotFound)
	}

	var listing models.Listing
	if err := attributevalue.UnmarshalMap(result.Item, &listing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listing: %w", err)
	}

	return &listing, nil
}

// ListListingsBySeller returns the seller's mirror rows.
func (s *Store) ListListingsBySeller(ctx context.Context, sellerID string) ([]models.SellerListing, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.SellerListings),
		KeyConditionExpression: aws.String("seller_id = :seller"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":seller": stringAV(sellerID),
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query seller listings: %w", err)
	}

	var listings []models.SellerListing
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &listings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seller listings: %w", err)
	}

	return listings, nil
}
