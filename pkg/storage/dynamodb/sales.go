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
)

// GetSale retrieves a sale with a strongly consistent read.
func (s *Store) GetSale(ctx context.Context, saleID string) (*models.Sale, error) {
	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.Tables.Sales),
		Key:            map[string]types.AttributeValue{"id": stringAV(saleID)},
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("sale %s: %w", saleID, storage.ErrNotFound)
	}

	var sale models.Sale
	if err := attributevalue.UnmarshalMap(result.Item, &sale); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sale: %w", err)
	}

	return &sale, nil
}

// ListSalesBySeller returns every sale of a seller, newest first.
func (s *Store) ListSalesBySeller(ctx context.Context, sellerID string) ([]models.Sale, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Sales),
		IndexName:              aws.String(saleSellerIndex),
		KeyConditionExpression: aws.String("seller_id = :seller"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":seller": stringAV(sellerID),
		},
		ScanIndexForward: aws.Bool(false),
	}

	var sales []models.Sale
	paginator := dynamodb.NewQueryPaginator(s.Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query sales by seller: %w", err)
		}
		var batch []models.Sale
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sales: %w", err)
		}
		sales = append(sales, batch...)
	}

	return sales, nil
}

// ListEligibleSales returns up to limit pending sales created at or before cutoff, oldest first.
// created_at is the range key of the index, so the cutoff is part of the key condition.
func (s *Store) ListEligibleSales(ctx context.Context, cutoff time.Time, limit int32) ([]models.Sale, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.Tables.Sales),
		IndexName:              aws.String(saleStatusIndex),
		KeyConditionExpression: aws.String("#status = :pending AND created_at <= :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pending": stringAV(string(models.SalePending)),
			":cutoff":  numberAV(cutoff.Unix()),
		},
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for eligible sales: %w", err)
	}

	var sales []models.Sale
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &sales); err != nil {
		return nil, fmt.Errorf("failed to unmarshal eligible sales: %w", err)
	}

	return sales, nil
}
