package dynamodb

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func giftItem(t *testing.T, gift models.GiftCode) *dynamodb.GetItemOutput {
	t.Helper()
	item, err := attributevalue.MarshalMap(gift)
	require.NoError(t, err)
	return &dynamodb.GetItemOutput{Item: item}
}

func TestRedeemGiftCode(t *testing.T) {
	gift := models.GiftCode{Code: "RIZZ100", Amount: 100, Active: true, CreatedBy: "mod"}

	t.Run("Success", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(giftItem(t, gift), nil).Once()

		var input *dynamodb.TransactWriteItemsInput
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { input = args.Get(1).(*dynamodb.TransactWriteItemsInput) }).
			Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		redeemed, err := store.RedeemGiftCode(context.Background(), "acct-1", "RIZZ100")

		require.NoError(t, err)
		assert.True(t, redeemed.RedeemedBy("acct-1"))
		require.Len(t, input.TransactItems, 3)

		code := input.TransactItems[0].Update
		assert.Equal(t, "ADD redemptions :account_set", aws.ToString(code.UpdateExpression))
		assert.Contains(t, aws.ToString(code.ConditionExpression), "NOT contains(redemptions, :account)")
		assert.Equal(t, &types.AttributeValueMemberSS{Value: []string{"acct-1"}}, code.ExpressionAttributeValues[":account_set"])

		account := input.TransactItems[1].Update
		assert.Equal(t, "SET #balances.#available = #balances.#available + :amount", aws.ToString(account.UpdateExpression))
		assert.Equal(t, &types.AttributeValueMemberN{Value: "100"}, account.ExpressionAttributeValues[":amount"])
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()

		_, err := store.RedeemGiftCode(context.Background(), "acct-1", "NOPE")

		assert.ErrorIs(t, err, storage.ErrGiftCodeNotFound)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Rejected Before Write", func(t *testing.T) {
		cases := []struct {
			name string
			gift models.GiftCode
			want error
		}{
			{"Inactive", models.GiftCode{Code: "X", Amount: 5, Active: false}, storage.ErrGiftCodeInactive},
			{"Forbidden", models.GiftCode{Code: "X", Amount: 5, Active: true, Target: "someone-else"}, storage.ErrGiftCodeForbidden},
			{"Already Redeemed", models.GiftCode{Code: "X", Amount: 5, Active: true, Redemptions: []string{"acct-1"}}, storage.ErrAlreadyRedeemed},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				store, mockClient := newTestStore()
				mockClient.On("GetItem", mock.Anything, mock.Anything).Return(giftItem(t, tc.gift), nil).Once()

				_, err := store.RedeemGiftCode(context.Background(), "acct-1", "X")

				assert.ErrorIs(t, err, tc.want)
				assert.ErrorIs(t, err, storage.ErrRedemptionConflict)
				mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("Concurrent Redemption Classified From Old Item", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(giftItem(t, gift), nil).Once()

		raced := gift
		raced.Redemptions = []string{"acct-1"}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled(conditionFailed(raced), none(), none())).Once()

		_, err := store.RedeemGiftCode(context.Background(), "acct-1", "RIZZ100")

		assert.ErrorIs(t, err, storage.ErrAlreadyRedeemed)
		mockClient.AssertExpectations(t)
	})

	t.Run("Code Deleted During Redemption", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(giftItem(t, gift), nil).Once()
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled(conditionFailed(nil), none(), none())).Once()

		_, err := store.RedeemGiftCode(context.Background(), "acct-1", "RIZZ100")

		assert.ErrorIs(t, err, storage.ErrGiftCodeNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Amount Changed", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(giftItem(t, gift), nil).Once()

		changed := gift
		changed.Amount = 200
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, canceled(conditionFailed(changed), none(), none())).Once()

		_, err := store.RedeemGiftCode(context.Background(), "acct-1", "RIZZ100")

		assert.ErrorIs(t, err, storage.ErrTransactionConflict)
		mockClient.AssertExpectations(t)
	})
}

func TestCreateGiftCode(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("PutItem", mock.Anything, mock.AnythingOfType("*dynamodb.PutItemInput")).Return(&dynamodb.PutItemOutput{}, nil).Once()

		created, err := store.CreateGiftCode(context.Background(), &models.GiftCode{Code: "NEW", Amount: 10, CreatedBy: "mod"})

		require.NoError(t, err)
		assert.True(t, created.Active)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate", func(t *testing.T) {
		store, mockClient := newTestStore()
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{}).Once()

		_, err := store.CreateGiftCode(context.Background(), &models.GiftCode{Code: "NEW", Amount: 10})

		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
		mockClient.AssertExpectations(t)
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		store, mockClient := newTestStore()

		_, err := store.CreateGiftCode(context.Background(), &models.GiftCode{Code: "NEW", Amount: 0})

		assert.ErrorIs(t, err, storage.ErrInvalidOperation)
		mockClient.AssertNotCalled(t, "PutItem", mock.Anything, mock.Anything)
	})
}
