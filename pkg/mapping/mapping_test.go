package mapping

import (
	"testing"
	"time"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiSale(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Pending Hides Shares", func(t *testing.T) {
		out := ToApiSale(&models.Sale{Id: "s-1", Amount: 10, SellerPct: 70, Status: models.SalePending, CreatedAt: created})
		assert.Equal(t, api.SaleStatusPending, out.Status)
		assert.Nil(t, out.SellerShare)
		assert.Nil(t, out.PlatformShare)
	})

	t.Run("Completed Reports Shares", func(t *testing.T) {
		released := created.Add(time.Minute)
		out := ToApiSale(&models.Sale{Id: "s-1", Amount: 10, Status: models.SaleCompleted, SellerShare: 7, PlatformShare: 3, ReleasedAt: &released})
		require.NotNil(t, out.SellerShare)
		require.NotNil(t, out.PlatformShare)
		assert.Equal(t, int64(7), *out.SellerShare)
		assert.Equal(t, int64(3), *out.PlatformShare)
		assert.Equal(t, &released, out.ReleasedAt)
	})
}

func TestToApiPurchase(t *testing.T) {
	t.Run("Free Listing Has No Sale", func(t *testing.T) {
		out := ToApiPurchase(&storage.PurchaseResult{ListingID: "l-1", ChannelID: "a#b", MessageID: "m-1"})
		assert.Nil(t, out.Sale)
		assert.Equal(t, "a#b", out.ChannelId)
	})
}

func TestToApiGiftCode(t *testing.T) {
	out := ToApiGiftCode(&models.GiftCode{Code: "WELCOME", Amount: 50, Active: true, Redemptions: []string{"a", "b"}})
	assert.Equal(t, 2, out.RedemptionCount)
	assert.Nil(t, out.Target)

	out = ToApiGiftCode(&models.GiftCode{Code: "VIP", Target: "user-1"})
	require.NotNil(t, out.Target)
	assert.Equal(t, "user-1", *out.Target)
}

func TestToApiLedgerEntry(t *testing.T) {
	out := ToApiLedgerEntry(&models.LedgerEntry{EntryID: "e-1", Type: models.EntryPurchase, Status: models.EntryCompleted, Debit: 10})
	require.NotNil(t, out.Debit)
	assert.Equal(t, int64(10), *out.Debit)
	assert.Nil(t, out.Credit)
	assert.Equal(t, "purchase", out.Type)
}
