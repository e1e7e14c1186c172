package mapping

import (
	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/payments"
	"github.com/chris/rotmarket/pkg/settlement"
	"github.com/chris/rotmarket/pkg/storage"
)

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(account *models.Account) *api.Account {
	return &api.Account{
		Id:        account.Id,
		Name:      account.Name,
		Role:      api.AccountRole(account.Role),
		Balances:  api.Balances{Available: account.Balances.Available, Pending: account.Balances.Pending},
		CreatedAt: account.CreatedAt,
	}
}

// ToApiListing converts a domain Listing model to an API Listing model.
func ToApiListing(listing *models.Listing) *api.Listing {
	return &api.Listing{
		Id:        listing.Id,
		Title:     listing.Title,
		Price:     listing.Price,
		Free:      listing.Free,
		SellerId:  listing.SellerId,
		Version:   listing.Version,
		CreatedAt: listing.CreatedAt,
	}
}

func ToApiSellerListing(listing *models.SellerListing) *api.SellerListing {
	return &api.SellerListing{
		ListingId: listing.ListingId,
		Title:     listing.Title,
		Price:     listing.Price,
		Free:      listing.Free,
	}
}

// ToApiSale converts a domain Sale model to an API Sale model.
// Shares are only reported once the sale is completed.
func ToApiSale(sale *models.Sale) *api.Sale {
	out := &api.Sale{
		Id:           sale.Id,
		SellerId:     sale.SellerId,
		BuyerId:      sale.BuyerId,
		ListingId:    sale.ListingId,
		ListingTitle: sale.ListingTitle,
		Amount:       sale.Amount,
		SellerPct:    sale.SellerPct,
		Status:       api.SaleStatus(sale.Status),
		CreatedAt:    sale.CreatedAt,
		ReleasedAt:   sale.ReleasedAt,
	}
	if sale.Status == models.SaleCompleted {
		sellerShare, platformShare := sale.SellerShare, sale.PlatformShare
		out.SellerShare = &sellerShare
		out.PlatformShare = &platformShare
	}
	return out
}

// ToApiPurchase converts a committed purchase to the API response.
func ToApiPurchase(result *storage.PurchaseResult) *api.PurchaseResult {
	out := &api.PurchaseResult{
		ListingId: result.ListingID,
		ChannelId: result.ChannelID,
		MessageId: result.MessageID,
	}
	if result.Sale != nil {
		out.Sale = ToApiSale(result.Sale)
	}
	return out
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		EntryId:     entry.EntryID,
		ReferenceId: entry.ReferenceID,
		AccountId:   entry.AccountID,
		Type:        string(entry.Type),
		Status:      api.LedgerEntryStatus(entry.Status),
		Description: entry.Description,
		Timestamp:   entry.Timestamp,
	}
	if entry.Debit != 0 {
		debit := entry.Debit
		out.Debit = &debit
	}
	if entry.Credit != 0 {
		credit := entry.Credit
		out.Credit = &credit
	}
	return out
}

// ToApiGiftCode converts a domain GiftCode model to an API GiftCode model.
// The redeeming account ids are not exposed, only their count.
func ToApiGiftCode(code *models.GiftCode) *api.GiftCode {
	out := &api.GiftCode{
		Code:            code.Code,
		Amount:          code.Amount,
		Active:          code.Active,
		CreatedBy:       code.CreatedBy,
		CreatedAt:       code.CreatedAt,
		RedemptionCount: len(code.Redemptions),
	}
	if code.Target != "" {
		target := code.Target
		out.Target = &target
	}
	return out
}

func ToApiCaptureResult(result *payments.CaptureResult) *api.CaptureResult {
	return &api.CaptureResult{
		Provider:  result.Provider,
		Reference: result.Reference,
		AccountId: result.AccountID,
		Credits:   result.Credits,
		Credited:  result.Credited,
	}
}

func ToApiSettlementRun(result *settlement.SweepResult) *api.SettlementRun {
	return &api.SettlementRun{
		ProcessedCount: result.ProcessedCount,
		Skipped:        result.Skipped,
		Failed:         result.Failed,
	}
}
