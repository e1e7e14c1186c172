package models

import (
	"sort"
	"strings"
	"time"
)

// Role is an account's privilege tier. It drives the fee lookup and the
// operator account lookup.
type Role string

const (
	RoleUser      Role = "user"
	RoleVerified  Role = "verified"
	RoleHelper    Role = "helper"
	RoleModerator Role = "moderator"
	RoleFounder   Role = "founder"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVerified, RoleHelper, RoleModerator, RoleFounder:
		return true
	}
	return false
}

// Privileged reports whether r may manage gift codes.
func (r Role) Privileged() bool {
	return r == RoleModerator || r == RoleFounder
}

// SaleStatus defines the possible states of a sale record.
type SaleStatus string

const (
	SalePending   SaleStatus = "pending"
	SaleCompleted SaleStatus = "completed"
)

// CommissionStatus records whether the platform share reached an operator account.
type CommissionStatus string

const (
	CommissionCredited    CommissionStatus = "credited"
	CommissionUnallocated CommissionStatus = "unallocated"
)

// UnallocatedAccountID is the history account used for commission that had no
// operator account to land in.
const UnallocatedAccountID = "unallocated-commission"

// SystemSenderID is the sender of system notices posted to channels.
const SystemSenderID = "system"

// Balances holds the two credit buckets of an account.
type Balances struct {
	Available int64 `json:"available" dynamodbav:"available"`
	Pending   int64 `json:"pending" dynamodbav:"pending"`
}

// Account represents a marketplace user.
type Account struct {
	Id            string    `json:"id" dynamodbav:"id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Role          Role      `json:"role" dynamodbav:"role"`
	Balances      Balances  `json:"balances" dynamodbav:"balances"`
	Notifications []Notice  `json:"notifications,omitempty" dynamodbav:"notifications,omitempty"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Listing is an item offered for sale. It is deleted when purchased.
type Listing struct {
	Id        string    `dynamodbav:"id"`
	Title     string    `dynamodbav:"title"`
	Price     int64     `dynamodbav:"price"`
	Free      bool      `dynamodbav:"free"`
	SellerId  string    `dynamodbav:"seller_id"`
	Version   int64     `dynamodbav:"version"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// SellerListing is the per-seller mirror of a listing.
type SellerListing struct {
	SellerId  string `dynamodbav:"seller_id"`
	ListingId string `dynamodbav:"listing_id"`
	Title     string `dynamodbav:"title"`
	Price     int64  `dynamodbav:"price"`
	Free      bool   `dynamodbav:"free"`
}

// Sale is the escrow record created by a paid purchase.
// CreatedAt is stored as unix seconds so the holding window can be compared numerically.
type Sale struct {
	Id            string     `dynamodbav:"id"`
	SellerId      string     `dynamodbav:"seller_id"`
	BuyerId       string     `dynamodbav:"buyer_id"`
	ListingId     string     `dynamodbav:"listing_id"`
	ListingTitle  string     `dynamodbav:"listing_title"`
	Amount        int64      `dynamodbav:"amount"`
	SellerPct     int64      `dynamodbav:"seller_pct"`
	Status        SaleStatus `dynamodbav:"status"`
	SellerShare   int64      `dynamodbav:"seller_share,omitempty"`
	PlatformShare int64      `dynamodbav:"platform_share,omitempty"`
	CreatedAt     time.Time  `dynamodbav:"created_at,unixtime"`
	ReleasedAt    *time.Time `dynamodbav:"released_at,omitempty"`
}

// EligibleAt returns the earliest time the sale may be released.
func (s *Sale) EligibleAt(holding time.Duration) time.Time {
	return s.CreatedAt.Add(holding)
}

// Commission credits the platform share of one settled sale.
type Commission struct {
	Id                string           `dynamodbav:"id"`
	SaleId            string           `dynamodbav:"sale_id"`
	SellerId          string           `dynamodbav:"seller_id"`
	PlatformAccountId string           `dynamodbav:"platform_account_id,omitempty"`
	Amount            int64            `dynamodbav:"amount"`
	SellerShare       int64            `dynamodbav:"seller_share"`
	Status            CommissionStatus `dynamodbav:"status"`
	CreatedAt         time.Time        `dynamodbav:"created_at"`
}

// GiftCode grants a fixed amount of credits once per account.
type GiftCode struct {
	Code        string    `json:"code" dynamodbav:"code"`
	Amount      int64     `json:"amount" dynamodbav:"amount"`
	Active      bool      `json:"active" dynamodbav:"active"`
	Target      string    `json:"target,omitempty" dynamodbav:"target,omitempty"`
	Redemptions []string  `json:"redemptions,omitempty" dynamodbav:"redemptions,stringset,omitempty"`
	CreatedBy   string    `json:"created_by" dynamodbav:"created_by"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

// RedeemedBy reports whether accountID already redeemed the code.
func (g *GiftCode) RedeemedBy(accountID string) bool {
	for _, id := range g.Redemptions {
		if id == accountID {
			return true
		}
	}
	return false
}

// EntryType classifies a history row.
type EntryType string

const (
	EntryPurchase       EntryType = "purchase"
	EntrySalePending    EntryType = "sale_pending"
	EntrySalePayout     EntryType = "sale_payout"
	EntryCommission     EntryType = "commission"
	EntryGiftRedemption EntryType = "gift_redemption"
	EntryPaymentCapture EntryType = "payment_capture"
)

// EntryStatus tells the user whether a history row is final.
type EntryStatus string

const (
	EntryPending   EntryStatus = "pending"
	EntryCompleted EntryStatus = "completed"
)

// LedgerEntry is one row of the append-only transaction history.
type LedgerEntry struct {
	EntryID     string      `dynamodbav:"entry_id"`
	ReferenceID string      `dynamodbav:"reference_id"`
	AccountID   string      `dynamodbav:"account_id"`
	Type        EntryType   `dynamodbav:"type"`
	Status      EntryStatus `dynamodbav:"status"`
	Debit       int64       `dynamodbav:"debit,omitempty"`
	Credit      int64       `dynamodbav:"credit,omitempty"`
	Description string      `dynamodbav:"description"`
	Timestamp   time.Time   `dynamodbav:"timestamp"`
	GSI1PK      string      `dynamodbav:"gsi1pk"`
}

// Channel is the conversation between a buyer and a seller.
type Channel struct {
	Id            string    `dynamodbav:"id"`
	Participants  []string  `dynamodbav:"participants,stringset"`
	LastListingId string    `dynamodbav:"last_listing_id"`
	UpdatedAt     time.Time `dynamodbav:"updated_at"`
}

// ChannelID returns the channel key for two participants. The pair is sorted so
// both orderings address the same channel.
func ChannelID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "#")
}

// Message is a chat message posted to a channel.
type Message struct {
	Id        string    `dynamodbav:"id"`
	ChannelId string    `dynamodbav:"channel_id"`
	SenderId  string    `dynamodbav:"sender_id"`
	Body      string    `dynamodbav:"body"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// NoticeType identifies a notification payload.
type NoticeType string

const (
	NoticeSaleCreated    NoticeType = "sale_created"
	NoticeSaleSettled    NoticeType = "sale_settled"
	NoticeGiftRedeemed   NoticeType = "gift_redeemed"
	NoticeCreditsArrived NoticeType = "credits_arrived"
)

// Notice is a best-effort notification appended to the recipient's account.
type Notice struct {
	Id          string            `json:"id" dynamodbav:"id"`
	Type        NoticeType        `json:"type" dynamodbav:"type"`
	RecipientId string            `json:"recipient_id" dynamodbav:"recipient_id"`
	Payload     map[string]string `json:"payload,omitempty" dynamodbav:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at" dynamodbav:"created_at"`
}

// PaymentCapture records a credited provider payment so webhooks are applied once.
// Id is "<provider>:<reference>".
type PaymentCapture struct {
	Id        string    `dynamodbav:"id"`
	Reference string    `dynamodbav:"reference"`
	Provider  string    `dynamodbav:"provider"`
	AccountId string    `dynamodbav:"account_id"`
	Credits   int64     `dynamodbav:"credits"`
	CreatedAt time.Time `dynamodbav:"created_at"`
}

// CaptureID returns the key of a provider capture.
func CaptureID(provider, reference string) string {
	return provider + ":" + reference
}
