package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/rotmarket/pkg/api"
	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/marketplace"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	notifymocks "github.com/chris/rotmarket/pkg/notify/mocks"
	"github.com/chris/rotmarket/pkg/payments"
	schedmocks "github.com/chris/rotmarket/pkg/scheduler/mocks"
	"github.com/chris/rotmarket/pkg/settlement"
	"github.com/chris/rotmarket/pkg/storage"
	storagemocks "github.com/chris/rotmarket/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	jwtSecret     = "0123456789abcdef0123456789abcdef"
	stripeSecret  = "whsec_test"
	runToken      = "run-token"
	testSaleID    = "3f0c9a2e-7b1d-4c55-9a8e-2d6f1b0c4e77"
	testListingID = "listing-1"
)

type fixture struct {
	store    *storagemocks.Storage
	sched    *schedmocks.Scheduler
	notifier *notifymocks.Dispatcher
	auth     *middleware.Authenticator
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    storagemocks.NewStorage(t),
		sched:    schedmocks.NewScheduler(t),
		notifier: notifymocks.NewDispatcher(t),
		auth:     middleware.NewAuthenticator(jwtSecret),
	}

	fees, err := balance.NewFeeSchedule(balance.DefaultSellerPct, nil)
	require.NoError(t, err)
	retry := storage.RetryPolicy{Attempts: 3}
	logger := zap.NewNop()

	services := Services{
		Accounts:  marketplace.NewAccountService(f.store),
		Listings:  marketplace.NewListingService(f.store),
		Purchases: marketplace.NewPurchaseService(f.store, fees, f.sched, f.notifier, retry, time.Minute, logger),
		Gifts:     marketplace.NewGiftService(f.store, f.notifier, retry, logger),
		Payments:  payments.NewService(f.store, map[string]string{"stripe": stripeSecret}, f.notifier, logger),
		Settler:   settlement.NewSettler(f.store, f.notifier, f.sched, settlement.Options{Holding: time.Minute, BatchSize: 50, Retry: retry}, logger),
	}
	f.router = NewRouter(NewApiHandler(f.store, services, logger), RouterOptions{
		Auth:            f.auth,
		SettlementToken: runToken,
		Logger:          logger,
	})
	return f
}

func (f *fixture) do(t *testing.T, method, path, accountID string, role models.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if accountID != "" {
		token, err := f.auth.IssueToken(accountID, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func TestAccounts(t *testing.T) {
	t.Run("Requires Token", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodGet, "/accounts/user-1", "", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
	})

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetAccount", mock.Anything, "user-1").
			Return(&models.Account{Id: "user-1", Role: models.RoleUser, Balances: models.Balances{Available: 40, Pending: 7}}, nil).Once()

		rr := f.do(t, http.MethodGet, "/accounts/user-1", "user-1", models.RoleUser, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var account api.Account
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &account))
		assert.Equal(t, int64(40), account.Balances.Available)
		assert.Equal(t, int64(7), account.Balances.Pending)
	})

	t.Run("Other Account Is Forbidden", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodGet, "/accounts/user-2", "user-1", models.RoleUser, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Moderator Can Read Any Account", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetAccount", mock.Anything, "user-2").Return(&models.Account{Id: "user-2", Role: models.RoleUser}, nil).Once()

		rr := f.do(t, http.MethodGet, "/accounts/user-2", "mod-1", models.RoleModerator, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Ensure Creates On First Call", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetAccount", mock.Anything, "user-1").Return(nil, storage.ErrNotFound).Once()
		f.store.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a *models.Account) bool {
			return a.Id == "user-1" && a.Name == "Ada" && a.Role == models.RoleUser
		})).Return(&models.Account{Id: "user-1", Name: "Ada", Role: models.RoleUser}, nil).Once()

		name := "Ada"
		rr := f.do(t, http.MethodPost, "/accounts", "user-1", models.RoleUser, api.NewAccount{Name: &name})
		assert.Equal(t, http.StatusCreated, rr.Code)
	})
}

func TestListings(t *testing.T) {
	listing := &models.Listing{Id: testListingID, Title: "Rare Sword", Price: 100, SellerId: "seller", Version: 1}

	t.Run("Get Is Public", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetListing", mock.Anything, testListingID).Return(listing, nil).Once()

		rr := f.do(t, http.MethodGet, "/listings/"+testListingID, "", "", nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var out api.Listing
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, "Rare Sword", out.Title)
	})

	t.Run("Create Paid Listing Needs Price", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodPost, "/listings", "seller", models.RoleUser, api.NewListing{Title: "Shield"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Purchase Success", func(t *testing.T) {
		f := newFixture(t)
		sale := &models.Sale{Id: testSaleID, SellerId: "seller", BuyerId: "buyer", ListingId: testListingID, Amount: 100, SellerPct: 70, Status: models.SalePending}

		f.store.On("GetListing", mock.Anything, testListingID).Return(listing, nil).Once()
		f.store.On("GetAccount", mock.Anything, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 150}}, nil).Once()
		f.store.On("GetAccount", mock.Anything, "seller").Return(&models.Account{Id: "seller", Role: models.RoleUser}, nil).Once()
		f.store.On("Purchase", mock.Anything, mock.AnythingOfType("storage.PurchaseRequest")).
			Return(&storage.PurchaseResult{ListingID: testListingID, SellerID: "seller", ChannelID: "buyer#seller", MessageID: "m-1", Sale: sale}, nil).Once()
		f.sched.On("ScheduleSettlement", mock.Anything, testSaleID, time.Minute).Return(nil).Once()
		f.notifier.On("Dispatch", mock.Anything, "seller", models.NoticeSaleCreated, mock.Anything).Return().Once()

		rr := f.do(t, http.MethodPost, "/listings/"+testListingID+"/purchase", "buyer", models.RoleUser, nil)

		require.Equal(t, http.StatusCreated, rr.Code)
		var out api.PurchaseResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		require.NotNil(t, out.Sale)
		assert.Equal(t, api.SaleStatusPending, out.Sale.Status)
		assert.Equal(t, "buyer#seller", out.ChannelId)
	})

	t.Run("Purchase Insufficient Funds", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetListing", mock.Anything, testListingID).Return(listing, nil).Once()
		f.store.On("GetAccount", mock.Anything, "buyer").Return(&models.Account{Id: "buyer", Balances: models.Balances{Available: 99}}, nil).Once()

		rr := f.do(t, http.MethodPost, "/listings/"+testListingID+"/purchase", "buyer", models.RoleUser, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("Purchase Sold Listing", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetListing", mock.Anything, testListingID).Return(nil, storage.ErrNotFound).Once()

		rr := f.do(t, http.MethodPost, "/listings/"+testListingID+"/purchase", "buyer", models.RoleUser, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestSales(t *testing.T) {
	sale := &models.Sale{Id: testSaleID, SellerId: "seller", BuyerId: "buyer", Amount: 10, Status: models.SalePending}

	t.Run("Seller Can Read", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetSale", mock.Anything, testSaleID).Return(sale, nil).Once()

		rr := f.do(t, http.MethodGet, "/sales/"+testSaleID, "seller", models.RoleUser, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Unrelated Caller Gets Not Found", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("GetSale", mock.Anything, testSaleID).Return(sale, nil).Once()

		rr := f.do(t, http.MethodGet, "/sales/"+testSaleID, "stranger", models.RoleUser, nil)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Malformed Id", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodGet, "/sales/not-a-uuid", "seller", models.RoleUser, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Global Ledger Needs Privilege", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodGet, "/ledger", "seller", models.RoleUser, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestGiftCodes(t *testing.T) {
	t.Run("Create Needs Privilege", func(t *testing.T) {
		f := newFixture(t)
		rr := f.do(t, http.MethodPost, "/gift-codes", "user-1", models.RoleUser, api.NewGiftCode{Code: "WELCOME", Amount: 50})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Redeem Success", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("RedeemGiftCode", mock.Anything, "user-1", "WELCOME").
			Return(&models.GiftCode{Code: "WELCOME", Amount: 50, Active: true, Redemptions: []string{"user-1"}}, nil).Once()
		f.notifier.On("Dispatch", mock.Anything, "user-1", models.NoticeGiftRedeemed, mock.Anything).Return().Once()

		rr := f.do(t, http.MethodPost, "/gift-codes/welcome/redeem", "user-1", models.RoleUser, nil)

		require.Equal(t, http.StatusOK, rr.Code)
		var out api.GiftCode
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, 1, out.RedemptionCount)
	})

	t.Run("Redeem Twice", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("RedeemGiftCode", mock.Anything, "user-1", "WELCOME").Return(nil, storage.ErrAlreadyRedeemed).Once()

		rr := f.do(t, http.MethodPost, "/gift-codes/WELCOME/redeem", "user-1", models.RoleUser, nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestCapturePayment(t *testing.T) {
	body := []byte(`{"reference":"pi_123","accountId":"user-1","credits":500}`)
	post := func(f *fixture, provider, signature string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payments/"+provider, bytes.NewReader(body))
		if signature != "" {
			req.Header.Set(payments.SignatureHeader, signature)
		}
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("CreditCapture", mock.Anything, mock.MatchedBy(func(c *models.PaymentCapture) bool {
			return c.Provider == "stripe" && c.Reference == "pi_123" && c.Credits == 500
		})).Return(true, nil).Once()
		f.notifier.On("Dispatch", mock.Anything, "user-1", models.NoticeCreditsArrived, mock.Anything).Return().Once()

		rr := post(f, "stripe", payments.SignatureFor(stripeSecret, body))

		require.Equal(t, http.StatusOK, rr.Code)
		var out api.CaptureResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.True(t, out.Credited)
	})

	t.Run("Missing Signature", func(t *testing.T) {
		f := newFixture(t)
		rr := post(f, "stripe", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Bad Signature", func(t *testing.T) {
		f := newFixture(t)
		rr := post(f, "stripe", payments.SignatureFor("wrong", body))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Unconfigured Provider", func(t *testing.T) {
		f := newFixture(t)
		rr := post(f, "paypal", payments.SignatureFor(stripeSecret, body))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRunSettlement(t *testing.T) {
	run := func(f *fixture, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/settlements/run", nil)
		if token != "" {
			req.Header.Set(middleware.SettlementTokenHeader, token)
		}
		rr := httptest.NewRecorder()
		f.router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("ListEligibleSales", mock.Anything, mock.AnythingOfType("time.Time"), int32(50)).Return([]models.Sale{}, nil).Once()

		rr := run(f, runToken)

		require.Equal(t, http.StatusOK, rr.Code)
		var out api.SettlementRun
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, 0, out.ProcessedCount)
	})

	t.Run("Wrong Token", func(t *testing.T) {
		f := newFixture(t)
		rr := run(f, "guess")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
