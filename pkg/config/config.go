package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/chris/rotmarket/pkg/balance"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/chris/rotmarket/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	Port                string
	Tables              dynamodb.Tables
	SettlementQueueURL  string
	HoldingWindow       time.Duration
	SweepBatchSize      int32
	DefaultSellerPct    int64
	FeeOverrides        map[models.Role]int64
	PlatformAccountID   string
	RetryAttempts       int
	JWTSecret           string
	WebhookSecrets      map[string]string
	SettlementToken     string
	RedisURL            string
	IdempotencyTTL      time.Duration
	LogLevel            string
	RateLimitRPS        int
	CORSAllowedOrigins  []string
	NotificationWorkers int
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "port", "PORT")
	bindEnv(v, "accounts_table", "ACCOUNTS_TABLE_NAME")
	bindEnv(v, "listings_table", "LISTINGS_TABLE_NAME")
	bindEnv(v, "seller_listings_table", "SELLER_LISTINGS_TABLE_NAME")
	bindEnv(v, "sales_table", "SALES_TABLE_NAME")
	bindEnv(v, "commissions_table", "COMMISSIONS_TABLE_NAME")
	bindEnv(v, "gift_codes_table", "GIFT_CODES_TABLE_NAME")
	bindEnv(v, "transactions_table", "TRANSACTIONS_TABLE_NAME", "LEDGER_TABLE_NAME")
	bindEnv(v, "channels_table", "CHANNELS_TABLE_NAME")
	bindEnv(v, "messages_table", "MESSAGES_TABLE_NAME")
	bindEnv(v, "payment_captures_table", "PAYMENT_CAPTURES_TABLE_NAME")
	bindEnv(v, "settlement_queue_url", "SETTLEMENT_QUEUE_URL", "SQS_QUEUE_URL")
	bindEnv(v, "holding_window", "HOLDING_WINDOW")
	bindEnv(v, "sweep_batch_size", "SWEEP_BATCH_SIZE")
	bindEnv(v, "seller_pct", "COMMISSION_SELLER_PCT")
	bindEnv(v, "fee_overrides", "COMMISSION_ROLE_OVERRIDES")
	bindEnv(v, "platform_account_id", "PLATFORM_ACCOUNT_ID")
	bindEnv(v, "retry_attempts", "TRANSACTION_RETRY_ATTEMPTS")
	bindEnv(v, "jwt_secret", "JWT_SECRET")
	bindEnv(v, "stripe_webhook_secret", "STRIPE_WEBHOOK_SECRET")
	bindEnv(v, "paypal_webhook_secret", "PAYPAL_WEBHOOK_SECRET")
	bindEnv(v, "settlement_token", "SETTLEMENT_TRIGGER_TOKEN")
	bindEnv(v, "redis_url", "REDIS_URL")
	bindEnv(v, "idempotency_ttl", "IDEMPOTENCY_TTL")
	bindEnv(v, "log_level", "LOG_LEVEL")
	bindEnv(v, "rate_limit_rps", "RATE_LIMIT_RPS")
	bindEnv(v, "cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	bindEnv(v, "notification_workers", "NOTIFICATION_WORKERS")

	v.SetDefault("port", "8080")
	v.SetDefault("accounts_table", "accounts")
	v.SetDefault("listings_table", "listings")
	v.SetDefault("seller_listings_table", "seller_listings")
	v.SetDefault("sales_table", "sales")
	v.SetDefault("commissions_table", "commissions")
	v.SetDefault("gift_codes_table", "gift_codes")
	v.SetDefault("transactions_table", "transactions")
	v.SetDefault("channels_table", "channels")
	v.SetDefault("messages_table", "messages")
	v.SetDefault("payment_captures_table", "payment_captures")
	v.SetDefault("settlement_queue_url", "")
	v.SetDefault("holding_window", "60s")
	v.SetDefault("sweep_batch_size", 50)
	v.SetDefault("seller_pct", balance.DefaultSellerPct)
	v.SetDefault("fee_overrides", "")
	v.SetDefault("platform_account_id", "")
	v.SetDefault("retry_attempts", storage.DefaultRetryAttempts)
	v.SetDefault("redis_url", "")
	v.SetDefault("idempotency_ttl", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_rps", 20)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("notification_workers", 4)

	holding, err := time.ParseDuration(v.GetString("holding_window"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOLDING_WINDOW: %w", err)
	}
	if holding < 0 {
		return nil, fmt.Errorf("HOLDING_WINDOW must not be negative")
	}

	ttl, err := time.ParseDuration(v.GetString("idempotency_ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	overrides, err := balance.ParseOverrides(v.GetString("fee_overrides"))
	if err != nil {
		return nil, fmt.Errorf("invalid COMMISSION_ROLE_OVERRIDES: %w", err)
	}

	batchSize := v.GetInt("sweep_batch_size")
	if batchSize <= 0 {
		batchSize = 50
	}

	cfg := &Config{
		Port: v.GetString("port"),
		Tables: dynamodb.Tables{
			Accounts:        v.GetString("accounts_table"),
			Listings:        v.GetString("listings_table"),
			SellerListings:  v.GetString("seller_listings_table"),
			Sales:           v.GetString("sales_table"),
			Commissions:     v.GetString("commissions_table"),
			GiftCodes:       v.GetString("gift_codes_table"),
			Transactions:    v.GetString("transactions_table"),
			Channels:        v.GetString("channels_table"),
			Messages:        v.GetString("messages_table"),
			PaymentCaptures: v.GetString("payment_captures_table"),
		},
		SettlementQueueURL: v.GetString("settlement_queue_url"),
		HoldingWindow:      holding,
		SweepBatchSize:     int32(batchSize),
		DefaultSellerPct:   v.GetInt64("seller_pct"),
		FeeOverrides:       overrides,
		PlatformAccountID:  strings.TrimSpace(v.GetString("platform_account_id")),
		RetryAttempts:      max(v.GetInt("retry_attempts"), 1),
		JWTSecret:          v.GetString("jwt_secret"),
		WebhookSecrets: map[string]string{
			"stripe": v.GetString("stripe_webhook_secret"),
			"paypal": v.GetString("paypal_webhook_secret"),
		},
		SettlementToken:     v.GetString("settlement_token"),
		RedisURL:            v.GetString("redis_url"),
		IdempotencyTTL:      ttl,
		LogLevel:            v.GetString("log_level"),
		RateLimitRPS:        max(v.GetInt("rate_limit_rps"), 1),
		CORSAllowedOrigins:  splitList(v.GetString("cors_allowed_origins")),
		NotificationWorkers: max(v.GetInt("notification_workers"), 1),
	}

	if _, err := cfg.FeeSchedule(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FeeSchedule builds the fee lookup from the configured percentages.
func (c *Config) FeeSchedule() (*balance.FeeSchedule, error) {
	fees, err := balance.NewFeeSchedule(c.DefaultSellerPct, c.FeeOverrides)
	if err != nil {
		return nil, fmt.Errorf("invalid commission configuration: %w", err)
	}
	return fees, nil
}

// RetryPolicy returns the conflict retry policy.
func (c *Config) RetryPolicy() storage.RetryPolicy {
	policy := storage.DefaultRetryPolicy
	policy.Attempts = c.RetryAttempts
	return policy
}

// ValidateAPI checks the settings only the HTTP server needs.
func (c *Config) ValidateAPI() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
