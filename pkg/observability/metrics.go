package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpDurationHistogram *prometheus.HistogramVec
	purchaseCounter       *prometheus.CounterVec
	settlementCounter     *prometheus.CounterVec
	unallocatedCounter    prometheus.Counter
	unallocatedCredits    prometheus.Counter
	redemptionCounter     *prometheus.CounterVec
	captureCounter        *prometheus.CounterVec
	idempotencyCounter    *prometheus.CounterVec
	sweepRunCounter       *prometheus.CounterVec
	notificationCounter   *prometheus.CounterVec
)

// Init registers all Prometheus collectors.
func Init() {
	registerOnce.Do(func() {
		httpDurationHistogram = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"})

		purchaseCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_purchases_total",
			Help: "Purchase attempts by outcome",
		}, []string{"outcome"})

		settlementCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_settlements_total",
			Help: "Settlement attempts by outcome",
		}, []string{"outcome"})

		unallocatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_unallocated_commissions_total",
			Help: "Commissions recorded without an operator account",
		})

		unallocatedCredits = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketplace_unallocated_commission_credits_total",
			Help: "Credits of commission recorded without an operator account",
		})

		redemptionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_gift_redemptions_total",
			Help: "Gift code redemptions by outcome",
		}, []string{"outcome"})

		captureCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketplace_payment_captures_total",
			Help: "Payment capture webhooks by provider and outcome",
		}, []string{"provider", "outcome"})

		idempotencyCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "idempotency_events_total",
			Help: "Idempotency middleware outcomes",
		}, []string{"outcome"})

		sweepRunCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_sweep_runs_total",
			Help: "Settlement sweep run outcomes",
		}, []string{"result"})

		notificationCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by outcome",
		}, []string{"outcome"})

		prometheus.MustRegister(
			httpDurationHistogram,
			purchaseCounter,
			settlementCounter,
			unallocatedCounter,
			unallocatedCredits,
			redemptionCounter,
			captureCounter,
			idempotencyCounter,
			sweepRunCounter,
			notificationCounter,
		)
	})
}

func ObserveHTTP(method, path string, status int, duration time.Duration) {
	if httpDurationHistogram == nil {
		return
	}
	httpDurationHistogram.WithLabelValues(method, path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func IncrementPurchase(outcome string) {
	if purchaseCounter == nil {
		return
	}
	purchaseCounter.WithLabelValues(outcome).Inc()
}

func IncrementSettlement(outcome string) {
	if settlementCounter == nil {
		return
	}
	settlementCounter.WithLabelValues(outcome).Inc()
}

// RecordUnallocatedCommission counts a commission that reached no operator account.
func RecordUnallocatedCommission(credits int64) {
	if unallocatedCounter == nil {
		return
	}
	unallocatedCounter.Inc()
	unallocatedCredits.Add(float64(credits))
}

func IncrementRedemption(outcome string) {
	if redemptionCounter == nil {
		return
	}
	redemptionCounter.WithLabelValues(outcome).Inc()
}

func IncrementCapture(provider, outcome string) {
	if captureCounter == nil {
		return
	}
	captureCounter.WithLabelValues(provider, outcome).Inc()
}

func IncrementIdempotencyEvent(outcome string) {
	if idempotencyCounter == nil {
		return
	}
	idempotencyCounter.WithLabelValues(outcome).Inc()
}

func IncrementSweepRun(result string) {
	if sweepRunCounter == nil {
		return
	}
	sweepRunCounter.WithLabelValues(result).Inc()
}

func IncrementNotification(outcome string) {
	if notificationCounter == nil {
		return
	}
	notificationCounter.WithLabelValues(outcome).Inc()
}
