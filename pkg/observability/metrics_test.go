package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	Init()
	Init()

	IncrementPurchase("success")
	IncrementPurchase("success")
	assert.Equal(t, float64(2), testutil.ToFloat64(purchaseCounter.WithLabelValues("success")))

	RecordUnallocatedCommission(3)
	assert.Equal(t, float64(1), testutil.ToFloat64(unallocatedCounter))
	assert.Equal(t, float64(3), testutil.ToFloat64(unallocatedCredits))

	IncrementCapture("stripe", "credited")
	assert.Equal(t, float64(1), testutil.ToFloat64(captureCounter.WithLabelValues("stripe", "credited")))

	ObserveHTTP("GET", "/healthz", 200, time.Millisecond)
	assert.Equal(t, 1, testutil.CollectAndCount(httpDurationHistogram))
}
