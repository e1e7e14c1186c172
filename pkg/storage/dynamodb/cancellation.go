package dynamodb

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/rotmarket/pkg/storage"
)

const (
	reasonConditionalCheckFailed = "ConditionalCheckFailed"
	reasonTransactionConflict    = "TransactionConflict"
)

// cancellation describes why a TransactWriteItems call was cancelled.
type cancellation struct {
	reasons []types.CancellationReason
}

// asCancellation extracts the cancellation reasons from err. It reports false
// for errors that are not transaction cancellations.
func asCancellation(err error) (*cancellation, bool) {
	var canceled *types.TransactionCanceledException
	if errors.As(err, &canceled) {
		return &cancellation{reasons: canceled.CancellationReasons}, true
	}
	return nil, false
}

// conflicted reports whether any item was touched by a concurrent transaction.
func (c *cancellation) conflicted() bool {
	for _, reason := range c.reasons {
		if aws.ToString(reason.Code) == reasonTransactionConflict {
			return true
		}
	}
	return false
}

// failed reports whether the condition of item i failed.
func (c *cancellation) failed(i int) bool {
	if i < 0 || i >= len(c.reasons) {
		return false
	}
	return aws.ToString(c.reasons[i].Code) == reasonConditionalCheckFailed
}

// old returns the item image returned for a failed condition at i. It is nil
// when the item did not exist.
func (c *cancellation) old(i int) map[string]types.AttributeValue {
	if !c.failed(i) {
		return nil
	}
	return c.reasons[i].Item
}

// conflictError wraps err so callers can match storage.ErrTransactionConflict.
func conflictError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, storage.ErrTransactionConflict, err)
}
