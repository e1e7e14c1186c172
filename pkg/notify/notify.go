// Package notify delivers best-effort notices to account documents and the
// websocket change feed. Delivery never blocks or fails the operation that
// produced the notice.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/observability"
	"github.com/chris/rotmarket/pkg/storage"
	"github.com/chris/rotmarket/pkg/websockets"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryTimeout = 5 * time.Second

// Dispatcher sends notices without waiting for delivery.
//
//go:generate go tool mockery --name=Dispatcher --output=mocks --outpkg=mocks
type Dispatcher interface {
	Dispatch(ctx context.Context, recipientID string, noticeType models.NoticeType, payload map[string]string)
}

// Notifier appends notices to the recipient's account and publishes them on the change feed.
type Notifier struct {
	store     storage.NoticeStore
	publisher websockets.Publisher
	logger    *zap.Logger
	sem       chan struct{}
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewNotifier creates a Notifier running at most workers deliveries at once.
func NewNotifier(store storage.NoticeStore, publisher websockets.Publisher, logger *zap.Logger, workers int) *Notifier {
	if workers < 1 {
		workers = 1
	}
	if publisher == nil {
		publisher = &websockets.NoOpPublisher{}
	}
	return &Notifier{
		store:     store,
		publisher: publisher,
		logger:    logger,
		sem:       make(chan struct{}, workers),
		now:       time.Now,
	}
}

var _ Dispatcher = (*Notifier)(nil)

// Notify delivers a notice synchronously. The account write is attempted even
// if publishing fails, and the first error is returned.
func (n *Notifier) Notify(ctx context.Context, recipientID string, noticeType models.NoticeType, payload map[string]string) error {
	notice := models.Notice{
		Id:          uuid.New().String(),
		Type:        noticeType,
		RecipientId: recipientID,
		Payload:     payload,
		CreatedAt:   n.now().UTC(),
	}

	storeErr := n.store.AppendNotice(ctx, notice)
	publishErr := n.publisher.Publish(ctx, websockets.Message{
		Type:      websockets.MessageTypeNotice,
		Recipient: recipientID,
		Payload:   notice,
	})

	if storeErr != nil {
		observability.IncrementNotification("store_failed")
		return storeErr
	}
	if publishErr != nil {
		observability.IncrementNotification("publish_failed")
		return publishErr
	}
	observability.IncrementNotification("delivered")
	return nil
}

// Dispatch delivers a notice in the background. Failures are logged.
// The caller's cancellation does not abort delivery.
func (n *Notifier) Dispatch(ctx context.Context, recipientID string, noticeType models.NoticeType, payload map[string]string) {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.sem <- struct{}{}
		defer func() { <-n.sem }()

		ctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		defer cancel()
		if err := n.Notify(ctx, recipientID, noticeType, payload); err != nil {
			n.logger.Warn("failed to deliver notice",
				zap.String("recipient", recipientID),
				zap.String("type", string(noticeType)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until every dispatched notice has been attempted.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
