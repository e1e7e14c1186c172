package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/storage/mocks"
	"github.com/chris/rotmarket/pkg/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages []websockets.Message
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, message websockets.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, message)
	return p.err
}

func TestNotify(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		store := new(mocks.Storage)
		publisher := &recordingPublisher{}
		n := NewNotifier(store, publisher, zap.NewNop(), 1)

		store.On("AppendNotice", mock.Anything, mock.MatchedBy(func(notice models.Notice) bool {
			return notice.RecipientId == "seller" && notice.Type == models.NoticeSaleCreated && notice.Payload["saleId"] == "sale-1"
		})).Return(nil).Once()

		err := n.Notify(context.Background(), "seller", models.NoticeSaleCreated, map[string]string{"saleId": "sale-1"})

		require.NoError(t, err)
		require.Len(t, publisher.messages, 1)
		assert.Equal(t, "seller", publisher.messages[0].Recipient)
		store.AssertExpectations(t)
	})

	t.Run("Store Error Still Publishes", func(t *testing.T) {
		store := new(mocks.Storage)
		publisher := &recordingPublisher{}
		n := NewNotifier(store, publisher, zap.NewNop(), 1)
		store.On("AppendNotice", mock.Anything, mock.Anything).Return(errors.New("dynamo down")).Once()

		err := n.Notify(context.Background(), "seller", models.NoticeSaleSettled, nil)

		assert.Error(t, err)
		assert.Len(t, publisher.messages, 1)
	})
}

func TestDispatch(t *testing.T) {
	store := new(mocks.Storage)
	publisher := &recordingPublisher{err: errors.New("no clients")}
	n := NewNotifier(store, publisher, zap.NewNop(), 2)
	store.On("AppendNotice", mock.Anything, mock.Anything).Return(nil).Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 3; i++ {
		n.Dispatch(ctx, "seller", models.NoticeSaleCreated, nil)
	}
	cancel()
	n.Wait()

	store.AssertExpectations(t)
}
