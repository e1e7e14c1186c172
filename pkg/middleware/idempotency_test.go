package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/chris/rotmarket/pkg/idempotency"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu       sync.Mutex
	records  map[string]*idempotency.Record
	reserved map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*idempotency.Record{}, reserved: map[string]string{}}
}

func (m *memoryStore) Lookup(_ context.Context, key, hash string) (*idempotency.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.records[key]; ok {
		if rec.RequestHash != hash {
			return nil, idempotency.ErrHashMismatch
		}
		return rec, nil
	}
	if _, ok := m.reserved[key]; ok {
		return nil, idempotency.ErrInProgress
	}
	return nil, idempotency.ErrNotFound
}

func (m *memoryStore) Reserve(_ context.Context, key, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reserved[key]; ok {
		return false, nil
	}
	m.reserved[key] = hash
	return true, nil
}

func (m *memoryStore) Finalize(_ context.Context, key, hash string, status int, body []byte, contentType string) (*idempotency.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &idempotency.Record{Key: key, RequestHash: hash, Status: status, Body: append([]byte(nil), body...), ContentType: contentType}
	m.records[key] = rec
	return rec, nil
}

func (m *memoryStore) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reserved, key)
	return nil
}

func (m *memoryStore) WaitForCompletion(ctx context.Context, key, hash string) (*idempotency.Record, error) {
	return m.Lookup(ctx, key, hash)
}

func TestIdempotency(t *testing.T) {
	newRequest := func(account, key, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/listings/l-1/purchase", strings.NewReader(body))
		req = req.WithContext(WithAccount(req.Context(), account, models.RoleUser))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return req
	}

	t.Run("Replays First Response", func(t *testing.T) {
		calls := 0
		handler := Idempotency(newMemoryStore(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"saleId":"s-1"}`))
		}))

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, newRequest("buyer", "k-1", ""))
		second := httptest.NewRecorder()
		handler.ServeHTTP(second, newRequest("buyer", "k-1", ""))

		assert.Equal(t, 1, calls)
		assert.Equal(t, http.StatusCreated, second.Code)
		assert.Equal(t, "true", second.Header().Get("X-Idempotent-Replay"))
		assert.JSONEq(t, `{"saleId":"s-1"}`, second.Body.String())
	})

	t.Run("Keys Are Scoped Per Account", func(t *testing.T) {
		calls := 0
		handler := Idempotency(newMemoryStore(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer-a", "k-1", ""))
		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer-b", "k-1", ""))

		assert.Equal(t, 2, calls)
	})

	t.Run("Different Body Conflicts", func(t *testing.T) {
		handler := Idempotency(newMemoryStore(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer", "k-1", `{"a":1}`))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, newRequest("buyer", "k-1", `{"a":2}`))

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Server Error Releases Key", func(t *testing.T) {
		calls := 0
		handler := Idempotency(newMemoryStore(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer", "k-1", ""))
		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer", "k-1", ""))

		assert.Equal(t, 2, calls)
	})

	t.Run("No Key Passes Through", func(t *testing.T) {
		calls := 0
		handler := Idempotency(newMemoryStore(), zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))

		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer", "", ""))
		handler.ServeHTTP(httptest.NewRecorder(), newRequest("buyer", "", ""))

		assert.Equal(t, 2, calls)
	})
}
