package websockets_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	handlers "github.com/chris/rotmarket/pkg/handlers/websockets"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/models"
	"github.com/chris/rotmarket/pkg/websockets"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestServeHTTP(t *testing.T) {
	auth := middleware.NewAuthenticator(secret)
	hub := websockets.NewHub()
	server := httptest.NewServer(handlers.NewHandler(hub, auth, nil, zap.NewNop()))
	defer server.Close()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	t.Run("Success", func(t *testing.T) {
		token, err := auth.IssueToken("user-1", models.RoleUser, time.Hour)
		require.NoError(t, err)

		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

		require.NoError(t, hub.Publish(context.Background(), websockets.Message{
			Type:      websockets.MessageTypeNotice,
			Recipient: "user-1",
			Payload:   map[string]string{"type": "sale_settled"},
		}))

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg websockets.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, websockets.MessageTypeNotice, msg.Type)
		assert.Equal(t, "user-1", msg.Recipient)

		conn.Close()
		assert.Eventually(t, func() bool { return hub.Len() == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("Rejects Missing Token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
