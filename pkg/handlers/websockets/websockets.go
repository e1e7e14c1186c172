package websockets

import (
	"net/http"
	"strings"
	"time"

	"github.com/chris/rotmarket/pkg/api/problem"
	"github.com/chris/rotmarket/pkg/middleware"
	"github.com/chris/rotmarket/pkg/websockets"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 16
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*middleware.Claims, error)
}

// Handler upgrades authenticated clients and streams their notices.
type Handler struct {
	connManager websockets.ConnectionManager
	auth        TokenVerifier
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewHandler creates a new Handler. An empty allowedOrigins accepts any origin.
func NewHandler(connManager websockets.ConnectionManager, auth TokenVerifier, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		connManager: connManager,
		auth:        auth,
		logger:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
	}
}

// ServeHTTP authenticates the request, upgrades it and registers the
// connection until the client goes away. Browsers cannot set headers on the
// handshake, so the token may also arrive as the "token" query parameter.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	claims, err := h.auth.Verify(token)
	if err != nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.Type("auth/invalid-token"), "", "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	client := &websockets.Connection{
		ID:        uuid.New().String(),
		AccountID: claims.Subject,
		Send:      make(chan []byte, sendBuffer),
	}
	logger := h.logger.With(zap.String("connectionId", client.ID), zap.String("account_id", client.AccountID))

	ctx := r.Context()
	if err := h.connManager.AddConnection(ctx, client); err != nil {
		logger.Error("failed to register connection", zap.Error(err))
		return
	}
	logger.Info("client connected")

	defer func() {
		if err := h.connManager.RemoveConnection(ctx, client.ID); err != nil {
			logger.Error("failed to remove connection", zap.Error(err))
		}
		logger.Info("client disconnected")
	}()

	done := make(chan struct{})
	go h.writePump(conn, client, done, logger)
	h.readPump(conn, logger)
	close(done)
}

// readPump discards client messages and returns when the client goes away.
func (h *Handler) readPump(conn *websocket.Conn, logger *zap.Logger) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("unexpected close error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards hub messages and keeps the connection alive with pings.
// A closed Send channel means the hub dropped the connection.
func (h *Handler) writePump(conn *websocket.Conn, client *websockets.Connection, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				_ = conn.Close()
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				logger.Warn("failed to write message", zap.Error(err))
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
