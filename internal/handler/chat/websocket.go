package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/fmckeffi/healthdesk/backend/internal/middleware"
	"github.com/fmckeffi/healthdesk/backend/internal/model/chat"
	chatService "github.com/fmckeffi/healthdesk/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// WebSocketHandler runs consultation turns over a long-lived connection.
type WebSocketHandler struct {
	chatSvc  Processor
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades without an Origin header (non-browser
// clients) or from one of allowedOrigins.
func NewWebSocketHandler(chatSvc Processor, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.AllowedOrigin(origin, allowedOrigins)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn serializes writes; gorilla allows a single concurrent writer.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) send(msg outgoingMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.WriteJSON(msg); err != nil {
		log.Warn().Err(err).Str("component", "websocket").Msg("write failed")
	}
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "websocket").Msg("upgrade failed")
		return
	}
	conn := &wsConn{Conn: raw}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	h.sendInfo(conn, map[string]any{"type": "connected"})

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("component", "websocket").Msg("read error")
			}
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		h.handleMessage(ctx, conn, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *wsConn, msg *inboundMessage) {
	switch msg.Type {
	case "chat":
		h.handleChatMessage(ctx, conn, msg.Data)
	case "ping":
		h.sendInfo(conn, map[string]any{"type": "pong"})
	default:
		h.sendError(conn, "unsupported message type: "+msg.Type, "")
	}
}

func (h *WebSocketHandler) handleChatMessage(ctx context.Context, conn *wsConn, raw json.RawMessage) {
	var req chat.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendError(conn, "Invalid JSON input", "")
		return
	}

	resp, err := h.chatSvc.Process(ctx, req)
	if err != nil {
		h.sendError(conn, chatService.Message(err), req.ChatID)
		return
	}

	conn.send(outgoingMessage{Type: "reply", Data: resp, Timestamp: time.Now().Unix()})
}

func (h *WebSocketHandler) sendInfo(conn *wsConn, data map[string]any) {
	conn.send(outgoingMessage{Type: "result", Data: data, Timestamp: time.Now().Unix()})
}

func (h *WebSocketHandler) sendError(conn *wsConn, message, chatID string) {
	conn.send(outgoingMessage{Type: "error", Data: chat.NewFailure(message, chatID), Timestamp: time.Now().Unix()})
}

func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
