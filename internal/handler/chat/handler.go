package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fmckeffi/healthdesk/backend/internal/model/chat"
	chatService "github.com/fmckeffi/healthdesk/backend/internal/service/chat"
	"github.com/fmckeffi/healthdesk/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Processor answers one consultation turn.
type Processor interface {
	Process(ctx context.Context, req chat.Request) (*chat.Response, error)
}

// Handler serves the public chat endpoints.
type Handler struct {
	chatSvc Processor
	ws      *WebSocketHandler
}

// New builds a chat handler around chatSvc. Websocket upgrades are accepted
// from allowedOrigins only.
func New(chatSvc Processor, allowedOrigins []string) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		ws:      NewWebSocketHandler(chatSvc, allowedOrigins),
	}
}

// RegisterRoutes mounts POST /chat and GET /chat/ws.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.ws.handleWebSocket)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := utils.DecodeJSON(w, r, maxBodyBytes, &req); err != nil {
		utils.RespondJSON(w, http.StatusBadRequest, chat.NewFailure("Invalid JSON input", ""))
		return
	}

	resp, err := h.chatSvc.Process(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status != http.StatusBadRequest {
			log.Error().Err(err).Str("chat_id", req.ChatID).Msg("chat request failed")
		}
		utils.RespondJSON(w, status, chat.NewFailure(chatService.Message(err), req.ChatID))
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, chatService.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, chatService.ErrCompletion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
