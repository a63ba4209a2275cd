package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/logging"
	"github.com/mealmind-inc/mealmind-engine/pkg/models"
	"github.com/mealmind-inc/mealmind-engine/pkg/services"
)

// ChatHandler exposes the conversational logging pipeline over HTTP.
type ChatHandler struct {
	chat   services.ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, logger: logger.Named("chat-handler")}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat/turn", h.Turn)
	mux.HandleFunc("POST /api/chat/confirm", h.Confirm)
	mux.HandleFunc("POST /api/chat/cancel", h.Cancel)
}

type turnRequest struct {
	ConversationID string `json:"conversation_id"`
	OwnerID        string `json:"owner_id"`
	Text           string `json:"text"`
	ImageBase64    string `json:"image_base64,omitempty"`
	ImageMIME      string `json:"image_mime,omitempty"`
	MealType       string `json:"meal_type,omitempty"`
}

type resolveRequest struct {
	ConversationID string `json:"conversation_id"`
	OwnerID        string `json:"owner_id"`
}

// Turn handles POST /api/chat/turn.
func (h *ChatHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	conversationID, ownerID, ok := h.parseIDs(w, req.ConversationID, req.OwnerID)
	if !ok {
		return
	}
	if req.Text == "" && req.ImageBase64 == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "text or image_base64 is required")
		return
	}

	logReq := models.LogRequest{Text: req.Text}
	if req.ImageBase64 != "" {
		image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "image_base64 is not valid base64")
			return
		}
		logReq.Image = image
		logReq.ImageMIME = req.ImageMIME
	}
	if req.MealType != "" {
		mt := models.MealType(req.MealType)
		if !mt.IsValid() {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "unknown meal_type")
			return
		}
		logReq.MealTypeHint = &mt
	}

	result, err := h.chat.HandleTurn(r.Context(), conversationID, ownerID, logReq)
	if err != nil {
		h.logger.Error("Turn failed",
			zap.String("conversation_id", conversationID.String()),
			zap.String("text", logging.SanitizeUserText(req.Text)),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to process turn")
		return
	}
	_ = WriteJSON(w, http.StatusOK, result)
}

// Confirm handles POST /api/chat/confirm.
func (h *ChatHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	conversationID, ownerID, ok := h.parseIDs(w, req.ConversationID, req.OwnerID)
	if !ok {
		return
	}

	result, err := h.chat.Confirm(r.Context(), conversationID, ownerID)
	if err != nil {
		h.logger.Error("Confirm failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to confirm")
		return
	}
	_ = WriteJSON(w, http.StatusOK, result)
}

// Cancel handles POST /api/chat/cancel.
func (h *ChatHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "conversation_id must be a UUID")
		return
	}

	result, err := h.chat.Cancel(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("Cancel failed",
			zap.String("conversation_id", conversationID.String()),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to cancel")
		return
	}
	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) parseIDs(w http.ResponseWriter, conversationID, ownerID string) (uuid.UUID, uuid.UUID, bool) {
	convID, err := uuid.Parse(conversationID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "conversation_id must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "owner_id must be a UUID")
		return uuid.Nil, uuid.Nil, false
	}
	return convID, owner, true
}
