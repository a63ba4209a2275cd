package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
	"github.com/mealmind-inc/mealmind-engine/pkg/services"
)

type mockChatService struct {
	handleTurnFunc func(ctx context.Context, conversationID, ownerID uuid.UUID, req models.LogRequest) (*services.TurnResult, error)
	confirmFunc    func(ctx context.Context, conversationID, ownerID uuid.UUID) (*services.TurnResult, error)
	cancelFunc     func(ctx context.Context, conversationID uuid.UUID) (*services.TurnResult, error)
	lastRequest    models.LogRequest
}

func (m *mockChatService) HandleTurn(ctx context.Context, conversationID, ownerID uuid.UUID, req models.LogRequest) (*services.TurnResult, error) {
	m.lastRequest = req
	if m.handleTurnFunc != nil {
		return m.handleTurnFunc(ctx, conversationID, ownerID, req)
	}
	return &services.TurnResult{DisplayText: "ok", State: services.StateIdle}, nil
}

func (m *mockChatService) Confirm(ctx context.Context, conversationID, ownerID uuid.UUID) (*services.TurnResult, error) {
	if m.confirmFunc != nil {
		return m.confirmFunc(ctx, conversationID, ownerID)
	}
	return &services.TurnResult{DisplayText: "logged", State: services.StateIdle}, nil
}

func (m *mockChatService) Cancel(ctx context.Context, conversationID uuid.UUID) (*services.TurnResult, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, conversationID)
	}
	return &services.TurnResult{DisplayText: "cancelled", State: services.StateIdle}, nil
}

func newChatMux(svc services.ChatService) *http.ServeMux {
	mux := http.NewServeMux()
	NewChatHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestChatHandler_Turn(t *testing.T) {
	svc := &mockChatService{}
	mux := newChatMux(svc)

	rec := postJSON(t, mux, "/api/chat/turn", map[string]string{
		"conversation_id": uuid.NewString(),
		"owner_id":        uuid.NewString(),
		"text":            "I had a chicken sandwich",
		"meal_type":       "lunch",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var result services.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "ok", result.DisplayText)

	require.NotNil(t, svc.lastRequest.MealTypeHint)
	assert.Equal(t, models.MealLunch, *svc.lastRequest.MealTypeHint)
}

func TestChatHandler_TurnValidation(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad conversation id", map[string]string{
			"conversation_id": "nope", "owner_id": uuid.NewString(), "text": "apple",
		}},
		{"bad owner id", map[string]string{
			"conversation_id": uuid.NewString(), "owner_id": "nope", "text": "apple",
		}},
		{"missing text and image", map[string]string{
			"conversation_id": uuid.NewString(), "owner_id": uuid.NewString(),
		}},
		{"unknown meal type", map[string]string{
			"conversation_id": uuid.NewString(), "owner_id": uuid.NewString(),
			"text": "apple", "meal_type": "brunch",
		}},
		{"bad image encoding", map[string]string{
			"conversation_id": uuid.NewString(), "owner_id": uuid.NewString(),
			"image_base64": "!!!not-base64!!!",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, newChatMux(&mockChatService{}), "/api/chat/turn", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestChatHandler_Confirm(t *testing.T) {
	rec := postJSON(t, newChatMux(&mockChatService{}), "/api/chat/confirm", map[string]string{
		"conversation_id": uuid.NewString(),
		"owner_id":        uuid.NewString(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "logged", result.DisplayText)
}

func TestChatHandler_Cancel(t *testing.T) {
	rec := postJSON(t, newChatMux(&mockChatService{}), "/api/chat/cancel", map[string]string{
		"conversation_id": uuid.NewString(),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "cancelled", result.DisplayText)
}
