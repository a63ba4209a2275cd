package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/models"
	"github.com/mealmind-inc/mealmind-engine/pkg/services"
)

// ChatToolDeps holds the dependencies shared by the conversational tools.
type ChatToolDeps struct {
	Chat   services.ChatService
	Logger *zap.Logger
}

// RegisterChatTools adds the meal logging tools to the MCP server:
// meal_log_turn starts or continues a conversation, confirm_log commits the
// pending extraction, cancel_log discards it.
func RegisterChatTools(s *server.MCPServer, deps *ChatToolDeps) {
	registerTurnTool(s, deps)
	registerConfirmTool(s, deps)
	registerCancelTool(s, deps)
}

func registerTurnTool(s *server.MCPServer, deps *ChatToolDeps) {
	tool := mcp.NewTool(
		"meal_log_turn",
		mcp.WithDescription(
			"Send one natural-language message to the meal logging assistant. "+
				"Describe food eaten, exercise done, or current body weight. "+
				"The assistant replies with a calorie breakdown and asks for confirmation before anything is written.",
		),
		mcp.WithString(
			"conversation_id",
			mcp.Required(),
			mcp.Description("UUID identifying the conversation; reuse it across turns"),
		),
		mcp.WithString(
			"owner_id",
			mcp.Required(),
			mcp.Description("UUID of the person whose ledger is written"),
		),
		mcp.WithString(
			"text",
			mcp.Required(),
			mcp.Description("The user's message, e.g. 'I had a chicken sandwich for lunch'"),
		),
		mcp.WithString(
			"meal_type",
			mcp.Description("Optional meal slot: breakfast, lunch, dinner or snack"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, ownerID, errResult := parseIDArgs(req)
		if errResult != nil {
			return errResult, nil
		}
		text, err := req.RequireString("text")
		if err != nil {
			return NewErrorResult("invalid_parameters", "text is required"), nil
		}

		logReq := models.LogRequest{Text: text}
		if raw := req.GetString("meal_type", ""); raw != "" {
			mt := models.MealType(raw)
			if !mt.IsValid() {
				return NewErrorResult("invalid_parameters", "unknown meal_type"), nil
			}
			logReq.MealTypeHint = &mt
		}

		result, err := deps.Chat.HandleTurn(ctx, conversationID, ownerID, logReq)
		if err != nil {
			deps.Logger.Error("meal_log_turn failed", zap.Error(err))
			return nil, fmt.Errorf("failed to process turn: %w", err)
		}
		return NewJSONResult(result)
	})
}

func registerConfirmTool(s *server.MCPServer, deps *ChatToolDeps) {
	tool := mcp.NewTool(
		"confirm_log",
		mcp.WithDescription(
			"Confirm the pending food, exercise or weight extraction in a conversation. "+
				"Writes the entries to the ledger. Equivalent to replying 'yes'.",
		),
		mcp.WithString(
			"conversation_id",
			mcp.Required(),
			mcp.Description("UUID of the conversation holding the pending extraction"),
		),
		mcp.WithString(
			"owner_id",
			mcp.Required(),
			mcp.Description("UUID of the person whose ledger is written"),
		),
		mcp.WithIdempotentHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		conversationID, ownerID, errResult := parseIDArgs(req)
		if errResult != nil {
			return errResult, nil
		}

		result, err := deps.Chat.Confirm(ctx, conversationID, ownerID)
		if err != nil {
			deps.Logger.Error("confirm_log failed", zap.Error(err))
			return nil, fmt.Errorf("failed to confirm: %w", err)
		}
		return NewJSONResult(result)
	})
}

func registerCancelTool(s *server.MCPServer, deps *ChatToolDeps) {
	tool := mcp.NewTool(
		"cancel_log",
		mcp.WithDescription(
			"Discard the pending extraction in a conversation without writing anything. "+
				"Equivalent to replying 'no'.",
		),
		mcp.WithString(
			"conversation_id",
			mcp.Required(),
			mcp.Description("UUID of the conversation holding the pending extraction"),
		),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawConv, err := req.RequireString("conversation_id")
		if err != nil {
			return NewErrorResult("invalid_parameters", "conversation_id is required"), nil
		}
		conversationID, err := uuid.Parse(rawConv)
		if err != nil {
			return NewErrorResult("invalid_parameters", "conversation_id must be a UUID"), nil
		}

		result, err := deps.Chat.Cancel(ctx, conversationID)
		if err != nil {
			deps.Logger.Error("cancel_log failed", zap.Error(err))
			return nil, fmt.Errorf("failed to cancel: %w", err)
		}
		return NewJSONResult(result)
	})
}

func parseIDArgs(req mcp.CallToolRequest) (uuid.UUID, uuid.UUID, *mcp.CallToolResult) {
	rawConv, err := req.RequireString("conversation_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, NewErrorResult("invalid_parameters", "conversation_id is required")
	}
	conversationID, err := uuid.Parse(rawConv)
	if err != nil {
		return uuid.Nil, uuid.Nil, NewErrorResult("invalid_parameters", "conversation_id must be a UUID")
	}

	rawOwner, err := req.RequireString("owner_id")
	if err != nil {
		return uuid.Nil, uuid.Nil, NewErrorResult("invalid_parameters", "owner_id is required")
	}
	ownerID, err := uuid.Parse(rawOwner)
	if err != nil {
		return uuid.Nil, uuid.Nil, NewErrorResult("invalid_parameters", "owner_id must be a UUID")
	}
	return conversationID, ownerID, nil
}
