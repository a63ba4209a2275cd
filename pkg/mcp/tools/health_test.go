package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/server"
)

func TestHealthTool_Execute(t *testing.T) {
	mcpServer := server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
	RegisterHealthTool(mcpServer, "1.2.3")

	request := `{"jsonrpc":"2.0","method":"tools/call","params":{"name":"health"},"id":1}`
	raw := mcpServer.HandleMessage(context.Background(), []byte(request))

	resultBytes, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var response struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
	}
	if err := json.Unmarshal(resultBytes, &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(response.Result.Content) == 0 {
		t.Fatal("expected content in response")
	}

	var health healthResult
	if err := json.Unmarshal([]byte(response.Result.Content[0].Text), &health); err != nil {
		t.Fatalf("failed to unmarshal health result: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %s", health.Status)
	}
	if health.Version != "1.2.3" {
		t.Errorf("version = %s", health.Version)
	}
}
