package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendPromptRequestsJSONObjectFormat(t *testing.T) {
	t.Parallel()

	var requestBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read request body: %v", err)
		}
		requestBody = body

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"title\":\"Stretch\"}"}}]
		}`))
	}))
	defer server.Close()

	provider := NewOpenAIProviderWithLogger("test-key", server.URL, "gpt-4o-mini", nil, false)

	reply, err := provider.SendPrompt(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("SendPrompt failed: %v", err)
	}
	if reply != `{"title":"Stretch"}` {
		t.Errorf("reply = %q", reply)
	}

	var req struct {
		Model          string `json:"model"`
		ResponseFormat struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}
	if err := json.Unmarshal(requestBody, &req); err != nil {
		t.Fatalf("bad request body: %v", err)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", req.Model)
	}
	if req.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format.type = %q, want json_object", req.ResponseFormat.Type)
	}
}

func TestSendPromptNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	provider := NewOpenAIProviderWithLogger("test-key", server.URL, "gpt-4o-mini", nil, false)

	if _, err := provider.SendPrompt(context.Background(), "system", "user"); err == nil {
		t.Fatal("SendPrompt succeeded on a reply without choices")
	}
}
