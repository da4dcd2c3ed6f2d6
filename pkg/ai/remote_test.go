package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/notegen/pkg/config"
)

func TestRemoteChat_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("authorization header = %q", got)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload["model"] != "test-model" {
			t.Fatalf("model = %v", payload["model"])
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "generated text"}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5},
		})
	}))
	defer ts.Close()

	client := NewRemoteClient(&config.RemoteEngineConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "test-model",
	})

	res, err := client.Chat(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if res.Text != "generated text" {
		t.Fatalf("text = %q", res.Text)
	}
	if res.PromptTokens != 10 || res.CompletionTokens != 5 {
		t.Fatalf("token counts = %d/%d", res.PromptTokens, res.CompletionTokens)
	}
}

func TestRemoteChat_JSONModeRequested(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			ResponseFormat *struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.ResponseFormat == nil || payload.ResponseFormat.Type != "json_object" {
			t.Fatalf("json mode not requested: %+v", payload.ResponseFormat)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "{}"}},
			},
		})
	}))
	defer ts.Close()

	client := NewRemoteClient(&config.RemoteEngineConfig{APIKey: "k", BaseURL: ts.URL})
	if _, err := client.Chat(context.Background(), Request{JSONMode: true}); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
}

func TestRemoteChat_APIErrorMessagePassedThrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "Rate limit reached for model"},
		})
	}))
	defer ts.Close()

	client := NewRemoteClient(&config.RemoteEngineConfig{APIKey: "k", BaseURL: ts.URL})
	_, err := client.Chat(context.Background(), Request{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Rate limit reached for model") {
		t.Fatalf("API message not passed through: %v", err)
	}
}

func TestRemoteConfigured(t *testing.T) {
	withKey := NewRemoteClient(&config.RemoteEngineConfig{APIKey: "k"})
	if !withKey.Configured() {
		t.Fatalf("client with key must report configured")
	}

	t.Setenv("REMOTE_ENGINE_API_KEY", "")
	withoutKey := NewRemoteClient(&config.RemoteEngineConfig{})
	if withoutKey.Configured() {
		t.Fatalf("client without key must report unconfigured")
	}
}
