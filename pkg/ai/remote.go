package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/notegen/pkg/config"
)

// RemoteClient is a minimal client for an OpenAI-compatible chat-completion
// API. It is the credential-gated remote backend.
type RemoteClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewRemoteClient creates a remote client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewRemoteClient(cfg *config.RemoteEngineConfig) *RemoteClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("REMOTE_ENGINE_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("REMOTE_ENGINE_URL")
		if base == "" {
			base = "https://api.groq.com/openai/v1"
		}
	}

	var model string
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	} else {
		model = "llama-3.1-70b-versatile"
	}

	timeout := 90 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &RemoteClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API credential is present. The remote
// backend is ready iff it is configured.
func (r *RemoteClient) Configured() bool {
	return r.apiKey != ""
}

// chatCompletionRequest is the wire shape for chat completion requests
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatCompletionResponse is a minimal response shape
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends the conversation to the remote API and returns the assistant
// content with token counts.
func (r *RemoteClient) Chat(ctx context.Context, req Request) (*Result, error) {
	if r.apiKey == "" {
		return nil, fmt.Errorf("remote engine API key not set")
	}

	body := chatCompletionRequest{
		Model:       r.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	endpoint := r.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+r.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var cr chatCompletionResponse
	if resp.StatusCode >= 400 {
		// Surface the API's own message when it sends one
		if json.Unmarshal(raw, &cr) == nil && cr.Error != nil && cr.Error.Message != "" {
			return nil, fmt.Errorf("remote API returned status %d: %s", resp.StatusCode, cr.Error.Message)
		}
		return nil, fmt.Errorf("remote API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, err
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("empty response from remote API")
	}

	return &Result{
		Text:             cr.Choices[0].Message.Content,
		PromptTokens:     cr.Usage.PromptTokens,
		CompletionTokens: cr.Usage.CompletionTokens,
	}, nil
}
