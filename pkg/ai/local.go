package ai

import (
	"bufio"
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

// LocalClient talks to the on-device inference runtime over its loopback
// HTTP interface. The runtime loads a quantized model into memory in the
// background; readiness means loaded, a strict superset of downloaded.
//
// Two call shapes are exposed: a blocking Chat and a streaming ChatStream
// that delivers text fragments through a callback, terminated by a
// StreamDone fragment or a StreamErrorPrefix-ed fragment.
type LocalClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewLocalClient creates a local runtime client. Pass a nil config to fall
// back to environment variables.
func NewLocalClient(cfg *config.LocalEngineConfig) *LocalClient {
	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("LOCAL_ENGINE_URL")
		if base == "" {
			base = "http://127.0.0.1:8731"
		}
	}

	var model string
	if cfg != nil {
		model = cfg.Model
	}

	return &LocalClient{
		baseURL: base,
		model:   model,
		// No client-level timeout: generations are long-running and both
		// call shapes are bounded by the caller's context or by the
		// streaming adapter's own timer.
		client: &http.Client{},
	}
}

type localChatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type localChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done             bool   `json:"done"`
	Error            string `json:"error,omitempty"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

type localStatusResponse struct {
	Ready     bool   `json:"ready"`
	IsLoading bool   `json:"is_loading"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// Ready probes the runtime synchronously. A model that is still loading (or
// a runtime that is not running at all) is not ready.
func (l *LocalClient) Ready(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, l.baseURL+"/api/status", nil)
	if err != nil {
		return false
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var status localStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false
	}
	return status.Ready
}

// Chat is the blocking call shape: a single request, a single response with
// token counts. Trusted to return by itself; bounded only by ctx.
func (l *LocalClient) Chat(ctx context.Context, req Request) (*Result, error) {
	payload := localChatRequest{
		Model:       l.model,
		Messages:    req.Messages,
		Stream:      false,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("local engine request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("local engine error: status %d, body: %s", resp.StatusCode, string(raw))
	}

	var cr localChatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if cr.Error != "" {
		return nil, fmt.Errorf("local engine error: %s", cr.Error)
	}

	return &Result{
		Text:             cr.Message.Content,
		PromptTokens:     cr.PromptTokens,
		CompletionTokens: cr.CompletionTokens,
	}, nil
}

// ChatStream is the incremental call shape. Fragments are delivered to
// onChunk in order; the stream terminates with a StreamDone fragment on
// success or a StreamErrorPrefix-ed fragment on a runtime-reported failure.
// The returned error covers only transport-level problems before or during
// the stream; runtime failures arrive through the callback so that callers
// observe a single marker protocol.
func (l *LocalClient) ChatStream(ctx context.Context, req Request, onChunk func(fragment string)) error {
	payload := localChatRequest{
		Model:       l.model,
		Messages:    req.Messages,
		Stream:      true,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("local engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		onChunk(StreamErrorPrefix + fmt.Sprintf("status %d: %s", resp.StatusCode, string(raw)))
		return nil
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var chunk localChatResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			onChunk(StreamErrorPrefix + fmt.Sprintf("malformed stream chunk: %v", err))
			return nil
		}
		if chunk.Error != "" {
			onChunk(StreamErrorPrefix + chunk.Error)
			return nil
		}
		if chunk.Message.Content != "" {
			onChunk(chunk.Message.Content)
		}
		if chunk.Done {
			onChunk(StreamDone)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		onChunk(StreamErrorPrefix + err.Error())
		return nil
	}

	// Stream ended without a done marker; let the adapter's timer decide
	// what to do with whatever was accumulated.
	return nil
}
