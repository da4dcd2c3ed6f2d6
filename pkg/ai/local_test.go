package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/johnquangdev/notegen/pkg/config"
)

func newLocalTestClient(url string) *LocalClient {
	return NewLocalClient(&config.LocalEngineConfig{BaseURL: url})
}

func TestLocalReady_LoadedModel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/status" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ready": true, "status": "loaded"})
	}))
	defer ts.Close()

	if !newLocalTestClient(ts.URL).Ready(context.Background()) {
		t.Fatalf("loaded model must report ready")
	}
}

func TestLocalReady_StillLoading(t *testing.T) {
	// Downloaded but not yet in memory is not ready.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"ready": false, "is_loading": true, "status": "loading"})
	}))
	defer ts.Close()

	if newLocalTestClient(ts.URL).Ready(context.Background()) {
		t.Fatalf("loading model must not report ready")
	}
}

func TestLocalReady_RuntimeDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	if newLocalTestClient(ts.URL).Ready(context.Background()) {
		t.Fatalf("unreachable runtime must not report ready")
	}
}

func TestLocalChat_Blocking(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var payload struct {
			Stream bool `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if payload.Stream {
			t.Fatalf("blocking call must set stream=false")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"content": "local answer"},
			"done":    true,
		})
	}))
	defer ts.Close()

	res, err := newLocalTestClient(ts.URL).Chat(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if res.Text != "local answer" {
		t.Fatalf("text = %q", res.Text)
	}
}

func TestLocalChatStream_FragmentsAndDone(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Stream bool `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if !payload.Stream {
			t.Fatalf("streaming call must set stream=true")
		}
		fmt.Fprintln(w, `{"message":{"content":"Hello"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":" world"},"done":false}`)
		fmt.Fprintln(w, `{"message":{"content":""},"done":true}`)
	}))
	defer ts.Close()

	var got []string
	err := newLocalTestClient(ts.URL).ChatStream(context.Background(), Request{}, func(fragment string) {
		got = append(got, fragment)
	})
	if err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	want := []string{"Hello", " world", StreamDone}
	if len(got) != len(want) {
		t.Fatalf("fragments = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fragment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLocalChatStream_RuntimeErrorBecomesMarker(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"partial"},"done":false}`)
		fmt.Fprintln(w, `{"error":"model ran out of memory"}`)
	}))
	defer ts.Close()

	var got []string
	err := newLocalTestClient(ts.URL).ChatStream(context.Background(), Request{}, func(fragment string) {
		got = append(got, fragment)
	})
	if err != nil {
		t.Fatalf("runtime errors arrive via the marker, not the return value: %v", err)
	}
	last := got[len(got)-1]
	if !strings.HasPrefix(last, StreamErrorPrefix) {
		t.Fatalf("last fragment = %q, want error marker", last)
	}
	if !strings.Contains(last, "model ran out of memory") {
		t.Fatalf("runtime message not passed through: %q", last)
	}
}

func TestLocalChatStream_HTTPErrorBecomesMarker(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	var got []string
	err := newLocalTestClient(ts.URL).ChatStream(context.Background(), Request{}, func(fragment string) {
		got = append(got, fragment)
	})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if len(got) != 1 || !strings.HasPrefix(got[0], StreamErrorPrefix) {
		t.Fatalf("fragments = %v, want a single error marker", got)
	}
}

func TestLocalChatStream_MalformedChunkBecomesMarker(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"ok"},"done":false}`)
		fmt.Fprintln(w, `this is not json`)
	}))
	defer ts.Close()

	var got []string
	if err := newLocalTestClient(ts.URL).ChatStream(context.Background(), Request{}, func(fragment string) {
		got = append(got, fragment)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := got[len(got)-1]
	if !strings.HasPrefix(last, StreamErrorPrefix) {
		t.Fatalf("malformed chunk must produce an error marker, got %q", last)
	}
}

func TestLocalChatStream_TruncatedStreamNoMarker(t *testing.T) {
	// A stream that ends without done emits neither marker; the caller's
	// timer decides what happens to the partial text.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"cut off"},"done":false}`)
	}))
	defer ts.Close()

	var got []string
	if err := newLocalTestClient(ts.URL).ChatStream(context.Background(), Request{}, func(fragment string) {
		got = append(got, fragment)
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "cut off" {
		t.Fatalf("fragments = %v", got)
	}
}
