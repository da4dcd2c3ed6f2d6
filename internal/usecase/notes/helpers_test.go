package notes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
	"github.com/johnquangdev/notegen/pkg/config"
)

// fakeRemote scripts the remote backend. Responses are consumed in call
// order; once exhausted the last one repeats.
type fakeRemote struct {
	configured bool
	responses  []string
	err        error

	calls    int
	requests []ai.Request
}

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) Chat(ctx context.Context, req ai.Request) (*ai.Result, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ai.Result{Text: f.nextResponse()}, nil
}

func (f *fakeRemote) nextResponse() string {
	if len(f.responses) == 0 {
		return "ok"
	}
	if f.calls <= len(f.responses) {
		return f.responses[f.calls-1]
	}
	return f.responses[len(f.responses)-1]
}

// fakeLocal scripts the local backend through the blocking path.
type fakeLocal struct {
	ready      bool
	readyAfter int // readiness probes before Ready flips true; 0 means never
	responses  []string
	err        error

	probes   int
	calls    int
	requests []ai.Request
}

func (f *fakeLocal) Ready(ctx context.Context) bool {
	f.probes++
	if f.readyAfter > 0 && f.probes >= f.readyAfter {
		f.ready = true
	}
	return f.ready
}

func (f *fakeLocal) Chat(ctx context.Context, req ai.Request) (*ai.Result, error) {
	f.calls++
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.responses) == 0 {
		return &ai.Result{Text: "ok"}, nil
	}
	if f.calls <= len(f.responses) {
		return &ai.Result{Text: f.responses[f.calls-1]}, nil
	}
	return &ai.Result{Text: f.responses[len(f.responses)-1]}, nil
}

// fakeStreamer is a local backend with incremental delivery. Fragments are
// replayed in order; hang keeps the stream open without a terminal marker so
// timeout behavior can be observed.
type fakeStreamer struct {
	fakeLocal
	fragments []string
	hang      bool
	streamErr error
}

func (f *fakeStreamer) ChatStream(ctx context.Context, req ai.Request, onChunk func(string)) error {
	f.calls++
	f.requests = append(f.requests, req)
	if f.streamErr != nil {
		return f.streamErr
	}
	for _, frag := range f.fragments {
		onChunk(frag)
	}
	if f.hang {
		<-ctx.Done()
	}
	return nil
}

var errFlaky = errors.New("backend hiccup")

// scriptedRemote drives each call through a function, for per-call failure
// scripts the slice-based fake cannot express.
type scriptedRemote struct {
	fn       func() (string, error)
	requests []ai.Request
}

func (f *scriptedRemote) Configured() bool { return true }

func (f *scriptedRemote) Chat(ctx context.Context, req ai.Request) (*ai.Result, error) {
	f.requests = append(f.requests, req)
	text, err := f.fn()
	if err != nil {
		return nil, err
	}
	return &ai.Result{Text: text}, nil
}

// memPrefs is an in-memory PreferenceStore.
type memPrefs struct {
	mu     sync.RWMutex
	values map[string]string
}

func newMemPrefs() *memPrefs { return &memPrefs{values: make(map[string]string)} }

func (m *memPrefs) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *memPrefs) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// fakeTemplates serves a fixed template set.
type fakeTemplates struct {
	templates []entities.Template
}

func (f *fakeTemplates) FindByID(ctx context.Context, id string) (*entities.Template, error) {
	for i := range f.templates {
		if f.templates[i].ID == id {
			return &f.templates[i], nil
		}
	}
	return nil, errors.New("template not found")
}

func (f *fakeTemplates) List(ctx context.Context) ([]entities.Template, error) {
	return f.templates, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Local: config.LocalEngineConfig{
			ReadinessRetries: 2,
			ReadinessDelay:   time.Millisecond,
			StreamTimeout:    100 * time.Millisecond,
		},
		Synthesis: config.SynthesisConfig{
			ChunkThreshold:        4000,
			ChunkWindowSize:       6000,
			ChunkOverlap:          300,
			MergeThreshold:        500,
			MergeGuardRatio:       0.5,
			ChunkMaxTokens:        800,
			ClosingChunkMaxTokens: 1200,
			Pass1MaxTokens:        2000,
			Pass2MaxTokens:        2000,
			AnswerMaxTokens:       600,
			SuggestionMaxTokens:   150,
		},
	}
}

func newTestService(remote RemoteEngine, local LocalEngine) *noteService {
	return newTestServiceWith(remote, local, newMemPrefs(), &fakeTemplates{})
}

func newTestServiceWith(remote RemoteEngine, local LocalEngine, prefs *memPrefs, templates *fakeTemplates) *noteService {
	return NewNoteService(remote, local, prefs, templates, testConfig(), nil).(*noteService)
}

func selectEngine(t interface{ Fatalf(string, ...interface{}) }, s *noteService, engine entities.EngineCapability) {
	if err := s.SetEnginePreference(context.Background(), engine); err != nil {
		t.Fatalf("set preference: %v", err)
	}
}
