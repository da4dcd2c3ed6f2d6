package notes

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/internal/domain/repositories"
	"github.com/johnquangdev/notegen/pkg/ai"
	"github.com/johnquangdev/notegen/pkg/config"
)

// enginePreferenceKey is the persisted preference slot for engine selection.
const enginePreferenceKey = "engine.selected"

// RemoteEngine is the credential-gated remote inference backend.
type RemoteEngine interface {
	Chat(ctx context.Context, req ai.Request) (*ai.Result, error)
	Configured() bool
}

// LocalEngine is the resource-gated on-device inference backend. Ready must
// be a cheap synchronous probe: true only when the model is loaded into
// memory, not merely downloaded.
type LocalEngine interface {
	Chat(ctx context.Context, req ai.Request) (*ai.Result, error)
	Ready(ctx context.Context) bool
}

// StreamingEngine is implemented by local backends that support incremental
// delivery. Fragments arrive through onChunk, terminated by ai.StreamDone or
// an ai.StreamErrorPrefix-ed fragment. Backends without this interface fall
// back to the blocking Chat call.
type StreamingEngine interface {
	ChatStream(ctx context.Context, req ai.Request, onChunk func(fragment string)) error
}

// NoteRequest carries everything needed to generate enhanced notes for one
// meeting.
type NoteRequest struct {
	Transcript     string
	RawNotes       string
	Title          string
	MeetingInfo    string
	OutputLanguage string
	TemplateID     string
}

// QuestionRequest carries a free-form question about one meeting.
type QuestionRequest struct {
	Question   string
	Transcript string
	Notes      string
	Title      string
}

// Service defines the note-generation orchestration operations
type Service interface {
	ChatCompletion(ctx context.Context, messages []ai.Message, maxTokens int, temperature float64) (string, error)
	GenerateEnhancedNotes(ctx context.Context, req NoteRequest) (*entities.NoteResult, error)
	AskQuestion(ctx context.Context, req QuestionRequest) (string, error)
	SuggestFolder(ctx context.Context, content, title string, folders []entities.Folder) (*entities.Suggestion, error)
	SuggestTemplate(ctx context.Context, title, rawNotes, transcriptPreview string, templates []entities.Template) (*entities.Suggestion, error)

	EnginePreference(ctx context.Context) entities.EngineCapability
	SetEnginePreference(ctx context.Context, engine entities.EngineCapability) error
	EngineStatus(ctx context.Context) entities.EngineStatus
}

type noteService struct {
	remote    RemoteEngine
	local     LocalEngine
	prefs     repositories.PreferenceStore
	templates repositories.TemplateRegistry
	chunker   *chunker
	synth     config.SynthesisConfig
	localCfg  config.LocalEngineConfig
	logger    *zap.Logger
}

// NewNoteService constructs the orchestration service. Backends are explicit
// dependencies so tests can substitute fakes; templates may be nil when no
// registry is available.
func NewNoteService(
	remote RemoteEngine,
	local LocalEngine,
	prefs repositories.PreferenceStore,
	templates repositories.TemplateRegistry,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &noteService{
		remote:    remote,
		local:     local,
		prefs:     prefs,
		templates: templates,
		chunker:   newChunker(cfg.Synthesis.ChunkWindowSize, cfg.Synthesis.ChunkOverlap),
		synth:     cfg.Synthesis,
		localCfg:  cfg.Local,
		logger:    logger,
	}
}

// EnginePreference reads the persisted engine selection, defaulting to the
// local backend when nothing was stored yet.
func (s *noteService) EnginePreference(ctx context.Context) entities.EngineCapability {
	value, err := s.prefs.Get(ctx, enginePreferenceKey)
	if err != nil || value == "" {
		return entities.EngineLocal
	}
	engine, err := entities.ParseEngineCapability(value)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("invalid stored engine preference, falling back to local",
				zap.String("stored", value),
			)
		}
		return entities.EngineLocal
	}
	return engine
}

// SetEnginePreference persists the engine selection.
func (s *noteService) SetEnginePreference(ctx context.Context, engine entities.EngineCapability) error {
	if _, err := entities.ParseEngineCapability(string(engine)); err != nil {
		return err
	}
	return s.prefs.Set(ctx, enginePreferenceKey, string(engine))
}

// EngineStatus reports derived readiness of both backends.
func (s *noteService) EngineStatus(ctx context.Context) entities.EngineStatus {
	return entities.EngineStatus{
		Selected:    s.EnginePreference(ctx),
		RemoteReady: s.remote.Configured(),
		LocalReady:  s.local.Ready(ctx),
	}
}
