package notes

import (
	"context"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/johnquangdev/notegen/internal/domain/entities"
)

const structuredDoc = `The team aligned on the Q3 launch plan and assigned owners.

# Key Points
- Launch moves to September 12.
- Marketing assets are blocked on final copy.

# Action Items
- Anna owns the release checklist, due Friday.`

// structuredBody is the notes body of structuredDoc: everything from the
// first heading onward.
const structuredBody = `# Key Points
- Launch moves to September 12.
- Marketing assets are blocked on final copy.

# Action Items
- Anna owns the release checklist, due Friday.`

func TestGenerateEnhancedNotes_ShortTranscriptSinglePass(t *testing.T) {
	remote := &fakeRemote{configured: true, responses: []string{structuredDoc}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: strings.Repeat("a", 2000),
		RawNotes:   "launch friday", // below the merge threshold
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("backend calls = %d, want exactly 1 (no chunking, no merge)", remote.calls)
	}
	if res.EnhancedNotes != structuredBody {
		t.Fatalf("enhanced notes must start at the first heading, got %q", res.EnhancedNotes)
	}
	if !strings.Contains(res.Summary, "Q3 launch plan") {
		t.Fatalf("summary should be the pre-heading text, got %q", res.Summary)
	}
	if strings.Contains(res.EnhancedNotes, "Q3 launch plan") {
		t.Fatalf("summary text must not repeat inside the notes body")
	}
	// Sparse notes ride along inside the structuring prompt.
	if !strings.Contains(remote.requests[0].Messages[1].Content, "launch friday") {
		t.Fatalf("sparse raw notes missing from the structuring prompt")
	}
}

func TestGenerateEnhancedNotes_LongTranscriptChunked(t *testing.T) {
	remote := &fakeRemote{configured: true, responses: []string{
		"opening facts", "middle facts A", "middle facts B", "closing decisions", structuredDoc,
	}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	_, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: strings.Repeat("a", 20000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Four window extractions plus one structuring pass.
	if remote.calls != 5 {
		t.Fatalf("backend calls = %d, want 5", remote.calls)
	}

	pass1Input := remote.requests[4].Messages[1].Content
	for _, piece := range []string{"opening facts", "middle facts A", "middle facts B", "closing decisions"} {
		if !strings.Contains(pass1Input, piece) {
			t.Fatalf("structuring prompt missing chunk output %q", piece)
		}
	}
	if strings.Index(pass1Input, "opening facts") > strings.Index(pass1Input, "closing decisions") {
		t.Fatalf("chunk outputs out of order in the structuring prompt")
	}
	// The closing window gets the larger token budget.
	if got := remote.requests[3].MaxTokens; got != 1200 {
		t.Fatalf("closing chunk max tokens = %d, want 1200", got)
	}
	if got := remote.requests[1].MaxTokens; got != 800 {
		t.Fatalf("middle chunk max tokens = %d, want 800", got)
	}
}

func TestGenerateEnhancedNotes_SubstantialNotesMergedWithChunking(t *testing.T) {
	mergedDoc := structuredDoc + "\n- From my notes: double-check the pricing page."
	remote := &fakeRemote{configured: true, responses: []string{
		structuredDoc, // structuring pass
		"condensed user notes",
		mergedDoc, // merge pass
	}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: strings.Repeat("a", 2000),
		RawNotes:   strings.Repeat("n", 5000), // above merge and chunk thresholds
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Structuring pass, one notes condensation window, merge pass.
	if remote.calls != 3 {
		t.Fatalf("backend calls = %d, want 3", remote.calls)
	}
	if res.EnhancedNotes != structuredBody+"\n- From my notes: double-check the pricing page." {
		t.Fatalf("expected the merged document's body as final notes, got %q", res.EnhancedNotes)
	}
	if !strings.Contains(remote.requests[2].Messages[1].Content, "condensed user notes") {
		t.Fatalf("merge prompt should carry the condensed notes")
	}
	// Substantial notes must not leak verbatim into the structuring pass.
	if strings.Contains(remote.requests[0].Messages[1].Content, strings.Repeat("n", 50)) {
		t.Fatalf("substantial raw notes leaked into the structuring prompt")
	}
}

func TestGenerateEnhancedNotes_MergeGuardKeepsStructured(t *testing.T) {
	remote := &fakeRemote{configured: true, responses: []string{
		structuredDoc,
		"ok", // truncated merge output, far below half the structured length
	}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: "short",
		RawNotes:   strings.Repeat("n", 600), // substantial but below chunking
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.EnhancedNotes != structuredBody {
		t.Fatalf("truncated merge must be rejected in favor of the structured document")
	}
}

func TestGenerateEnhancedNotes_MergeFailureKeepsStructured(t *testing.T) {
	// The structuring pass succeeds; the merge pass fails.
	callCount := 0
	remote := &scriptedRemote{fn: func() (string, error) {
		callCount++
		if callCount == 1 {
			return structuredDoc, nil
		}
		return "", errFlaky
	}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: "short",
		RawNotes:   strings.Repeat("n", 600),
	})
	if err != nil {
		t.Fatalf("merge failure must not fail the pipeline: %v", err)
	}
	if res.EnhancedNotes != structuredBody {
		t.Fatalf("expected structured document after merge failure")
	}
}

func TestGenerateEnhancedNotes_StructuringFailureIsFatal(t *testing.T) {
	remote := &fakeRemote{configured: true, err: errFlaky}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	_, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{Transcript: "short"})
	if err == nil {
		t.Fatalf("structuring pass failure must surface")
	}
}

func TestGenerateEnhancedNotes_ChunkFailureDegradesToExcerpt(t *testing.T) {
	callCount := 0
	remote := &scriptedRemote{fn: func() (string, error) {
		callCount++
		if callCount == 2 {
			// Second window extraction fails.
			return "", errFlaky
		}
		if callCount == 5 {
			return structuredDoc, nil
		}
		return "chunk facts", nil
	}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	transcript := strings.Repeat("a", 5700) + strings.Repeat("B", 6000) + strings.Repeat("c", 8300)
	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{Transcript: transcript})
	if err != nil {
		t.Fatalf("one failed window must not fail the meeting: %v", err)
	}
	if res == nil || res.EnhancedNotes == "" {
		t.Fatalf("expected notes despite a failed window")
	}
	// The failed window appears as a raw excerpt in the structuring prompt.
	pass1Input := remote.requests[len(remote.requests)-1].Messages[1].Content
	if !strings.Contains(pass1Input, "BBBB") {
		t.Fatalf("raw excerpt of the failed window missing from the structuring prompt")
	}
}

func TestGenerateEnhancedNotes_TemplateSectionsUsed(t *testing.T) {
	sections := `[{"heading":"Risks","instruction":"List every risk raised."},{"heading":"Next Steps"}]`
	templates := &fakeTemplates{templates: []entities.Template{{
		ID:       "tmpl-risks",
		Name:     "Risk Review",
		Sections: datatypes.JSON([]byte(sections)),
	}}}
	remote := &fakeRemote{configured: true, responses: []string{structuredDoc}}
	s := newTestServiceWith(remote, &fakeLocal{}, newMemPrefs(), templates)
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: "short",
		TemplateID: "tmpl-risks",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.TemplateID != "tmpl-risks" {
		t.Fatalf("result template id = %q", res.TemplateID)
	}
	system := remote.requests[0].Messages[0].Content
	if !strings.Contains(system, "## Risks") || !strings.Contains(system, "## Next Steps") {
		t.Fatalf("template sections missing from the structuring prompt:\n%s", system)
	}
}

func TestGenerateEnhancedNotes_UnknownTemplateFallsBack(t *testing.T) {
	remote := &fakeRemote{configured: true, responses: []string{structuredDoc}}
	s := newTestService(remote, &fakeLocal{})
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: "short",
		TemplateID: "missing",
	})
	if err != nil {
		t.Fatalf("missing template must not fail generation: %v", err)
	}
	if res.TemplateID != "" {
		t.Fatalf("fallback must clear the template id, got %q", res.TemplateID)
	}
	if !strings.Contains(remote.requests[0].Messages[0].Content, "## Action Items") {
		t.Fatalf("default sections missing from the structuring prompt")
	}
}

func TestGenerateEnhancedNotes_NilTemplateRegistry(t *testing.T) {
	// A service wired without a registry still honors template-carrying
	// requests by falling back to the default sections.
	remote := &fakeRemote{configured: true, responses: []string{structuredDoc}}
	s := NewNoteService(remote, &fakeLocal{}, newMemPrefs(), nil, testConfig(), nil).(*noteService)
	selectEngine(t, s, entities.EngineRemote)

	res, err := s.GenerateEnhancedNotes(context.Background(), NoteRequest{
		Transcript: "short",
		TemplateID: "tmpl-risks",
	})
	if err != nil {
		t.Fatalf("missing registry must not fail generation: %v", err)
	}
	if res.TemplateID != "" {
		t.Fatalf("no registry means no template id, got %q", res.TemplateID)
	}
	if !strings.Contains(remote.requests[0].Messages[0].Content, "## Action Items") {
		t.Fatalf("default sections missing from the structuring prompt")
	}
}
