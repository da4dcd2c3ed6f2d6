package notes

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

// GenerateEnhancedNotes runs the full synthesis pipeline for one meeting:
// chunk extraction for oversized transcripts, a structuring pass over the
// transcript material, and a conditional merge pass that weaves substantial
// user notes into the structured document.
//
// The structuring pass is the only fatal step. A failed merge pass keeps the
// structured result; a failed chunk call degrades that chunk to a raw
// excerpt inside summarizeChunks.
func (s *noteService) GenerateEnhancedNotes(ctx context.Context, req NoteRequest) (*entities.NoteResult, error) {
	engine, err := s.resolveStrict(ctx, opNotes)
	if err != nil {
		return nil, err
	}

	sections, templateID := s.resolveSections(ctx, req.TemplateID)

	transcriptMaterial := req.Transcript
	transcriptChunked := false
	if runeLen(req.Transcript) > s.synth.ChunkThreshold {
		chunks := s.chunker.split(req.Transcript)
		if s.logger != nil {
			s.logger.Info("🔄 chunking transcript",
				zap.Int("transcript_length", runeLen(req.Transcript)),
				zap.Int("chunks", len(chunks)),
			)
		}
		summaries := s.summarizeChunks(ctx, engine, chunks, req.OutputLanguage)
		transcriptMaterial = combineSummaries(summaries)
		transcriptChunked = true
	}

	notesSubstantial := runeLen(req.RawNotes) > s.synth.MergeThreshold

	structured, err := s.generate(ctx, engine, ai.Request{
		Messages:    buildPass1Messages(req, transcriptMaterial, sections, notesSubstantial),
		MaxTokens:   s.synth.Pass1MaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		return nil, err
	}
	structured = strings.TrimSpace(structured)

	final := structured
	if notesSubstantial {
		if merged, ok := s.mergeNotes(ctx, engine, req, structured); ok {
			final = merged
		}
	}

	summary, body := splitSummary(final)

	if s.logger != nil {
		s.logger.Info("✅ notes generated",
			zap.String("engine", string(engine)),
			zap.Bool("transcript_chunked", transcriptChunked),
			zap.Bool("notes_merged", notesSubstantial && final != structured),
			zap.Int("notes_length", runeLen(body)),
		)
	}

	return &entities.NoteResult{
		Summary:       summary,
		EnhancedNotes: body,
		TemplateID:    templateID,
	}, nil
}

// mergeNotes runs the merge pass. User notes beyond the chunking threshold
// are condensed through the chunking engine first, so one merge call always
// fits. The merged document is kept only when it plausibly retained the
// structured content; a result shorter than half the structured document has
// almost certainly dropped sections.
func (s *noteService) mergeNotes(ctx context.Context, engine entities.EngineCapability, req NoteRequest, structured string) (string, bool) {
	notesMaterial := req.RawNotes
	if runeLen(notesMaterial) > s.synth.ChunkThreshold {
		chunks := s.chunker.split(notesMaterial)
		summaries := s.summarizeChunks(ctx, engine, chunks, req.OutputLanguage)
		notesMaterial = combineSummaries(summaries)
	}

	merged, err := s.generate(ctx, engine, ai.Request{
		Messages:    buildPass2Messages(req, structured, notesMaterial),
		MaxTokens:   s.synth.Pass2MaxTokens,
		Temperature: synthesisTemperature,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ merge pass failed, keeping structured notes", zap.Error(err))
		}
		return "", false
	}
	merged = strings.TrimSpace(merged)

	minLen := int(float64(runeLen(structured)) * s.synth.MergeGuardRatio)
	if runeLen(merged) < minLen {
		if s.logger != nil {
			s.logger.Warn("⚠️ merge result rejected as truncated",
				zap.Int("structured_length", runeLen(structured)),
				zap.Int("merged_length", runeLen(merged)),
				zap.Error(entities.ErrMergeRejected),
			)
		}
		return "", false
	}

	return merged, true
}

// resolveSections loads the requested template's sections, falling back to
// the default layout when none is selected or the lookup fails. The returned
// template ID is empty whenever the fallback was used.
func (s *noteService) resolveSections(ctx context.Context, templateID string) ([]entities.TemplateSection, string) {
	if templateID == "" || s.templates == nil {
		return defaultSections, ""
	}

	tmpl, err := s.templates.FindByID(ctx, templateID)
	if err != nil || tmpl == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ template not found, using default sections",
				zap.String("template_id", templateID),
				zap.Error(err),
			)
		}
		return defaultSections, ""
	}

	var sections []entities.TemplateSection
	if err := json.Unmarshal(tmpl.Sections, &sections); err != nil || len(sections) == 0 {
		if s.logger != nil {
			s.logger.Warn("⚠️ template sections unreadable, using default sections",
				zap.String("template_id", templateID),
				zap.Error(err),
			)
		}
		return defaultSections, ""
	}

	return sections, tmpl.ID
}

func runeLen(s string) int {
	return len([]rune(s))
}
