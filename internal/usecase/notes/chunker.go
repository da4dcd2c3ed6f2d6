package notes

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

const (
	// Raw excerpt budgets used when a per-chunk extraction call fails and
	// the chunk is injected verbatim instead of being dropped.
	rawExcerptRunes        = 1200
	closingRawExcerptRunes = 2000
)

// chunker splits oversized transcripts into overlapping windows so each
// extraction call sees local context from the previous window.
type chunker struct {
	windowSize int
	overlap    int
}

func newChunker(windowSize, overlap int) *chunker {
	if overlap >= windowSize {
		overlap = windowSize / 10
	}
	return &chunker{windowSize: windowSize, overlap: overlap}
}

// split carves text into windows of at most windowSize runes, each window
// starting overlap runes before the previous one ended. Offsets are rune
// based so multi-byte transcripts never split mid-character. Every rune of
// the input is covered by at least one window.
func (c *chunker) split(text string) []entities.TranscriptChunk {
	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return nil
	}
	if total <= c.windowSize {
		return []entities.TranscriptChunk{{
			Index: 0,
			Role:  c.roleFor(0, 1),
			Start: 0,
			End:   total,
			Text:  text,
		}}
	}

	step := c.windowSize - c.overlap
	var chunks []entities.TranscriptChunk
	for start := 0; start < total; start += step {
		end := start + c.windowSize
		if end >= total {
			end = total
		}
		chunks = append(chunks, entities.TranscriptChunk{
			Index: len(chunks),
			Start: start,
			End:   end,
			Text:  string(runes[start:end]),
		})
		if end == total {
			break
		}
	}
	for i := range chunks {
		chunks[i].Role = c.roleFor(i, len(chunks))
	}
	return chunks
}

// roleFor assigns positional roles. The closing role carries decisions and
// action items agreed late in the meeting, so when a single window is both
// first and last it is treated as closing.
func (c *chunker) roleFor(i, n int) entities.ChunkRole {
	switch {
	case i == n-1:
		return entities.ChunkRoleClosing
	case i == 0:
		return entities.ChunkRoleOpening
	default:
		return entities.ChunkRoleMiddle
	}
}

// summarizeChunks runs one extraction call per window, sequentially so chunk
// order is preserved and the backend is never hammered in parallel. A failed
// window degrades to a labeled raw excerpt; one bad call must not sink the
// whole meeting.
func (s *noteService) summarizeChunks(ctx context.Context, engine entities.EngineCapability, chunks []entities.TranscriptChunk, outputLanguage string) []entities.ChunkSummary {
	summaries := make([]entities.ChunkSummary, 0, len(chunks))
	for _, chunk := range chunks {
		label := fmt.Sprintf("Part %d of %d (%s)", chunk.Index+1, len(chunks), chunk.Role)

		maxTokens := s.synth.ChunkMaxTokens
		if chunk.Role == entities.ChunkRoleClosing {
			maxTokens = s.synth.ClosingChunkMaxTokens
		}

		req := ai.Request{
			Messages:    buildChunkExtractionMessages(chunk, len(chunks), outputLanguage),
			MaxTokens:   maxTokens,
			Temperature: extractionTemperature,
		}

		text, err := s.generate(ctx, engine, req)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ chunk extraction failed, falling back to raw excerpt",
					zap.Int("chunk_index", chunk.Index),
					zap.String("chunk_role", string(chunk.Role)),
					zap.Error(err),
				)
			}
			text = rawExcerpt(chunk)
		}
		summaries = append(summaries, entities.ChunkSummary{
			Index: chunk.Index,
			Label: label,
			Text:  strings.TrimSpace(text),
		})
	}
	return summaries
}

// rawExcerpt clips a failed chunk for verbatim injection. Closing chunks get
// a larger budget because late decisions and deadlines concentrate there.
func rawExcerpt(chunk entities.TranscriptChunk) string {
	budget := rawExcerptRunes
	if chunk.Role == entities.ChunkRoleClosing {
		budget = closingRawExcerptRunes
	}
	return clipText(chunk.Text, budget)
}

// combineSummaries stitches per-chunk outputs back together in order. The
// format is deterministic: the same summaries always produce the same
// combined document.
func combineSummaries(summaries []entities.ChunkSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		parts = append(parts, fmt.Sprintf("--- %s ---\n%s", sum.Label, sum.Text))
	}
	return strings.Join(parts, "\n\n")
}
