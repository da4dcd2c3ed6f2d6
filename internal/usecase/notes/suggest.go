package notes

import (
	"context"

	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

// SuggestFolder recommends a destination folder for a note. Advisory: every
// failure path, from engine resolution to parsing, yields no suggestion
// rather than an error, and low-confidence picks are withheld.
func (s *noteService) SuggestFolder(ctx context.Context, content, title string, folders []entities.Folder) (*entities.Suggestion, error) {
	if len(folders) == 0 {
		return nil, nil
	}

	engine, err := s.resolveAdvisory(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("no engine available for folder suggestion", zap.Error(err))
		}
		return nil, nil
	}

	raw, err := s.generate(ctx, engine, ai.Request{
		Messages:    buildFolderSuggestionMessages(content, title, folders),
		MaxTokens:   s.synth.SuggestionMaxTokens,
		Temperature: suggestionTemperature,
		JSONMode:    true,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ folder suggestion call failed", zap.Error(err))
		}
		return nil, nil
	}

	suggestion := parseSuggestion(raw, func(choice int) string {
		if choice < 1 || choice > len(folders) {
			return ""
		}
		return folders[choice-1].ID
	})
	if !suggestion.Surfaceable() {
		return nil, nil
	}

	if s.logger != nil {
		s.logger.Info("suggested folder",
			zap.String("folder_id", suggestion.ID),
			zap.String("confidence", string(suggestion.Confidence)),
		)
	}
	return suggestion, nil
}

// SuggestTemplate recommends a note template for a meeting. Same advisory
// contract as SuggestFolder.
func (s *noteService) SuggestTemplate(ctx context.Context, title, rawNotes, transcriptPreview string, templates []entities.Template) (*entities.Suggestion, error) {
	if len(templates) == 0 {
		return nil, nil
	}

	engine, err := s.resolveAdvisory(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Debug("no engine available for template suggestion", zap.Error(err))
		}
		return nil, nil
	}

	raw, err := s.generate(ctx, engine, ai.Request{
		Messages:    buildTemplateSuggestionMessages(title, rawNotes, transcriptPreview, templates),
		MaxTokens:   s.synth.SuggestionMaxTokens,
		Temperature: suggestionTemperature,
		JSONMode:    true,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ template suggestion call failed", zap.Error(err))
		}
		return nil, nil
	}

	suggestion := parseSuggestion(raw, func(choice int) string {
		if choice < 1 || choice > len(templates) {
			return ""
		}
		return templates[choice-1].ID
	})
	if !suggestion.Surfaceable() {
		return nil, nil
	}

	if s.logger != nil {
		s.logger.Info("suggested template",
			zap.String("template_id", suggestion.ID),
			zap.String("confidence", string(suggestion.Confidence)),
		)
	}
	return suggestion, nil
}
