package notes

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/johnquangdev/notegen/internal/domain/entities"
)

// suggestionPayload is the JSON shape suggestion prompts ask for.
type suggestionPayload struct {
	Choice     int    `json:"choice"`
	Confidence string `json:"confidence"`
	Reason     string `json:"reason"`
}

var leadingNumberRe = regexp.MustCompile(`^\s*(\d+)`)

// parseSuggestion decodes a suggestion response in layers. The strict JSON
// shape is tried first; a bare leading number is accepted as a medium
// confidence fallback; anything else yields no suggestion. resolve maps a
// 1-based option number to the option's ID, returning "" when out of range.
func parseSuggestion(raw string, resolve func(choice int) string) *entities.Suggestion {
	raw = extractJSON(raw)

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		if payload.Choice <= 0 {
			return nil
		}
		id := resolve(payload.Choice)
		if id == "" {
			return nil
		}
		confidence := entities.SuggestionConfidence(strings.ToLower(payload.Confidence))
		switch confidence {
		case entities.ConfidenceHigh, entities.ConfidenceMedium, entities.ConfidenceLow:
		default:
			confidence = entities.ConfidenceLow
		}
		return &entities.Suggestion{
			ID:         id,
			Confidence: confidence,
			Reason:     payload.Reason,
		}
	}

	// A model that ignored the JSON instruction but still led with an option
	// number is probably right, just sloppy.
	if m := leadingNumberRe.FindStringSubmatch(raw); m != nil {
		choice := 0
		for _, d := range m[1] {
			choice = choice*10 + int(d-'0')
		}
		id := resolve(choice)
		if id == "" {
			return nil
		}
		return &entities.Suggestion{ID: id, Confidence: entities.ConfidenceMedium}
	}

	return nil
}

// splitSummary separates a structured notes document into a short summary
// and the notes body. The text before the first markdown heading is the
// summary and everything from that heading onward is the body; documents
// without headings contribute a bounded leading segment as the summary and
// the rest as the body.
func splitSummary(text string) (summary, body string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}

	idx := firstHeadingIndex(text)
	if idx > 0 {
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx:])
	}
	if idx == 0 {
		// Document opens with a heading; synthesize nothing.
		return "", text
	}

	const summaryBudget = 280
	runes := []rune(text)
	if len(runes) <= summaryBudget {
		return text, ""
	}
	cut := summaryBudget
	// Prefer breaking at a sentence or line boundary inside the budget.
	if i := strings.LastIndexAny(string(runes[:summaryBudget]), ".!?\n"); i > summaryBudget/2 {
		cut = len([]rune(string(runes[:summaryBudget])[:i+1]))
	}
	return strings.TrimSpace(string(runes[:cut])), strings.TrimSpace(string(runes[cut:]))
}

// firstHeadingIndex returns the byte offset of the first markdown heading
// line, or -1 when there is none.
func firstHeadingIndex(text string) int {
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return offset
		}
		offset += len(line) + 1
	}
	return -1
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
