package entities

// SuggestionConfidence grades how much a suggestion should be trusted. Only
// high and medium confidence results are surfaced to users.
type SuggestionConfidence string

const (
	ConfidenceHigh   SuggestionConfidence = "high"
	ConfidenceMedium SuggestionConfidence = "medium"
	ConfidenceLow    SuggestionConfidence = "low"
)

// Suggestion is an advisory folder or template recommendation.
type Suggestion struct {
	ID         string               `json:"id"`
	Confidence SuggestionConfidence `json:"confidence"`
	Reason     string               `json:"reason,omitempty"`
}

// Surfaceable reports whether the suggestion is confident enough to show.
func (s *Suggestion) Surfaceable() bool {
	if s == nil {
		return false
	}
	return s.Confidence == ConfidenceHigh || s.Confidence == ConfidenceMedium
}
