package notes

// GenerateNotesResponse carries the generated notes document
type GenerateNotesResponse struct {
	Summary       string `json:"summary"`
	EnhancedNotes string `json:"enhanced_notes"`
	TemplateID    string `json:"template_id,omitempty"`
}

// AskQuestionResponse carries the answer to a meeting question
type AskQuestionResponse struct {
	Answer string `json:"answer"`
}

// SuggestionResponse carries an advisory recommendation. ID is empty when no
// confident suggestion exists.
type SuggestionResponse struct {
	ID         string `json:"id,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// EnginePreferenceResponse reports the selected engine
type EnginePreferenceResponse struct {
	Engine string `json:"engine"`
}

// EngineStatusResponse reports derived readiness of both backends
type EngineStatusResponse struct {
	Selected    string `json:"selected"`
	RemoteReady bool   `json:"remote_ready"`
	LocalReady  bool   `json:"local_ready"`
}
