package notes

// GenerateNotesRequest represents the request to generate enhanced notes
type GenerateNotesRequest struct {
	Transcript     string `json:"transcript" validate:"required,min=1"`
	RawNotes       string `json:"raw_notes,omitempty"`
	Title          string `json:"title,omitempty" validate:"max=500"`
	MeetingInfo    string `json:"meeting_info,omitempty"`
	OutputLanguage string `json:"output_language,omitempty" validate:"max=64"`
	TemplateID     string `json:"template_id,omitempty"`
}

// AskQuestionRequest represents a question about one meeting
type AskQuestionRequest struct {
	Question   string `json:"question" validate:"required,min=1,max=2000"`
	Transcript string `json:"transcript,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Title      string `json:"title,omitempty" validate:"max=500"`
}

// SuggestFolderRequest asks for a destination folder recommendation
type SuggestFolderRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	Title   string `json:"title,omitempty" validate:"max=500"`
}

// SuggestTemplateRequest asks for a note template recommendation
type SuggestTemplateRequest struct {
	Title             string `json:"title,omitempty" validate:"max=500"`
	RawNotes          string `json:"raw_notes,omitempty"`
	TranscriptPreview string `json:"transcript_preview,omitempty"`
}

// SetEnginePreferenceRequest selects the engine used for generation
type SetEnginePreferenceRequest struct {
	Engine string `json:"engine" validate:"required,oneof=remote local"`
}
