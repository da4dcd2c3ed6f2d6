package entities

// NoteResult is the externally visible artifact of note generation. Once
// returned it is owned by the caller; this layer keeps no reference.
type NoteResult struct {
	Summary       string `json:"summary"`
	EnhancedNotes string `json:"enhanced_notes"`
	TemplateID    string `json:"template_id,omitempty"`
}
