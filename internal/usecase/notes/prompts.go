package notes

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

// Sampling temperatures per call type. Extraction and suggestion calls want
// near-deterministic output; answering a question tolerates a little more.
const (
	extractionTemperature = 0.2
	synthesisTemperature  = 0.3
	answerTemperature     = 0.3
	suggestionTemperature = 0.1
)

// defaultSections is the layout used when no template is selected or the
// selected template cannot be loaded.
var defaultSections = []entities.TemplateSection{
	{Heading: "Summary", Instruction: "Two or three sentences capturing what the meeting was about and what changed."},
	{Heading: "Key Points", Instruction: "The main topics discussed, in the order they mattered."},
	{Heading: "Decisions", Instruction: "Every decision that was made, with who made it when that is clear."},
	{Heading: "Action Items", Instruction: "Each action item with its owner and deadline when stated."},
	{Heading: "Open Questions", Instruction: "Questions raised but not resolved."},
}

func sectionOutline(sections []entities.TemplateSection) string {
	var sb strings.Builder
	for _, sec := range sections {
		sb.WriteString("## ")
		sb.WriteString(sec.Heading)
		sb.WriteByte('\n')
		if sec.Instruction != "" {
			sb.WriteString(sec.Instruction)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func languageDirective(outputLanguage string) string {
	if outputLanguage == "" {
		return "Write in the same language as the transcript."
	}
	return fmt.Sprintf("Write the output in %s.", outputLanguage)
}

// buildChunkExtractionMessages prompts for a dense extraction of one
// transcript window. The instruction varies by positional role: the closing
// window is where decisions, deadlines and blockers land, and it must never
// be summarized more aggressively than earlier windows.
func buildChunkExtractionMessages(chunk entities.TranscriptChunk, total int, outputLanguage string) []ai.Message {
	var roleHint string
	switch chunk.Role {
	case entities.ChunkRoleOpening:
		roleHint = "This is the opening part of the meeting. Capture attendees, context and the agenda as stated."
	case entities.ChunkRoleClosing:
		roleHint = "This is the closing part of the meeting. Decisions, action items, deadlines, risks and blockers agreed here are the most important content of the whole transcript. Extract all of them explicitly. Do not compress or drop late items."
	default:
		roleHint = "This is a middle part of the meeting. Capture the discussion points, any decisions and any action items raised here."
	}

	system := strings.Join([]string{
		"You extract structured facts from one part of a meeting transcript.",
		"Output concise bullet points: topics discussed, decisions made, action items with owners and deadlines, open questions.",
		"Keep every name, number and date exactly as spoken. Do not invent content.",
		roleHint,
		languageDirective(outputLanguage),
	}, " ")

	user := fmt.Sprintf("Transcript part %d of %d:\n\n%s", chunk.Index+1, total, chunk.Text)

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: user},
	}
}

// buildPass1Messages prompts the structuring pass: one full document from
// the transcript (or its combined chunk extractions) laid out along the
// template sections.
func buildPass1Messages(req NoteRequest, transcriptMaterial string, sections []entities.TemplateSection, notesSubstantial bool) []ai.Message {
	var sb strings.Builder
	sb.WriteString("You turn a meeting transcript into well-structured notes.\n")
	sb.WriteString("Order content by importance and group it by topic, not by when it was said.\n")
	sb.WriteString("When the same point recurs, state it once and keep the earliest owner and deadline mentioned.\n")
	sb.WriteString("Use exactly these sections, in this order, as markdown headings:\n\n")
	sb.WriteString(sectionOutline(sections))
	sb.WriteString("\nLeave a section empty rather than inventing content for it.\n")
	sb.WriteString(languageDirective(req.OutputLanguage))

	var user strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&user, "Meeting: %s\n", req.Title)
	}
	if req.MeetingInfo != "" {
		fmt.Fprintf(&user, "Context: %s\n", req.MeetingInfo)
	}
	user.WriteString("\nTranscript material:\n\n")
	user.WriteString(transcriptMaterial)

	if req.RawNotes != "" {
		if notesSubstantial {
			// Substantial notes get their own merge pass; here they only
			// mark that a participant perspective exists.
			user.WriteString("\n\nThe participant also took their own notes; those are merged in a separate step.")
		} else {
			user.WriteString("\n\nThe participant's own notes, to fold in where they add detail:\n\n")
			user.WriteString(req.RawNotes)
		}
	}

	return []ai.Message{
		{Role: ai.RoleSystem, Content: sb.String()},
		{Role: ai.RoleUser, Content: user.String()},
	}
}

// buildPass2Messages prompts the merge pass: weave the participant's own
// notes into the structured document produced by the first pass.
func buildPass2Messages(req NoteRequest, structured, notesMaterial string) []ai.Message {
	system := strings.Join([]string{
		"You merge a participant's personal meeting notes into an already structured notes document.",
		"Interleave their points into the matching sections; never append them as a separate block at the end.",
		"Keep every section heading and every fact of the structured document. The merged result must not lose content.",
		languageDirective(req.OutputLanguage),
	}, " ")

	user := fmt.Sprintf("Structured notes:\n\n%s\n\nParticipant notes to merge in:\n\n%s", structured, notesMaterial)

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: user},
	}
}

// questionContextRunes caps how much transcript and notes are packed into a
// question prompt.
const questionContextRunes = 8000

// buildQuestionMessages prompts a grounded answer about one meeting.
func buildQuestionMessages(req QuestionRequest) []ai.Message {
	const maxContextRunes = questionContextRunes
	system := "You answer questions about one specific meeting. Base the answer only on the transcript and notes provided. If they do not contain the answer, say so plainly."

	var user strings.Builder
	if req.Title != "" {
		fmt.Fprintf(&user, "Meeting: %s\n\n", req.Title)
	}
	if req.Notes != "" {
		fmt.Fprintf(&user, "Notes:\n%s\n\n", clipText(req.Notes, maxContextRunes))
	}
	if req.Transcript != "" {
		fmt.Fprintf(&user, "Transcript:\n%s\n\n", clipText(req.Transcript, maxContextRunes))
	}
	fmt.Fprintf(&user, "Question: %s", req.Question)

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: user.String()},
	}
}

const suggestionResponseShape = `Respond with a single JSON object, nothing else:
{"choice": <1-based number of the best option, or 0 if none fits>, "confidence": "high"|"medium"|"low", "reason": "<one short sentence>"}`

// buildFolderSuggestionMessages prompts a pick of the best destination
// folder for a note.
func buildFolderSuggestionMessages(content, title string, folders []entities.Folder) []ai.Message {
	var options strings.Builder
	for i, f := range folders {
		fmt.Fprintf(&options, "%d. %s", i+1, f.Name)
		if f.Description != "" {
			fmt.Fprintf(&options, " - %s", f.Description)
		}
		options.WriteByte('\n')
	}

	system := "You file meeting notes into the folder that fits best. Pick from the numbered options only.\n" + suggestionResponseShape

	var user strings.Builder
	if title != "" {
		fmt.Fprintf(&user, "Note title: %s\n\n", title)
	}
	fmt.Fprintf(&user, "Note content:\n%s\n\nFolders:\n%s", clipText(content, 2000), options.String())

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: user.String()},
	}
}

// buildTemplateSuggestionMessages prompts a pick of the note template that
// fits an upcoming or just-finished meeting.
func buildTemplateSuggestionMessages(title, rawNotes, transcriptPreview string, templates []entities.Template) []ai.Message {
	var options strings.Builder
	for i, t := range templates {
		fmt.Fprintf(&options, "%d. %s", i+1, t.Name)
		if t.Description != "" {
			fmt.Fprintf(&options, " - %s", t.Description)
		}
		options.WriteByte('\n')
	}

	system := "You pick the note template that best matches a meeting. Pick from the numbered options only.\n" + suggestionResponseShape

	var user strings.Builder
	if title != "" {
		fmt.Fprintf(&user, "Meeting title: %s\n\n", title)
	}
	if rawNotes != "" {
		fmt.Fprintf(&user, "Notes so far:\n%s\n\n", clipText(rawNotes, 1500))
	}
	if transcriptPreview != "" {
		fmt.Fprintf(&user, "Transcript preview:\n%s\n\n", clipText(transcriptPreview, 1500))
	}
	fmt.Fprintf(&user, "Templates:\n%s", options.String())

	return []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: user.String()},
	}
}

// clipText truncates to at most limit runes, marking the cut.
func clipText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "\n[...]"
}
