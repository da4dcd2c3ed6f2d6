package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/errors"
	dto "github.com/johnquangdev/notegen/internal/adapter/dto/notes"
	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/internal/domain/repositories"
	notesuse "github.com/johnquangdev/notegen/internal/usecase/notes"
)

// NotesController handles note generation and suggestion endpoints
type NotesController struct {
	svc       notesuse.Service
	templates repositories.TemplateRegistry
	folders   repositories.FolderRegistry
	logger    *zap.Logger
}

// NewNotesController creates a new notes controller
func NewNotesController(svc notesuse.Service, templates repositories.TemplateRegistry, folders repositories.FolderRegistry, logger *zap.Logger) *NotesController {
	return &NotesController{svc: svc, templates: templates, folders: folders, logger: logger}
}

// GenerateNotes generates enhanced notes for a meeting
// @Summary      Generate enhanced notes
// @Description  Runs the synthesis pipeline over a transcript and optional raw notes
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.GenerateNotesRequest  true  "Transcript and options"
// @Success      200      {object}  map[string]interface{}    "Generated notes"
// @Failure      400      {object}  map[string]interface{}    "Invalid payload"
// @Failure      412      {object}  map[string]interface{}    "Remote engine not configured"
// @Failure      503      {object}  map[string]interface{}    "Local engine not ready"
// @Router       /notes/generate [post]
func (nc *NotesController) GenerateNotes(c echo.Context) error {
	var req dto.GenerateNotesRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := nc.svc.GenerateEnhancedNotes(c.Request().Context(), notesuse.NoteRequest{
		Transcript:     req.Transcript,
		RawNotes:       req.RawNotes,
		Title:          req.Title,
		MeetingInfo:    req.MeetingInfo,
		OutputLanguage: req.OutputLanguage,
		TemplateID:     req.TemplateID,
	})
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	return HandleSuccess(nc.logger, c, dto.GenerateNotesResponse{
		Summary:       result.Summary,
		EnhancedNotes: result.EnhancedNotes,
		TemplateID:    result.TemplateID,
	})
}

// AskQuestion answers a question about one meeting
// @Summary      Ask about a meeting
// @Description  Answers a free-form question grounded in the meeting transcript and notes
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AskQuestionRequest  true  "Question and meeting context"
// @Success      200      {object}  map[string]interface{}  "Answer"
// @Failure      400      {object}  map[string]interface{}  "Invalid payload"
// @Router       /notes/ask [post]
func (nc *NotesController) AskQuestion(c echo.Context) error {
	var req dto.AskQuestionRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	answer, err := nc.svc.AskQuestion(c.Request().Context(), notesuse.QuestionRequest{
		Question:   req.Question,
		Transcript: req.Transcript,
		Notes:      req.Notes,
		Title:      req.Title,
	})
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	return HandleSuccess(nc.logger, c, dto.AskQuestionResponse{Answer: answer})
}

// SuggestFolder recommends a destination folder for a note
// @Summary      Suggest a folder
// @Description  Advisory folder recommendation; returns an empty suggestion when no engine is available or confidence is low
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SuggestFolderRequest  true  "Note content"
// @Success      200      {object}  map[string]interface{}    "Suggestion, possibly empty"
// @Failure      400      {object}  map[string]interface{}    "Invalid payload"
// @Router       /suggest/folder [post]
func (nc *NotesController) SuggestFolder(c echo.Context) error {
	var req dto.SuggestFolderRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	folders, err := nc.listFolders(c)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	suggestion, err := nc.svc.SuggestFolder(c.Request().Context(), req.Content, req.Title, folders)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	return HandleSuccess(nc.logger, c, toSuggestionResponse(suggestion))
}

// SuggestTemplate recommends a note template for a meeting
// @Summary      Suggest a template
// @Description  Advisory template recommendation; returns an empty suggestion when no engine is available or confidence is low
// @Tags         Suggestions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SuggestTemplateRequest  true  "Meeting context"
// @Success      200      {object}  map[string]interface{}      "Suggestion, possibly empty"
// @Failure      400      {object}  map[string]interface{}      "Invalid payload"
// @Router       /suggest/template [post]
func (nc *NotesController) SuggestTemplate(c echo.Context) error {
	var req dto.SuggestTemplateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(nc.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	templates, err := nc.listTemplates(c)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	suggestion, err := nc.svc.SuggestTemplate(c.Request().Context(), req.Title, req.RawNotes, req.TranscriptPreview, templates)
	if err != nil {
		return HandleError(nc.logger, c, err)
	}

	return HandleSuccess(nc.logger, c, toSuggestionResponse(suggestion))
}

func (nc *NotesController) listFolders(c echo.Context) ([]entities.Folder, error) {
	if nc.folders == nil {
		return nil, nil
	}
	return nc.folders.List(c.Request().Context())
}

func (nc *NotesController) listTemplates(c echo.Context) ([]entities.Template, error) {
	if nc.templates == nil {
		return nil, nil
	}
	return nc.templates.List(c.Request().Context())
}

func toSuggestionResponse(s *entities.Suggestion) dto.SuggestionResponse {
	if s == nil {
		return dto.SuggestionResponse{}
	}
	return dto.SuggestionResponse{
		ID:         s.ID,
		Confidence: string(s.Confidence),
		Reason:     s.Reason,
	}
}
