package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/notegen/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	notesController  *NotesController
	engineController *EngineController
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, notesController *NotesController, engineController *EngineController) *Router {
	return &Router{
		cfg:              cfg,
		notesController:  notesController,
		engineController: engineController,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupNotesRoutes(v1)
	rt.setupSuggestionRoutes(v1)
	rt.setupEngineRoutes(v1)
}

// setupNotesRoutes configures note generation routes
func (rt *Router) setupNotesRoutes(g *echo.Group) {
	notesGroup := g.Group("/notes")

	if rt.notesController != nil {
		notesGroup.POST("/generate", rt.notesController.GenerateNotes)
		notesGroup.POST("/ask", rt.notesController.AskQuestion)
	} else {
		notesGroup.POST("/generate", rt.notImplemented)
		notesGroup.POST("/ask", rt.notImplemented)
	}
}

// setupSuggestionRoutes configures advisory suggestion routes
func (rt *Router) setupSuggestionRoutes(g *echo.Group) {
	suggestGroup := g.Group("/suggest")

	if rt.notesController != nil {
		suggestGroup.POST("/folder", rt.notesController.SuggestFolder)
		suggestGroup.POST("/template", rt.notesController.SuggestTemplate)
	} else {
		suggestGroup.POST("/folder", rt.notImplemented)
		suggestGroup.POST("/template", rt.notImplemented)
	}
}

// setupEngineRoutes configures engine selection and status routes
func (rt *Router) setupEngineRoutes(g *echo.Group) {
	engineGroup := g.Group("/engine")

	if rt.engineController != nil {
		engineGroup.GET("/preference", rt.engineController.GetPreference)
		engineGroup.PUT("/preference", rt.engineController.SetPreference)
		engineGroup.GET("/status", rt.engineController.GetStatus)
	} else {
		engineGroup.GET("/preference", rt.notImplemented)
		engineGroup.PUT("/preference", rt.notImplemented)
		engineGroup.GET("/status", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
