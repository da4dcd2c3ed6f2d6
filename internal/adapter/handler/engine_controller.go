package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/errors"
	dto "github.com/johnquangdev/notegen/internal/adapter/dto/notes"
	"github.com/johnquangdev/notegen/internal/domain/entities"
	notesuse "github.com/johnquangdev/notegen/internal/usecase/notes"
)

// EngineController handles engine selection and status endpoints
type EngineController struct {
	svc    notesuse.Service
	logger *zap.Logger
}

// NewEngineController creates a new engine controller
func NewEngineController(svc notesuse.Service, logger *zap.Logger) *EngineController {
	return &EngineController{svc: svc, logger: logger}
}

// GetPreference returns the selected engine
// @Summary      Get engine preference
// @Tags         Engine
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Selected engine"
// @Router       /engine/preference [get]
func (ec *EngineController) GetPreference(c echo.Context) error {
	engine := ec.svc.EnginePreference(c.Request().Context())
	return HandleSuccess(ec.logger, c, dto.EnginePreferenceResponse{Engine: string(engine)})
}

// SetPreference selects the engine used for generation
// @Summary      Set engine preference
// @Tags         Engine
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SetEnginePreferenceRequest  true  "Engine to select"
// @Success      200      {object}  map[string]interface{}          "Selected engine"
// @Failure      400      {object}  map[string]interface{}          "Unknown engine"
// @Router       /engine/preference [put]
func (ec *EngineController) SetPreference(c echo.Context) error {
	var req dto.SetEnginePreferenceRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(ec.logger, c, errors.ErrInvalidArgument("invalid payload"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(ec.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	engine, err := entities.ParseEngineCapability(req.Engine)
	if err != nil {
		return HandleError(ec.logger, c, errors.ErrInvalidArgument(err.Error()))
	}
	if err := ec.svc.SetEnginePreference(c.Request().Context(), engine); err != nil {
		return HandleError(ec.logger, c, err)
	}

	if ec.logger != nil {
		ec.logger.Info("engine preference updated", zap.String("engine", string(engine)))
	}
	return HandleSuccess(ec.logger, c, dto.EnginePreferenceResponse{Engine: string(engine)})
}

// GetStatus reports readiness of both backends
// @Summary      Get engine status
// @Tags         Engine
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Engine status"
// @Router       /engine/status [get]
func (ec *EngineController) GetStatus(c echo.Context) error {
	status := ec.svc.EngineStatus(c.Request().Context())
	return HandleSuccess(ec.logger, c, dto.EngineStatusResponse{
		Selected:    string(status.Selected),
		RemoteReady: status.RemoteReady,
		LocalReady:  status.LocalReady,
	})
}
