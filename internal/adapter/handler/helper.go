package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/errors"
	"github.com/johnquangdev/notegen/internal/domain/entities"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID reads X-Request-ID from the request, assigning one when the
// client did not send it so log lines for a request can be correlated.
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get("X-Request-ID"); id != "" {
		return id
	}
	id := uuid.NewString()
	c.Request().Header.Set("X-Request-ID", id)
	return id
}

// mapServiceError translates domain errors into AppErrors so every endpoint
// reports engine failures with the same code and status.
func mapServiceError(err error) error {
	switch {
	case stdErrors.Is(err, entities.ErrEngineNotConfigured):
		return errors.ErrEngineNotConfigured(err)
	case stdErrors.Is(err, entities.ErrEngineNotReady):
		return errors.ErrEngineNotReady(err)
	case stdErrors.Is(err, entities.ErrNoOutput):
		return errors.ErrEngineNoOutput(err)
	}

	var be *entities.BackendError
	if stdErrors.As(err, &be) {
		return errors.ErrEngineBackendFailed(string(be.Engine), err)
	}

	return err
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	err = mapServiceError(err)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}
