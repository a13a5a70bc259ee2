package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oakline/furniture_shop/internal/service"
)

// All responses carry success plus either data or a message; internal error
// details never reach the client.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondData(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: true, Message: msg})
}

func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: false, Error: msg})
}

// serviceError maps the service error taxonomy onto HTTP codes.
func serviceError(c echo.Context, l *slog.Logger, op string, err error) error {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return respondError(c, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, service.ErrValidation):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(op, "status", http.StatusNotFound, "error", err)
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		l.Warn(op, "status", http.StatusForbidden, "error", err)
		return respondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidState):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		l.Warn(op, "status", http.StatusBadRequest, "error", err)
		return respondError(c, http.StatusBadRequest, err.Error())
	default:
		l.Error(op, "status", http.StatusInternalServerError, "error", err)
		return respondError(c, http.StatusInternalServerError, "internal error")
	}
}
