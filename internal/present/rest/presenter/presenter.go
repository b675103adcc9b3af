package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/saucebox/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
	Sauce   any    `json:"sauce,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Message answers with a human readable message and optionally the affected sauce.
func Message(c echo.Context, status int, msg string, sauce any) error {
	return c.JSON(status, messageResponse{Message: msg, Sauce: sauce})
}

func BadRequest(c echo.Context, err error) error {
	slog.InfoContext(c.Request().Context(), "bad request", slog.String("error", err.Error()), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.InfoContext(c.Request().Context(), "bad request", slog.String("error", msg), slog.String("module", "rest"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthenticated request"})
}

func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, msg string) error {
	return c.JSON(http.StatusConflict, errorResponse{Error: msg})
}

func ServiceUnavailable(c echo.Context, msg string) error {
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	slog.ErrorContext(
		ctx, "internal error",
		slog.String("error", err.Error()),
		slog.String("traceId", trace.SpanContextFromContext(ctx).TraceID().String()),
		slog.String("module", "rest"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

// Error maps a usecase error to its response.
func Error(c echo.Context, err error) error {
	var validation domain.ValidationError
	var notFound domain.NotFoundError
	var conflict domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return Unauthorized(c)
	case errors.As(err, &validation):
		return BadRequestMessage(c, validation.Error())
	case errors.As(err, &notFound):
		return NotFound(c, notFound.Error())
	case errors.As(err, &conflict):
		return Conflict(c, conflict.Error())
	default:
		return InternalError(c, err)
	}
}
