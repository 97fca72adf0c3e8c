package http

import (
	"errors"
	"net/http"

	"empi/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, errs.ErrUpstreamDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	body := Error{Code: code, Message: err.Error()}

	switch code {
	case http.StatusConflict:
		body.Message = "the resource was changed by another request, reload and retry"
		body.Retryable = true
	case http.StatusInternalServerError:
		body.Message = http.StatusText(code)
		zerolog.Ctx(ctx.Request().Context()).Error().Err(err).Msg("request failed")
	}

	return ctx.JSON(code, body)
}

// ErrorHandler renders echo errors (routing, auth, contract validation) in
// the same shape as domain errors.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) {
			if werr := writeError(ctx, err); werr != nil {
				logger.Error().Err(werr).Msg("write error response")
			}
			return
		}

		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok && m != "" {
			message = m
		}
		if werr := ctx.JSON(httpErr.Code, Error{Code: httpErr.Code, Message: message}); werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}
