package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"stockdesk/internal/domain"
	"stockdesk/pkg/logger"
)

// respondError translates a service error into the API's error body
func respondError(c echo.Context, log *logger.Logger, err error) error {
	var (
		validationErr  *domain.ValidationError
		notFoundErr    *domain.NotFoundError
		unavailableErr *domain.ServiceUnavailableError
		upstreamErr    *domain.UpstreamError
		internalErr    *domain.InternalError
	)

	switch {
	case errors.As(err, &validationErr):
		return BadRequestResponse(c, validationErr.Message)

	case errors.As(err, &notFoundErr):
		return NotFoundResponse(c, notFoundErr.Message)

	case errors.As(err, &unavailableErr):
		return ErrorResponse(c, http.StatusServiceUnavailable, unavailableErr.Error())

	case errors.As(err, &upstreamErr):
		if len(upstreamErr.Body) > 0 {
			return c.JSONBlob(upstreamErr.StatusCode, upstreamErr.Body)
		}
		msg := upstreamErr.Message
		if msg == "" {
			msg = "ML service request failed"
		}
		return ErrorResponse(c, upstreamErr.StatusCode, msg)

	case errors.As(err, &internalErr):
		log.Error("Request failed", requestFields(c, err)...)
		return ErrorResponse(c, http.StatusInternalServerError, internalErr.Message)

	default:
		log.Error("Unexpected error", requestFields(c, err)...)
		return InternalServerErrorResponse(c)
	}
}

func requestFields(c echo.Context, err error) []zap.Field {
	return []zap.Field{
		logger.Field("method", c.Request().Method),
		logger.Field("path", c.Path()),
		logger.Field("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		logger.ErrorField(err),
	}
}

// NewHTTPErrorHandler renders router-level errors (unknown route, bad method, panics) as {"error": ...}
func NewHTTPErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error("Unhandled error", requestFields(c, err)...)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = ErrorResponse(c, code, msg)
		}
		if err != nil {
			log.Error("Failed to write error response", logger.ErrorField(err))
		}
	}
}
