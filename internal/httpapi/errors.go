package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"wandlung/internal/logging"
	"wandlung/internal/services"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			logger.Warn("error after response started", logging.String("uri", c.Request().RequestURI), logging.Error(err))
			return
		}

		status := services.HTTPStatus(err)
		body := ErrorResponse{Error: err.Error(), Category: services.Category(err)}
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			body.Category = categoryForStatus(status)
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			} else {
				body.Error = http.StatusText(status)
			}
		}
		if status >= http.StatusInternalServerError {
			logging.ErrorWithContext(logging.WithContext(c.Request().Context(), logger), "request failed", "api_request_failed",
				logging.String("uri", c.Request().RequestURI),
				logging.String("category", body.Category),
				logging.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("write error response failed", logging.Error(err))
		}
	}
}

func categoryForStatus(status int) string {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return "not_found"
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return "validation"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
