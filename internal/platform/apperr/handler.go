package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

// HTTPErrorHandler returns the central echo error handler. Taxonomy errors
// render as {"error": {"kind", "detail"}} with the mapped status;
// echo.HTTPError values are normalized into the same shape; anything else
// becomes an opaque 500.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := errorBody{Error: errorDetail{Kind: KindInternal, Detail: "internal server error"}}

		var ae *Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = HTTPStatus(ae.Kind)
			body.Error = errorDetail{Kind: ae.Kind, Detail: ae.Detail}
		case errors.As(err, &he):
			status = he.Code
			body.Error = errorDetail{Kind: kindForStatus(he.Code), Detail: messageOf(he)}
		}

		if status >= http.StatusInternalServerError {
			logger.Error().
				Err(err).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("failed to write error response")
		}
	}
}

func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindAuthorization
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	if err, ok := he.Message.(error); ok {
		return err.Error()
	}
	return http.StatusText(he.Code)
}
