package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Result  any               `json:"result,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func ok(c echo.Context, result any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Result: result})
}

// fail logs err at a level that matches its status and hands it to the
// error handler as an *apperr.Error.
func fail(l *slog.Logger, event string, err error) error {
	ae := apperr.From(err)
	status := ae.Kind.Status()
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", ae.Kind.String(), "error", err)
	} else {
		l.Warn(event, "status", status, "reason", ae.Kind.String(), "error", err)
	}
	return ae
}

func invalidBody(err error) error {
	return apperr.Wrap(apperr.Validation, "invalid body", err)
}

// ErrorHandler renders apperr and echo errors in the envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := Envelope{Message: "internal error"}

	var ae *apperr.Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status = ae.Kind.Status()
		body.Message = ae.PublicMessage()
		body.Reason = string(ae.Reason)
		if ae.Kind == apperr.Validation {
			body.Errors = ae.Fields
		}
	case errors.As(err, &he):
		status = he.Code
		body.Message = httpMessage(he)
	}

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(status)
	} else {
		werr = c.JSON(status, body)
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}

func httpMessage(he *echo.HTTPError) string {
	switch he.Code {
	case http.StatusNotFound:
		return "not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusTooManyRequests:
		return "too many requests, try again in 15 minutes"
	}
	if he.Code >= http.StatusInternalServerError {
		return "internal error"
	}
	if msg, isString := he.Message.(string); isString {
		return msg
	}
	return fmt.Sprint(he.Message)
}
