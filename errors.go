package sitepatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sitepatch/cpanel"
)

// ValidationError reports a request that was rejected before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// errorStatus maps an error onto the HTTP status the API answers with.
// Remote API failures and a missing blog switch default both end up as 500.
func errorStatus(err error) int {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, cpanel.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail writes the JSON error envelope for err. message is the user facing
// summary; validation errors use their own reason instead.
func fail(c echo.Context, err error, message string) error {
	code := errorStatus(err)
	resp := ErrorResponse{Success: false, Message: message}

	var ve *ValidationError
	if errors.As(err, &ve) {
		resp.Message = ve.Reason
		resp.Field = ve.Field
	} else {
		resp.Error = err.Error()
	}

	if code >= 500 {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	} else {
		c.Logger().Warnf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(code, resp)
}
