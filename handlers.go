package sitepatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handlePages(c echo.Context) error {
	return c.JSON(http.StatusOK, PagesResponse{Success: true, Pages: a.Pages})
}

// httpErrorHandler renders errors that escaped a handler (unknown routes,
// oversized bodies, recovered panics) as the JSON error envelope.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	resp := ErrorResponse{Success: false, Message: msg}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		resp.Error = err.Error()
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		c.Logger().Errorf("write error response: %v", err)
	}
}
