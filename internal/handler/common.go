// Package handler contains the HTTP endpoints of the back office.  Every
// handler binds its request, runs the repository calls under a short
// timeout and answers with echo.Map bodies carrying Portuguese messages,
// which is what the dashboard frontend displays verbatim.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const dbTimeout = 5 * time.Second

// reqCtx derives the per-request DB timeout context.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// parseID reads a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
