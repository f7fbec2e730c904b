package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/handler"
)

// RegisterCheckinRoutes registers visit logging and visit statistics
// under /checkins.
func RegisterCheckinRoutes(e *echo.Echo, ch *handler.CheckinHandler) {
	g := e.Group("/checkins")
	g.POST("", ch.Create)
	g.GET("", ch.Daily)
	g.GET("/stats/:id", ch.Stats)
}
