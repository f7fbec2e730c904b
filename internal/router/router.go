// Package router wires the HTTP surface: public student routes, the
// staff-only management routes and the realtime dashboard socket.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/handler"
	"github.com/vittahq/vitta-api/internal/notify"
)

// RegisterRoutes registers the routes that carry no authentication: the
// health check and the dashboard websocket.
func RegisterRoutes(e *echo.Echo, hub *notify.Hub) {
	e.GET("/healthz", handler.Health)
	e.GET("/ws", echo.WrapHandler(hub.Handler()))
}
