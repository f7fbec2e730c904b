package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/handler"
)

// RegisterUserRoutes registers student auth, the dashboard user listing
// and the subscription lifecycle endpoints under /auth-usuarios.  The
// paths are the ones the existing dashboard and student app call.
func RegisterUserRoutes(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler) {
	g := e.Group("/auth-usuarios")

	// Auth and password recovery.
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Listing and per-user views.
	g.GET("", u.List)
	g.GET("/usuario/:id", u.Get)
	g.GET("/:id/plano", u.GetPlan)
	g.GET("/status/:id", u.GetStatus)
	g.GET("/:id/status-plano", u.GetPlanStatus)

	// Subscription lifecycle.
	g.PUT("/:id/cancelar-plano", u.CancelPlan)
	g.PUT("/:id/reativar-plano", u.ReactivatePlan)
	g.POST("/atualizar-status-tempo", u.BatchUpdate)
	g.POST("/corrigir-status", u.FixStatuses)
}
