package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/handler"
	"github.com/vittahq/vitta-api/internal/middleware"
)

// RegisterStaffRoutes registers staff login plus the staff-only
// management surface.  Everything except /funcionarios/login sits behind
// JWTAuth and the funcionario role.
func RegisterStaffRoutes(e *echo.Echo, s *handler.StaffHandler, r *handler.ReportHandler, jwtSecret string) {
	e.POST("/funcionarios/login", s.Login)

	staff := e.Group("/funcionarios")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole("funcionario"))
	staff.POST("", s.Create)
	staff.GET("", s.List)
	staff.GET("/:id", s.Get)
	staff.PUT("/:id", s.Update)
	staff.DELETE("/:id", s.Delete)

	reports := e.Group("/relatorios")
	reports.Use(middleware.JWTAuth(jwtSecret))
	reports.Use(middleware.RequireRole("funcionario"))
	reports.GET("/usuarios", r.Users)
	reports.GET("/planos", r.Plans)
	reports.GET("/checkins", r.Checkins)
	reports.GET("/financeiro", r.Revenue)
	reports.GET("/grafico-financeiro", r.Chart)
}
