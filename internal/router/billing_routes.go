package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/handler"
)

// RegisterPlanRoutes registers the plan catalog CRUD under /planos.
func RegisterPlanRoutes(e *echo.Echo, p *handler.PlanHandler) {
	g := e.Group("/planos")
	g.POST("", p.Create)
	g.GET("", p.List)
	g.GET("/:id", p.Get)
	g.PUT("/:id", p.Update)
	g.DELETE("/:id", p.Delete)
}

// RegisterPaymentRoutes registers payment recording plus the billing
// gateway endpoints under /pagamentos.
func RegisterPaymentRoutes(e *echo.Echo, p *handler.PaymentHandler) {
	g := e.Group("/pagamentos")
	g.POST("", p.Create)
	g.GET("/:id", p.ListByUser)
	g.PUT("/:id", p.UpdateStatus)
	g.GET("/ultimo-pago/:id", p.LastPaid)

	// Billing gateway.
	g.POST("/criar-cliente", p.CreateCustomer)
	g.POST("/criar-cobranca-cartao", p.CreateCardCharge)
	g.POST("/criar-cobranca-boleto", p.CreateBoletoCharge)
	g.POST("/criar-cobranca-pix", p.CreatePixCharge)
	g.POST("/criar-link", p.CreatePaymentLink)
}
