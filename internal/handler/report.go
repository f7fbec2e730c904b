package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/repository"
)

// ReportHandler serves the management reports behind the staff routes.
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{Reports: r}
}

// Users returns the user headcounts: total, with current paid access,
// and overdue.
func (h *ReportHandler) Users(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, active, overdue, err := h.Reports.UserTotals(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar relatório"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_usuarios":     total,
		"usuarios_ativos":    active,
		"usuarios_atrasados": overdue,
	})
}

// Plans returns the catalog size.
func (h *ReportHandler) Plans(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Reports.PlanTotal(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar relatório"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total_planos": total})
}

// Checkins counts visits inside an explicit date window.
func (h *ReportHandler) Checkins(c echo.Context) error {
	start := c.QueryParam("inicio")
	end := c.QueryParam("fim")
	if start == "" || end == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inicio e fim são obrigatórios"})
	}
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inicio inválido, use YYYY-MM-DD"})
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fim inválido, use YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Reports.CheckinTotal(ctx, start, end+" 23:59:59")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar relatório"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"inicio":         start,
		"fim":            end,
		"total_checkins": total,
	})
}

// Revenue sums the plan prices of paid payments inside a date window;
// defaults to the current month.
func (h *ReportHandler) Revenue(c echo.Context) error {
	now := time.Now()
	start := c.QueryParam("inicio")
	end := c.QueryParam("fim")
	if start == "" {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	}
	if end == "" {
		end = now.Format("2006-01-02")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	total, err := h.Reports.Revenue(ctx, start, end+" 23:59:59")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar relatório"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"inicio":      start,
		"fim":         end,
		"valor_total": total,
	})
}

// Chart returns the revenue per month for the last six months, for the
// dashboard's finance chart.
func (h *ReportHandler) Chart(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	series, err := h.Reports.MonthlyRevenue(ctx, 6)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar gráfico"})
	}
	return c.JSON(http.StatusOK, series)
}
