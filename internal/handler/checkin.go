package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/repository"
)

// CheckinHandler registers gym visits and serves visit statistics.
type CheckinHandler struct {
	Checkins *repository.CheckinRepo
	Payments *repository.PaymentRepo
	Users    *repository.UserRepo
}

func NewCheckinHandler(ch *repository.CheckinRepo, p *repository.PaymentRepo, u *repository.UserRepo) *CheckinHandler {
	return &CheckinHandler{Checkins: ch, Payments: p, Users: u}
}

type checkinReq struct {
	UserID uint64 `json:"usuario_id"`
}

// Create logs a visit after checking that the user's access is paid up:
// the paid payment with the latest due date must not be expired.
func (h *CheckinHandler) Create(c echo.Context) error {
	var req checkinReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id é obrigatório"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}

	pay, err := h.Payments.LastPaidByDue(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Usuário não possui pagamento ativo."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao verificar pagamento"})
	}
	if pay.DueDate.Before(time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Pagamento vencido. Usuário bloqueado para check-in."})
	}

	ck, err := h.Checkins.Create(ctx, req.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao registrar check-in"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Check-in registrado com sucesso",
		"checkin": echo.Map{
			"id":           ck.ID,
			"usuario_id":   ck.UserID,
			"data_checkin": ck.CheckinAt,
		},
	})
}

// Stats returns the user's visit counts for today, last week and last
// month.
func (h *CheckinHandler) Stats(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	daily, weekly, monthly, err := h.Checkins.Stats(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar estatísticas"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"diarios":  daily,
		"semanais": weekly,
		"mensais":  monthly,
	})
}

type dailyPoint struct {
	Day   string `json:"dia"`
	Total int    `json:"total"`
}

// Daily returns one point per calendar day in the window, zero-filled so
// the chart has no gaps.  Defaults to the last 7 days.
func (h *CheckinHandler) Daily(c echo.Context) error {
	end := c.QueryParam("fim")
	start := c.QueryParam("inicio")
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}
	if start == "" {
		start = time.Now().AddDate(0, 0, -6).Format("2006-01-02")
	}
	startDay, err := time.Parse("2006-01-02", start)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inicio inválido, use YYYY-MM-DD"})
	}
	endDay, err := time.Parse("2006-01-02", end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fim inválido, use YYYY-MM-DD"})
	}
	if endDay.Before(startDay) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fim anterior ao inicio"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	totals, err := h.Checkins.DailyTotals(ctx, start, end+" 23:59:59")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar check-ins"})
	}
	return c.JSON(http.StatusOK, buildDailySeries(startDay, endDay, totals))
}

// buildDailySeries expands the sparse per-day totals into a dense series
// covering every day between start and end inclusive.
func buildDailySeries(start, end time.Time, totals map[string]int) []dailyPoint {
	series := make([]dailyPoint, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		series = append(series, dailyPoint{Day: day, Total: totals[day]})
	}
	return series
}
