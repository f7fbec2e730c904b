package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/notify"
	"github.com/vittahq/vitta-api/internal/repository"
	"github.com/vittahq/vitta-api/internal/service"
)

// UserHandler serves the dashboard's user listing and the subscription
// lifecycle operations (cancel, reactivate, batch reconcile, repair).
type UserHandler struct {
	Users      *repository.UserRepo
	Reconciler *service.Reconciler
	Hub        *notify.Hub
}

func NewUserHandler(u *repository.UserRepo, r *service.Reconciler, hub *notify.Hub) *UserHandler {
	return &UserHandler{Users: u, Reconciler: r, Hub: hub}
}

// List returns every user with plan and payment info for the dashboard.
// Statuses are reconciled first so the listing never shows stale state;
// ?skipUpdate=true skips that pass when the dashboard refreshes often.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if c.QueryParam("skipUpdate") != "true" {
		if _, _, err := h.Reconciler.ReconcileAll(ctx); err != nil {
			log.Printf("listar usuários: reconcile falhou: %v", err)
		}
	}

	users, err := h.Users.ListOverview(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar usuários"})
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user with plan and payment info.
func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Overview(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}
	return c.JSON(http.StatusOK, u)
}

// GetPlan returns the user's current subscription the way the student
// app shows it, with placeholder values when no plan is assigned.
func (h *UserHandler) GetPlan(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	// Fresh status before answering; stale reads confuse the app.
	if err := h.Reconciler.ReconcileUser(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("plano do usuário %d: reconcile falhou: %v", id, err)
	}

	s, err := h.Users.PlanSummary(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar plano"})
	}

	resp := echo.Map{
		"nome":             "Sem plano",
		"descricao":        "",
		"preco":            0,
		"status_plano":     s.PlanStatus,
		"status_pagamento": "pendente",
	}
	if s.PlanName != nil {
		resp["nome"] = *s.PlanName
	}
	if s.PlanDescription != nil {
		resp["descricao"] = *s.PlanDescription
	}
	if s.PlanPrice != nil {
		resp["preco"] = *s.PlanPrice
	}
	if s.PlanStatus == "" {
		resp["status_plano"] = string(model.PlanInactive)
	}
	if s.LastPaymentStatus != nil {
		resp["status_pagamento"] = *s.LastPaymentStatus
	}
	return c.JSON(http.StatusOK, resp)
}

// GetStatus reconciles and returns just the two status fields.
func (h *UserHandler) GetStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reconciler.ReconcileUser(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar status"})
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":       u.Status,
		"status_plano": string(u.PlanStatus),
	})
}

// GetPlanStatus returns only the derived subscription status, for the
// app's lightweight polling.
func (h *UserHandler) GetPlanStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reconciler.ReconcileUser(ctx, id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("status do plano %d: reconcile falhou: %v", id, err)
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status_plano": string(u.PlanStatus)})
}

// CancelPlan cancels the user's subscription and its paid payments.
func (h *UserHandler) CancelPlan(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reconciler.CancelPlan(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		case errors.Is(err, service.ErrNoPlan):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Usuário não possui um plano ativo para cancelar"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao cancelar plano"})
		}
	}
	h.Hub.Broadcast(notify.NewEvent(notify.EventUserUpdate, "Plano cancelado",
		map[string]any{"usuario_id": id}))
	return c.JSON(http.StatusOK, echo.Map{"message": "Plano cancelado com sucesso"})
}

// ReactivatePlan undoes a cancellation.
func (h *UserHandler) ReactivatePlan(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Reconciler.ReactivatePlan(ctx, id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		case errors.Is(err, service.ErrNotCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Plano não está cancelado"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao reativar plano"})
		}
	}
	h.Hub.Broadcast(notify.NewEvent(notify.EventUserUpdate, "Plano reativado",
		map[string]any{"usuario_id": id}))
	return c.JSON(http.StatusOK, echo.Map{"message": "Plano reativado com sucesso"})
}

// BatchUpdate reconciles every user and tells connected dashboards.
func (h *UserHandler) BatchUpdate(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	updated, failed, err := h.Reconciler.ReconcileAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar status"})
	}
	h.Hub.Broadcast(notify.NewEvent(notify.EventManualUpdate, "Status dos usuários atualizados",
		map[string]any{"atualizados": updated, "falhas": failed}))
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Status atualizados com sucesso",
		"atualizados": updated,
		"falhas":      failed,
	})
}

// FixStatuses repairs rows whose plan assignment and status disagree.
func (h *UserHandler) FixStatuses(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Reconciler.FixInconsistent(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao corrigir status"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Status corrigidos com sucesso",
		"dados":   res,
	})
}
