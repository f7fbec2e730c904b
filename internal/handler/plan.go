package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/repository"
)

// PlanHandler serves the plan catalog CRUD.
type PlanHandler struct {
	Plans *repository.PlanRepo
}

func NewPlanHandler(p *repository.PlanRepo) *PlanHandler {
	return &PlanHandler{Plans: p}
}

type planReq struct {
	Name         string  `json:"nome"`
	Description  string  `json:"descricao"`
	Price        float64 `json:"preco"`
	CheckinLimit int     `json:"limite_checkins"`
}

func planResp(p model.Plan) echo.Map {
	return echo.Map{
		"id":              p.ID,
		"nome":            p.Name,
		"descricao":       p.Description,
		"preco":           p.Price,
		"limite_checkins": p.CheckinLimit,
	}
}

// Create adds a plan to the catalog.
func (h *PlanHandler) Create(c echo.Context) error {
	var req planReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome e preco são obrigatórios"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p := model.Plan{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CheckinLimit: req.CheckinLimit,
	}
	if err := h.Plans.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao criar plano"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Plano criado com sucesso",
		"plano":   planResp(p),
	})
}

// List returns every plan, newest first.
func (h *PlanHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	plans, err := h.Plans.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar planos"})
	}
	out := make([]echo.Map, 0, len(plans))
	for _, p := range plans {
		out = append(out, planResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one plan.
func (h *PlanHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plano não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar plano"})
	}
	return c.JSON(http.StatusOK, planResp(p))
}

// Update replaces a plan's fields.
func (h *PlanHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req planReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome e preco são obrigatórios"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Plans.Update(ctx, model.Plan{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CheckinLimit: req.CheckinLimit,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plano não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar plano"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Plano atualizado com sucesso",
		"plano":   planResp(p),
	})
}

// Delete removes a plan from the catalog.
func (h *PlanHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Plans.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plano não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao deletar plano"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Plano deletado com sucesso"})
}
