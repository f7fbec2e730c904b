package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/config"
	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/repository"
	"github.com/vittahq/vitta-api/internal/utils"
)

// StaffHandler serves staff login and the staff CRUD used by admins.
type StaffHandler struct {
	Cfg   config.Config
	Staff *repository.StaffRepo
}

func NewStaffHandler(cfg config.Config, s *repository.StaffRepo) *StaffHandler {
	return &StaffHandler{Cfg: cfg, Staff: s}
}

type staffReq struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Role     string `json:"cargo"`
}

func staffResp(s model.Staff) echo.Map {
	return echo.Map{
		"id":    s.ID,
		"nome":  s.Name,
		"email": s.Email,
		"cargo": s.Role,
	}
}

// Login authenticates an employee and issues a funcionario token that
// unlocks the staff-only routes.
func (h *StaffHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo inválido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Staff.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcionário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar funcionário"})
	}
	if !utils.VerifyPassword(s.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Senha incorreta"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, s.ID, s.Email, "funcionario", 8*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Login realizado com sucesso",
		"funcionario": staffResp(s),
		"token":       token.Token,
	})
}

// Create registers a new employee.
func (h *StaffHandler) Create(c echo.Context) error {
	var req staffReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome, email e senha são obrigatórios"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role == "" {
		req.Role = "recepcionista"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Staff.Create(ctx, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Funcionário já cadastrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao cadastrar funcionário"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Funcionário cadastrado com sucesso",
		"funcionario": staffResp(s),
	})
}

// List returns every employee, without password hashes.
func (h *StaffHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	staff, err := h.Staff.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar funcionários"})
	}
	out := make([]echo.Map, 0, len(staff))
	for _, s := range staff {
		out = append(out, staffResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one employee.
func (h *StaffHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcionário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar funcionário"})
	}
	return c.JSON(http.StatusOK, staffResp(s))
}

// Update edits an employee; the password only changes when provided.
func (h *StaffHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req staffReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome e email são obrigatórios"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Staff.Update(ctx, id, req.Name, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcionário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar funcionário"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Funcionário atualizado com sucesso",
		"funcionario": staffResp(s),
	})
}

// Delete removes an employee.
func (h *StaffHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Staff.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Funcionário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao deletar funcionário"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Funcionário deletado com sucesso"})
}
