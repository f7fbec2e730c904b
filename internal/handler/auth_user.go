package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/config"
	"github.com/vittahq/vitta-api/internal/mail"
	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/repository"
	"github.com/vittahq/vitta-api/internal/service"
	"github.com/vittahq/vitta-api/internal/utils"
)

// userStore is the account persistence surface the auth endpoints need.
// Satisfied by repository.UserRepo; tests substitute a fake.
type userStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdatePassword(ctx context.Context, email, hash string) error
}

// AuthHandler bundles dependencies for the student auth endpoints:
// registration, login and the password-recovery flow.
type AuthHandler struct {
	Cfg        config.Config
	Users      userStore
	Reconciler *service.Reconciler
	ResetCodes repository.ResetCodeStore
}

func NewAuthHandler(cfg config.Config, u userStore, r *service.Reconciler, codes repository.ResetCodeStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Reconciler: r, ResetCodes: codes}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Email    string `json:"email"`
	Code     string `json:"codigo"`
	Password string `json:"novaSenha"`
}

type userPart struct {
	ID         uint64 `json:"id"`
	Name       string `json:"nome"`
	Email      string `json:"email"`
	Status     string `json:"status"`
	PlanStatus string `json:"status_plano"`
}
type authResp struct {
	Message string   `json:"message"`
	User    userPart `json:"usuario"`
	Token   string   `json:"token"`
}

// Register creates a student account and returns a token right away so
// the frontend can log the user in without a second request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo inválido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome, email e senha são obrigatórios"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Name, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Usuário já cadastrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao cadastrar usuário"})
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, "aluno", 24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar token"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Message: "Usuário cadastrado com sucesso",
		User: userPart{
			ID: u.ID, Name: u.Name, Email: u.Email,
			Status: u.Status, PlanStatus: string(u.PlanStatus),
		},
		Token: token.Token,
	})
}

// Login verifies the credentials, reconciles the user's subscription
// state so the response carries fresh statuses, and issues a token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo inválido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Senha incorreta"})
	}

	// Best effort: a stale status must not block the login.
	if err := h.Reconciler.ReconcileUser(ctx, u.ID); err != nil {
		log.Printf("login: reconcile usuário %d: %v", u.ID, err)
	} else if fresh, err := h.Users.GetByID(ctx, u.ID); err == nil {
		u = fresh
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, "aluno", 8*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar token"})
	}

	return c.JSON(http.StatusOK, authResp{
		Message: "Login realizado com sucesso",
		User: userPart{
			ID: u.ID, Name: u.Name, Email: u.Email,
			Status: u.Status, PlanStatus: string(u.PlanStatus),
		},
		Token: token.Token,
	})
}

// ForgotPassword mails a six-digit recovery code.  The response does not
// reveal whether the email exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo inválido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email é obrigatório"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	const okMsg = "Se o email estiver cadastrado, um código de recuperação foi enviado"

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusOK, echo.Map{"message": okMsg})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}

	code, err := utils.RandomDigits(6)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao gerar código"})
	}
	if err := h.ResetCodes.Set(ctx, u.Email, code); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao armazenar código"})
	}

	body := fmt.Sprintf("Olá %s,\n\nSeu código de recuperação de senha é: %s\n\nO código expira em 15 minutos.\n\nAcademia Vitta", u.Name, code)
	if err := mail.Send(h.Cfg, u.Email, "Recuperação de Senha - Vitta", body); err != nil {
		log.Printf("forgot-password: envio para %s falhou: %v", u.Email, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao enviar email"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": okMsg})
}

// ResetPassword checks the recovery code and stores the new password.
// Codes are single-use.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corpo inválido"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Code == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, código e nova senha são obrigatórios"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	ok, err := h.ResetCodes.Check(ctx, req.Email, req.Code)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao verificar código"})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Código inválido"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao processar senha"})
	}
	if err := h.Users.UpdatePassword(ctx, req.Email, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar senha"})
	}
	if err := h.ResetCodes.Delete(ctx, req.Email); err != nil {
		log.Printf("reset-password: remover código de %s: %v", req.Email, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Senha atualizada com sucesso"})
}
