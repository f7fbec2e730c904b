package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/asaas"
	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/notify"
	"github.com/vittahq/vitta-api/internal/queue"
	"github.com/vittahq/vitta-api/internal/repository"
	"github.com/vittahq/vitta-api/internal/service"
)

// PaymentHandler records payments, keeps the derived user status in sync
// with them, and fronts the billing-gateway operations.
type PaymentHandler struct {
	DB         *sql.DB
	Payments   *repository.PaymentRepo
	Plans      *repository.PlanRepo
	Users      *repository.UserRepo
	Statuses   *repository.StatusRepo
	Reconciler *service.Reconciler
	Hub        *notify.Hub
	Gateway    *asaas.Client
}

func NewPaymentHandler(db *sql.DB, p *repository.PaymentRepo, pl *repository.PlanRepo,
	u *repository.UserRepo, st *repository.StatusRepo, r *service.Reconciler,
	hub *notify.Hub, gw *asaas.Client) *PaymentHandler {
	return &PaymentHandler{DB: db, Payments: p, Plans: pl, Users: u, Statuses: st,
		Reconciler: r, Hub: hub, Gateway: gw}
}

type paymentReq struct {
	UserID      uint64  `json:"usuario_id"`
	PlanID      uint64  `json:"plano_id"`
	Status      string  `json:"status"`
	PaymentDate *string `json:"data_pagamento"`
	DueDate     *string `json:"data_vencimento"`
	ChargeID    *string `json:"cobranca_externa_id"`
}

// Create records a payment and recomputes the payer's subscription state
// in the same transaction, so the dashboard never observes a paid user
// still marked late.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil || req.UserID == 0 || req.PlanID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "usuario_id e plano_id são obrigatórios"})
	}

	now := time.Now()
	paymentDate, dueDate := now, now.AddDate(0, 1, 0)
	if req.PaymentDate != nil {
		t, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "data_pagamento inválida, use YYYY-MM-DD"})
		}
		paymentDate = t
	}
	if req.DueDate != nil {
		t, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "data_vencimento inválida, use YYYY-MM-DD"})
		}
		dueDate = t
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Usuário não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar usuário"})
	}
	plan, err := h.Plans.GetByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Plano não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar plano"})
	}

	p := model.Payment{
		UserID:           req.UserID,
		PlanID:           req.PlanID,
		Status:           model.PaymentPaid,
		PaymentDate:      paymentDate,
		DueDate:          dueDate,
		ExternalChargeID: req.ChargeID,
	}
	if req.Status != "" {
		p.Status = req.Status
	}

	tx, err := h.DB.BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao registrar pagamento"})
	}
	defer tx.Rollback()

	if err := h.Payments.CreateTx(ctx, tx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao registrar pagamento"})
	}
	// Assign the plan being paid before deriving, so a first payment also
	// activates the subscription.
	if err := h.Statuses.AssignPlan(ctx, tx, p.UserID, p.PlanID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao vincular plano"})
	}
	if err := h.Reconciler.ReconcileUserTx(ctx, tx, p.UserID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar status"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao registrar pagamento"})
	}

	h.Hub.Broadcast(notify.NewEvent(notify.EventPaymentUpdate, "Novo pagamento registrado",
		map[string]any{"usuario_id": p.UserID, "pagamento_id": p.ID}))

	via := "manual"
	if p.ExternalChargeID != nil {
		via = "asaas"
	}
	ev := queue.PaymentRecordedEvent{
		PaymentID:   p.ID,
		UserID:      p.UserID,
		UserName:    user.Name,
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		Amount:      plan.Price,
		Status:      p.Status,
		PaidAt:      p.PaymentDate.Format(time.RFC3339),
		DueAt:       p.DueDate.Format(time.RFC3339),
		RecordedAt:  time.Now().UTC().Format(time.RFC3339),
		RecordedVia: via,
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishPaymentRecorded(pubCtx, ev)
	}()

	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Pagamento registrado com sucesso",
		"pagamento": paymentResp(p),
	})
}

func paymentResp(p model.Payment) echo.Map {
	return echo.Map{
		"id":                  p.ID,
		"usuario_id":          p.UserID,
		"plano_id":            p.PlanID,
		"status":              p.Status,
		"data_pagamento":      p.PaymentDate,
		"data_vencimento":     p.DueDate,
		"cobranca_externa_id": p.ExternalChargeID,
	}
}

// ListByUser returns all payments of a user, newest first.
func (h *PaymentHandler) ListByUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	payments, err := h.Payments.ListByUser(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao listar pagamentos"})
	}
	out := make([]echo.Map, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

type paymentStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus changes a payment's status and reconciles the payer.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	var req paymentStatusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status é obrigatório"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Pagamento não encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao atualizar pagamento"})
	}
	if err := h.Reconciler.ReconcileUser(ctx, p.UserID); err != nil {
		log.Printf("atualizar pagamento %d: reconcile usuário %d: %v", p.ID, p.UserID, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Pagamento atualizado com sucesso",
		"pagamento": paymentResp(p),
	})
}

// LastPaid returns the user's most recent paid payment.
func (h *PaymentHandler) LastPaid(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "id inválido"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Payments.LastPaid(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Nenhum pagamento encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "erro ao buscar pagamento"})
	}
	return c.JSON(http.StatusOK, paymentResp(p))
}

// ----- billing gateway -----

type gatewayCustomerReq struct {
	Name    string `json:"nome"`
	Email   string `json:"email"`
	CPFCNPJ string `json:"cpfCnpj"`
	Phone   string `json:"telefone"`
}

// CreateCustomer registers (or finds) the customer at the gateway.
func (h *PaymentHandler) CreateCustomer(c echo.Context) error {
	var req gatewayCustomerReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Email == "" || req.CPFCNPJ == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome, email e cpfCnpj são obrigatórios"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if existing, err := h.Gateway.FindCustomerByEmail(ctx, req.Email); err == nil && existing != nil {
		return c.JSON(http.StatusOK, existing)
	}
	cust, err := h.Gateway.CreateCustomer(ctx, req.Name, req.Email, req.CPFCNPJ, req.Phone)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, cust)
}

type gatewayChargeReq struct {
	CustomerID  string  `json:"cliente_id"`
	Value       float64 `json:"valor"`
	Description string  `json:"descricao"`
}

func (h *PaymentHandler) bindChargeReq(c echo.Context) (gatewayChargeReq, bool) {
	var req gatewayChargeReq
	if err := c.Bind(&req); err != nil || req.CustomerID == "" || req.Value <= 0 {
		return req, false
	}
	return req, true
}

// CreateBoletoCharge creates a boleto at the gateway.
func (h *PaymentHandler) CreateBoletoCharge(c echo.Context) error {
	req, ok := h.bindChargeReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cliente_id e valor são obrigatórios"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	charge, err := h.Gateway.CreateBoletoCharge(ctx, req.CustomerID, req.Value, req.Description)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, charge)
}

// CreateCardCharge creates a credit-card charge at the gateway.
func (h *PaymentHandler) CreateCardCharge(c echo.Context) error {
	req, ok := h.bindChargeReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cliente_id e valor são obrigatórios"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	charge, err := h.Gateway.CreateCardCharge(ctx, req.CustomerID, req.Value, req.Description)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, charge)
}

// CreatePixCharge returns a simulated PIX charge with its QR payload.
func (h *PaymentHandler) CreatePixCharge(c echo.Context) error {
	req, ok := h.bindChargeReq(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cliente_id e valor são obrigatórios"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	charge, err := h.Gateway.CreatePixCharge(ctx, req.CustomerID, req.Value, req.Description)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, charge)
}

type gatewayLinkReq struct {
	Name        string  `json:"nome"`
	Value       float64 `json:"valor"`
	Description string  `json:"descricao"`
}

// CreatePaymentLink creates a reusable checkout link at the gateway.
func (h *PaymentHandler) CreatePaymentLink(c echo.Context) error {
	var req gatewayLinkReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Value <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nome e valor são obrigatórios"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	link, err := h.Gateway.CreatePaymentLink(ctx, req.Name, req.Value, req.Description)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, link)
}
