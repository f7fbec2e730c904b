package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vittahq/vitta-api/internal/config"
	"github.com/vittahq/vitta-api/internal/model"
	"github.com/vittahq/vitta-api/internal/repository"
)

type fakeUserStore struct {
	createErr error
	created   []string
	user      model.User
}

func (f *fakeUserStore) Create(_ context.Context, name, email, _ string, _ int) (model.User, error) {
	if f.createErr != nil {
		return model.User{}, f.createErr
	}
	f.created = append(f.created, email)
	u := f.user
	u.Name = name
	u.Email = email
	return u, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, _ string) (model.User, error) {
	return f.user, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, _ uint64) (model.User, error) {
	return f.user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, _, _ string) error { return nil }

func postJSON(path, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := &fakeUserStore{createErr: repository.ErrEmailExists}
	h := NewAuthHandler(config.Config{JWTSecret: "unit-secret", BcryptCost: 4}, store, nil, nil)

	c, rec := postJSON("/auth-usuarios/register",
		`{"nome":"Ana Souza","email":"ana@vitta.fit","senha":"s3nh4"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Usuário já cadastrado") {
		t.Fatalf("body %q missing duplicate message", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("duplicate registration issued a token")
	}
	if len(store.created) != 0 {
		t.Fatalf("account stored despite duplicate email: %v", store.created)
	}
}

func TestRegisterCreatesAccount(t *testing.T) {
	store := &fakeUserStore{user: model.User{
		ID:         7,
		Status:     model.AccountPending,
		PlanStatus: model.PlanNone,
	}}
	h := NewAuthHandler(config.Config{JWTSecret: "unit-secret", BcryptCost: 4}, store, nil, nil)

	c, rec := postJSON("/auth-usuarios/register",
		`{"nome":"Ana Souza","email":"ana@vitta.fit","senha":"s3nh4"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"token"`) {
		t.Fatalf("response missing token: %s", body)
	}
	if !strings.Contains(body, `"status":"pending"`) || !strings.Contains(body, `"status_plano":"sem_plano"`) {
		t.Fatalf("new account not reported as pending/sem_plano: %s", body)
	}
	if len(store.created) != 1 || store.created[0] != "ana@vitta.fit" {
		t.Fatalf("created = %v, want one ana@vitta.fit", store.created)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	store := &fakeUserStore{}
	h := NewAuthHandler(config.Config{JWTSecret: "unit-secret", BcryptCost: 4}, store, nil, nil)

	c, rec := postJSON("/auth-usuarios/register", `{"email":"ana@vitta.fit"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.created) != 0 {
		t.Fatalf("account stored despite missing fields")
	}
}
