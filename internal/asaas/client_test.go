package asaas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateCustomerSendsKeyAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("access_token"); got != "chave-teste" {
			t.Fatalf("access_token = %q", got)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if in["cpfCnpj"] != "12345678900" {
			t.Fatalf("cpfCnpj = %q", in["cpfCnpj"])
		}
		json.NewEncoder(w).Encode(Customer{ID: "cus_001", Name: in["name"], Email: in["email"]})
	}))
	defer srv.Close()

	c := NewClient("chave-teste", srv.URL)
	cust, err := c.CreateCustomer(context.Background(), "Ana Souza", "ana@vitta.fit", "12345678900", "")
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if cust.ID != "cus_001" {
		t.Fatalf("ID = %q, want cus_001", cust.ID)
	}
}

func TestFindCustomerByEmailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("email"); got != "ninguem@vitta.fit" {
			t.Fatalf("email query = %q", got)
		}
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient("chave-teste", srv.URL)
	cust, err := c.FindCustomerByEmail(context.Background(), "ninguem@vitta.fit")
	if err != nil {
		t.Fatalf("FindCustomerByEmail: %v", err)
	}
	if cust != nil {
		t.Fatalf("got %+v, want nil for unknown email", cust)
	}
}

func TestErrorEnvelopeSurfacesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"invalid_cpfCnpj","description":"O CPF/CNPJ informado é inválido."}]}`))
	}))
	defer srv.Close()

	c := NewClient("chave-teste", srv.URL)
	_, err := c.CreateCustomer(context.Background(), "Ana", "ana@vitta.fit", "000", "")
	if err == nil {
		t.Fatalf("expected gateway error")
	}
	if !strings.Contains(err.Error(), "O CPF/CNPJ informado é inválido.") {
		t.Fatalf("error %q does not carry the gateway description", err)
	}
}

func TestCreateBoletoChargeBillingType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if in["billingType"] != "BOLETO" {
			t.Fatalf("billingType = %v", in["billingType"])
		}
		json.NewEncoder(w).Encode(Charge{ID: "pay_001", BillingType: "BOLETO", Status: "PENDING"})
	}))
	defer srv.Close()

	c := NewClient("chave-teste", srv.URL)
	ch, err := c.CreateBoletoCharge(context.Background(), "cus_001", 99.90, "Plano Mensal")
	if err != nil {
		t.Fatalf("CreateBoletoCharge: %v", err)
	}
	if ch.ID != "pay_001" {
		t.Fatalf("ID = %q", ch.ID)
	}
}

func TestCreatePixChargeIsSimulated(t *testing.T) {
	// No server: the PIX flow must not touch the network.
	c := NewClient("chave-teste", "http://127.0.0.1:0")
	ch, err := c.CreatePixCharge(context.Background(), "cus_001", 99.90, "Plano Mensal")
	if err != nil {
		t.Fatalf("CreatePixCharge: %v", err)
	}
	if !strings.HasPrefix(ch.ID, "pix_sim_") {
		t.Fatalf("ID = %q, want pix_sim_ prefix", ch.ID)
	}
	if ch.PixQRCode == "" {
		t.Fatalf("missing QR payload")
	}
	if ch.Status != "PENDING" {
		t.Fatalf("Status = %q, want PENDING", ch.Status)
	}
}
