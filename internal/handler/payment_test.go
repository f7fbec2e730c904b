package handler

import (
	"net/http"
	"strings"
	"testing"
)

func TestCreatePaymentRejectsMalformedDates(t *testing.T) {
	// Date validation runs before any repository access, so a zero-value
	// handler is enough here.
	h := &PaymentHandler{}

	tests := []struct {
		body  string
		field string
	}{
		{`{"usuario_id":1,"plano_id":2,"data_pagamento":"15/06/2026"}`, "data_pagamento"},
		{`{"usuario_id":1,"plano_id":2,"data_pagamento":"2026-13-40"}`, "data_pagamento"},
		{`{"usuario_id":1,"plano_id":2,"data_vencimento":"amanhã"}`, "data_vencimento"},
	}
	for _, tt := range tests {
		c, rec := postJSON("/pagamentos", tt.body)
		if err := h.Create(c); err != nil {
			t.Fatalf("Create(%s): %v", tt.body, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Create(%s) status = %d, want 400", tt.body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tt.field) {
			t.Fatalf("Create(%s) body %q does not name %s", tt.body, rec.Body.String(), tt.field)
		}
	}
}

func TestCreatePaymentRequiresIDs(t *testing.T) {
	h := &PaymentHandler{}
	c, rec := postJSON("/pagamentos", `{"plano_id":2}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
