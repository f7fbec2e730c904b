// Package asaas is a thin client for the Asaas payment gateway REST API
// (sandbox by default).  Only the operations the back office needs are
// implemented: customers, boleto and card charges, payment links, and a
// simulated PIX flow.
package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vittahq/vitta-api/internal/utils"
)

const DefaultBaseURL = "https://sandbox.asaas.com/api/v3"

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Customer is the subset of the gateway customer object we read back.
type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	CPFCNPJ string `json:"cpfCnpj"`
}

// Charge is the subset of the gateway payment object we read back.
type Charge struct {
	ID          string  `json:"id"`
	Customer    string  `json:"customer"`
	BillingType string  `json:"billingType"`
	Value       float64 `json:"value"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"`
	InvoiceURL  string  `json:"invoiceUrl"`
	BankSlipURL string  `json:"bankSlipUrl"`
	// PIX-only fields, filled by the simulated flow.
	PixQRCode string `json:"pixQrCode,omitempty"`
}

// PaymentLink is the gateway payment-link object.
type PaymentLink struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// apiError mirrors the gateway's error envelope:
// {"errors":[{"code":"...","description":"..."}]}.
type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// do sends one API request and decodes the response into out.  Gateway
// errors are surfaced with their description so handlers can pass them
// back to the caller as-is.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("asaas: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("asaas: build request: %w", err)
	}
	req.Header.Set("access_token", c.APIKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("asaas: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("asaas: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("asaas: %s", apiErr.Errors[0].Description)
		}
		return fmt.Errorf("asaas: %s %s: status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("asaas: decode response: %w", err)
		}
	}
	return nil
}

// CreateCustomer registers a customer at the gateway.
func (c *Client) CreateCustomer(ctx context.Context, name, email, cpfCnpj, phone string) (*Customer, error) {
	in := map[string]string{
		"name":    name,
		"email":   email,
		"cpfCnpj": cpfCnpj,
	}
	if phone != "" {
		in["mobilePhone"] = phone
	}
	var out Customer
	if err := c.do(ctx, http.MethodPost, "/customers", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindCustomerByEmail looks a customer up by email; returns nil when the
// gateway knows no such customer.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	var out struct {
		Data []Customer `json:"data"`
	}
	path := "/customers?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, nil
	}
	return &out.Data[0], nil
}

// CreateBoletoCharge creates a boleto due in five days.
func (c *Client) CreateBoletoCharge(ctx context.Context, customerID string, value float64, description string) (*Charge, error) {
	in := map[string]any{
		"customer":    customerID,
		"billingType": "BOLETO",
		"value":       value,
		"dueDate":     time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
		"description": description,
	}
	var out Charge
	if err := c.do(ctx, http.MethodPost, "/payments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCardCharge creates a credit-card charge due in three days; the
// card itself is entered on the gateway's invoice page.
func (c *Client) CreateCardCharge(ctx context.Context, customerID string, value float64, description string) (*Charge, error) {
	in := map[string]any{
		"customer":    customerID,
		"billingType": "CREDIT_CARD",
		"value":       value,
		"dueDate":     time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		"description": description,
	}
	var out Charge
	if err := c.do(ctx, http.MethodPost, "/payments", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePaymentLink creates a reusable checkout link accepting card and
// boleto.
func (c *Client) CreatePaymentLink(ctx context.Context, name string, value float64, description string) (*PaymentLink, error) {
	in := map[string]any{
		"name":             name,
		"value":            value,
		"description":      description,
		"billingType":      "UNDEFINED",
		"chargeType":       "DETACHED",
		"dueDateLimitDays": 10,
	}
	var out PaymentLink
	if err := c.do(ctx, http.MethodPost, "/paymentLinks", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePixCharge simulates a PIX charge locally.  The sandbox account
// has no PIX key provisioned, so instead of calling the gateway we mint
// a deterministic-looking charge with a static QR payload; the rest of
// the payment flow treats it like any other charge.
func (c *Client) CreatePixCharge(_ context.Context, customerID string, value float64, description string) (*Charge, error) {
	suffix, err := utils.RandomHex(12)
	if err != nil {
		return nil, err
	}
	return &Charge{
		ID:          "pix_sim_" + suffix,
		Customer:    customerID,
		BillingType: "PIX",
		Value:       value,
		DueDate:     time.Now().Format("2006-01-02"),
		Status:      "PENDING",
		PixQRCode:   "00020126580014br.gov.bcb.pix0136vitta-sim-qr-payload520400005303986",
	}, nil
}
