// Package mercadopago wraps the two provider calls the payment flow needs:
// creating a checkout preference and fetching a payment by id.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"rentradar/internal/app/payments"
)

const defaultBaseURL = "https://api.mercadopago.com"

// Client talks to the MercadoPago REST API with a bearer access token.
type Client struct {
	HTTP        *http.Client
	AccessToken string
	BaseURL     string
	Logger      *slog.Logger
}

type preferenceItem struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type preferenceRequest struct {
	Items    []preferenceItem  `json:"items"`
	BackURLs backURLs          `json:"back_urls"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type preferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

type paymentResponse struct {
	ID       json.Number       `json:"id"`
	Status   string            `json:"status"`
	Metadata map[string]string `json:"metadata"`
}

func (c *Client) CreatePreference(ctx context.Context, req payments.PreferenceRequest) (payments.Preference, error) {
	var zero payments.Preference
	if c.AccessToken == "" {
		return zero, payments.ErrNotConfigured
	}

	body, err := json.Marshal(preferenceRequest{
		Items: []preferenceItem{{
			ID:         req.SKU,
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.UnitPrice,
			CurrencyID: req.Currency,
		}},
		BackURLs: backURLs{
			Success: req.BaseURL + "/?payment=success",
			Failure: req.BaseURL + "/?payment=failure",
			Pending: req.BaseURL + "/?payment=pending",
		},
		Metadata: map[string]string{"user_id": req.UserID},
	})
	if err != nil {
		return zero, err
	}

	var resp preferenceResponse
	if err := c.do(ctx, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return zero, err
	}
	return payments.Preference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (payments.Payment, error) {
	var zero payments.Payment
	if c.AccessToken == "" {
		return zero, payments.ErrNotConfigured
	}
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &resp); err != nil {
		return zero, err
	}
	return payments.Payment{
		ID:     resp.ID.String(),
		Status: resp.Status,
		UserID: resp.Metadata["user_id"],
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, base+path, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+c.AccessToken)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(request)
	if err != nil {
		c.log().Error("mercadopago request failed", "path", path, "error", err)
		return fmt.Errorf("mercadopago: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return payments.ErrPaymentNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log().Error("mercadopago returned error", "path", path, "status", resp.StatusCode, "body", string(snippet))
		return fmt.Errorf("mercadopago: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

var _ payments.Gateway = (*Client)(nil)
