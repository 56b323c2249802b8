// Package payment implementa el cliente HTTP hacia la pasarela de pagos
// (API Snap de Midtrans): creación de transacciones y consulta de estado.
package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/application/sales"
)

// Ensure SnapClient implements sales.PaymentGateway.
var _ sales.PaymentGateway = (*SnapClient)(nil)

// Config credenciales y endpoint de la pasarela.
type Config struct {
	ServerKey string
	BaseURL   string // ej. https://app.sandbox.midtrans.com/snap/v1
}

// SnapClient implementa sales.PaymentGateway usando la API Snap.
// Usa net/http de la stdlib; la pasarela habla JSON con auth Basic.
type SnapClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewSnapClient construye el cliente con un timeout de red de 30 s.
func NewSnapClient(cfg Config) *SnapClient {
	return &SnapClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type transactionRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
}

type transactionResponse struct {
	Token        string   `json:"token"`
	RedirectURL  string   `json:"redirect_url"`
	ErrorMessage []string `json:"error_messages"`
}

type statusResponse struct {
	TransactionStatus string `json:"transaction_status"`
	StatusMessage     string `json:"status_message"`
}

// CreateTransaction solicita un token de pago para la venta indicada.
func (c *SnapClient) CreateTransaction(ctx context.Context, orderNumber string, grossAmount decimal.Decimal) (*sales.GatewayTransaction, error) {
	var req transactionRequest
	req.TransactionDetails.OrderID = orderNumber
	req.TransactionDetails.GrossAmount = grossAmount.Round(0).IntPart()

	var resp transactionResponse
	if err := c.do(ctx, http.MethodPost, c.cfg.BaseURL+"/transactions", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.ErrorMessage) > 0 {
		return nil, fmt.Errorf("pasarela: %s", resp.ErrorMessage[0])
	}
	return &sales.GatewayTransaction{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

// CheckStatus consulta el estado del cobro en la pasarela.
func (c *SnapClient) CheckStatus(ctx context.Context, orderNumber string) (string, error) {
	var resp statusResponse
	url := c.cfg.BaseURL + "/transactions/" + orderNumber + "/status"
	if err := c.do(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return "", err
	}
	if resp.TransactionStatus == "" {
		return "", fmt.Errorf("pasarela: %s", resp.StatusMessage)
	}
	return resp.TransactionStatus, nil
}

func (c *SnapClient) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("pasarela: serializar request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("pasarela: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.cfg.ServerKey+":")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pasarela: enviar request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("pasarela: leer respuesta: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("pasarela: HTTP %d: %s", resp.StatusCode, string(data))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("pasarela: decodificar respuesta: %w", err)
	}
	return nil
}
