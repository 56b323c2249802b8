package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutRequest body para POST /api/sales.
type CheckoutRequest struct {
	CustomerID    string            `json:"customer_id,omitempty"`
	PaymentMethod string            `json:"payment_method"` // cash | gateway
	Paid          decimal.Decimal   `json:"paid"`           // efectivo entregado (cash)
	Lines         []SaleLineRequest `json:"lines"`
}

// SaleLineRequest línea vendida.
type SaleLineRequest struct {
	ItemID string `json:"item_id"`
	Qty    int64  `json:"qty"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID            string             `json:"id"`
	Number        string             `json:"number"`
	CustomerID    string             `json:"customer_id,omitempty"`
	SessionID     string             `json:"session_id,omitempty"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Paid          decimal.Decimal    `json:"paid"`
	Change        decimal.Decimal    `json:"change"`
	CreatedAt     time.Time          `json:"created_at"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
	// PaymentToken token de la pasarela para completar el pago (solo gateway).
	PaymentToken string `json:"payment_token,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
}

// SaleLineResponse línea de venta con totales.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Qty       int64           `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
