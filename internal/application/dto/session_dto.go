package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenSessionRequest body para POST /api/sessions/open.
type OpenSessionRequest struct {
	OpeningFloat decimal.Decimal `json:"opening_float"`
}

// CloseSessionRequest body para POST /api/sessions/:id/close.
type CloseSessionRequest struct {
	CountedCash decimal.Decimal `json:"counted_cash"`
}

// SessionResponse sesión de caja.
type SessionResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Status       string          `json:"status"`
	OpeningFloat decimal.Decimal `json:"opening_float"`
	ExpectedCash decimal.Decimal `json:"expected_cash"`
	CountedCash  decimal.Decimal `json:"counted_cash"`
	// Difference = contado - esperado (negativo: faltante).
	Difference decimal.Decimal `json:"difference"`
	OpenedAt   time.Time       `json:"opened_at"`
	ClosedAt   *time.Time      `json:"closed_at,omitempty"`
}
