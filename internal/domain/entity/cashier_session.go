package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de caja.
const (
	SessionOpen   = "open"
	SessionClosed = "closed"
)

// CashierSession turno de caja de un cajero: abre con un fondo inicial y
// cierra comparando el efectivo contado contra el esperado
// (fondo + ventas en efectivo del turno).
type CashierSession struct {
	ID           string
	UserID       string
	Status       string
	OpeningFloat decimal.Decimal
	ExpectedCash decimal.Decimal // calculado al cierre
	CountedCash  decimal.Decimal // declarado por el cajero al cierre
	OpenedAt     time.Time
	ClosedAt     *time.Time
}
