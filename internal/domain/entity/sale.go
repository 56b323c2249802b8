package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentCash    = "cash"
	PaymentGateway = "gateway"
)

// Estados de una venta.
const (
	SaleStatusPaid    = "paid"
	SaleStatusPending = "pending" // esperando confirmación de la pasarela
)

// Sale venta de mostrador. El descuento de stock y la creación de la venta
// ocurren en una sola transacción: si algún artículo no existe, la venta
// completa se aborta.
type Sale struct {
	ID            string
	Number        string // consecutivo legible (TRX-2025-0001)
	CustomerID    string // vacío para venta de mostrador anónima
	SessionID     string // sesión de caja activa del cajero
	Status        string
	PaymentMethod string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Paid          decimal.Decimal // monto entregado (efectivo)
	Change        decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
}

// SaleLine línea de venta.
type SaleLine struct {
	ID        string
	SaleID    string
	ItemID    string
	Qty       int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}
