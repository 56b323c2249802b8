package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cumplimiento de una orden de compra.
// open → partial → received; received es terminal.
const (
	OrderStatusOpen     = "open"
	OrderStatusPartial  = "partial"
	OrderStatusReceived = "received"
)

// PurchaseOrder orden de compra a un proveedor.
// Status se deriva de QtyReceived vs QtyOrdered de sus líneas y se actualiza
// en la misma transacción que registra la recepción.
type PurchaseOrder struct {
	ID         string
	Number     string // consecutivo legible (PO-2025-0001)
	SupplierID string
	Status     string
	OrderDate  time.Time
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseOrderLine línea de una orden de compra.
type PurchaseOrderLine struct {
	ID          string
	OrderID     string
	ItemID      string
	QtyOrdered  int64
	QtyReceived int64 // acumulado de recepciones
	UnitCost    decimal.Decimal
}

// Fulfilled indica si la línea ya recibió todo lo pedido.
func (l PurchaseOrderLine) Fulfilled() bool {
	return l.QtyReceived >= l.QtyOrdered
}
