package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id"`
	Note       string                     `json:"note,omitempty"`
	Lines      []PurchaseOrderLineRequest `json:"lines"`
}

// PurchaseOrderLineRequest línea pedida.
type PurchaseOrderLineRequest struct {
	ItemID     string          `json:"item_id"`
	QtyOrdered int64           `json:"qty_ordered"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// PurchaseOrderResponse orden con sus líneas.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	Number     string                      `json:"number"`
	SupplierID string                      `json:"supplier_id"`
	Status     string                      `json:"status"`
	OrderDate  time.Time                   `json:"order_date"`
	Note       string                      `json:"note,omitempty"`
	Lines      []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// PurchaseOrderLineResponse línea con acumulado recibido.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	QtyOrdered  int64           `json:"qty_ordered"`
	QtyReceived int64           `json:"qty_received"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// PostReceiptRequest body para POST /api/receipts.
// order_id vacío = recepción directa sin orden de compra.
type PostReceiptRequest struct {
	OrderID string               `json:"order_id,omitempty"`
	Note    string               `json:"note,omitempty"`
	Lines   []ReceiptLineRequest `json:"lines"`
}

// ReceiptLineRequest línea recibida, qty > 0.
type ReceiptLineRequest struct {
	ItemID string `json:"item_id"`
	Qty    int64  `json:"qty"`
}

// ReceiptResponse recepción registrada con sus movimientos de stock.
type ReceiptResponse struct {
	ID          string                  `json:"id"`
	Number      string                  `json:"number"`
	OrderID     string                  `json:"order_id,omitempty"`
	OrderStatus string                  `json:"order_status,omitempty"`
	ReceivedAt  time.Time               `json:"received_at"`
	Movements   []StockMovementResponse `json:"movements"`
}
