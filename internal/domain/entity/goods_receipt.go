package entity

import "time"

// GoodsReceipt recepción de mercancía. Puede referenciar una orden de compra;
// en ese caso la recepción actualiza los acumulados y el estado de la orden.
type GoodsReceipt struct {
	ID         string
	Number     string // consecutivo legible (GR-2025-0001)
	OrderID    string // vacío si es recepción directa sin orden
	ReceivedAt time.Time
	ReceivedBy string // UserID
	Note       string
	CreatedAt  time.Time
}

// GoodsReceiptLine línea recibida: cantidad estrictamente positiva.
type GoodsReceiptLine struct {
	ID        string
	ReceiptID string
	ItemID    string
	Qty       int64
}
