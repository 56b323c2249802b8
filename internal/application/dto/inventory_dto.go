package dto

import "time"

// AdjustStockRequest body para POST /api/inventory/adjustments.
// O bien direction+qty (ajuste direccional), o bien physical_count
// (reconciliación por conteo físico / opname).
type AdjustStockRequest struct {
	ItemID        string `json:"item_id"`
	Direction     string `json:"direction,omitempty"` // increase | decrease
	Qty           int64  `json:"qty,omitempty"`
	PhysicalCount *int64 `json:"physical_count,omitempty"`
	Note          string `json:"note,omitempty"`
}

// StockMovementResponse un renglón de la bitácora de movimientos.
type StockMovementResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Kind      string    `json:"kind"`
	Delta     int64     `json:"delta"`
	Before    int64     `json:"before"`
	After     int64     `json:"after"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AdjustStockResponse resultado del ajuste: movimiento + saldo actualizado.
type AdjustStockResponse struct {
	Movement StockMovementResponse `json:"movement"`
	Item     ItemResponse          `json:"item"`
}

// StockCardResponse tarjeta de stock (kardex) de un artículo.
type StockCardResponse struct {
	Item      ItemResponse            `json:"item"`
	Movements []StockMovementResponse `json:"movements"`
}
