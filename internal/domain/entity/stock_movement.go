package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementAdjustIn  = "adjust_in"  // ajuste positivo (incluye opname con delta cero)
	MovementAdjustOut = "adjust_out" // ajuste negativo
	MovementReceipt   = "receipt"    // recepción de mercancía
	MovementSale      = "sale"       // venta
)

// StockMovement es el registro inmutable de un evento que cambió el stock de un
// artículo. Invariante: After = Before + Delta; plegando Before→After en orden
// cronológico se reconstruye exactamente el stock actual del artículo.
// Se crea una sola vez, dentro de la misma transacción que actualiza Item.Stock,
// y nunca se modifica ni se borra (bitácora append-only).
type StockMovement struct {
	ID        string
	ItemID    string
	Kind      string // adjust_in, adjust_out, receipt, sale
	Delta     int64  // cambio con signo realmente aplicado (recortado si hubo piso en cero)
	Before    int64  // stock inmediatamente antes
	After     int64  // stock inmediatamente después
	Reference string // id de recepción, venta u opname que lo originó
	Note      string
	CreatedBy string // UserID
	CreatedAt time.Time
}
