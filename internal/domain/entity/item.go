package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo del catálogo (SKU único por tienda).
// Stock es la cantidad disponible actual; SOLO el motor de kardex la modifica,
// siempre en pareja con un StockMovement dentro de la misma transacción.
type Item struct {
	ID           string
	Code         string // código único del artículo
	Name         string
	CategoryID   string
	SupplierID   string
	Unit         string          // unidad de medida (pcs, kg, caja...)
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo de compra
	Stock        int64           // cantidad disponible, nunca negativa
	ReorderLevel int64           // punto de reorden para la lista de stock bajo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
