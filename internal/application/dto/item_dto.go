package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id"`
	SupplierID   string          `json:"supplier_id"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	InitialStock int64           `json:"initial_stock"`
	ReorderLevel int64           `json:"reorder_level"`
}

// UpdateItemRequest body para PUT /api/items/:id. Stock NO se actualiza por
// aquí: solo vía ajustes/recepciones/ventas del kardex.
type UpdateItemRequest struct {
	Name         string           `json:"name"`
	CategoryID   string           `json:"category_id"`
	SupplierID   string           `json:"supplier_id"`
	Unit         string           `json:"unit"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	ReorderLevel *int64           `json:"reorder_level,omitempty"`
}

// ItemResponse representación de un artículo en respuestas.
type ItemResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	CategoryID   string          `json:"category_id,omitempty"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int64           `json:"stock"`
	ReorderLevel int64           `json:"reorder_level"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
