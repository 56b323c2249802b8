package repository

import (
	"time"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para la bitácora de
// movimientos de stock. Solo inserta y lee: los movimientos nunca se modifican.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByItem devuelve los movimientos de un artículo ordenados por fecha
	// ascendente (kardex / tarjeta de stock).
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListRecent(limit, offset int) ([]*entity.StockMovement, error)
}
