package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
// Stock NO se modifica por Update: solo el motor de kardex escribe el stock,
// vía GetForUpdate + UpdateStock dentro de una transacción.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetByCode(code string) (*entity.Item, error)
	Update(item *entity.Item) error
	List(limit, offset int) ([]*entity.Item, error)
	ListLowStock() ([]*entity.Item, error)
	Delete(id string) error
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE) para que las
	// operaciones de kardex concurrentes sobre el mismo artículo se serialicen.
	GetForUpdate(id string) (*entity.Item, error)
	// UpdateStock escribe el stock resultante. Usar solo dentro de la transacción
	// que también inserta el StockMovement correspondiente.
	UpdateStock(id string, stock int64) error
}
