package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	GetLines(orderID string) ([]*entity.PurchaseOrderLine, error)
	// GetLinesForUpdate bloquea las líneas de la orden (SELECT FOR UPDATE) para
	// que recepciones concurrentes sobre la misma orden se serialicen.
	GetLinesForUpdate(orderID string) ([]*entity.PurchaseOrderLine, error)
	// AddReceived acumula cantidad recibida en la línea del artículo indicado.
	AddReceived(orderID, itemID string, qty int64) error
	UpdateStatus(orderID, status string) error
	List(status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
