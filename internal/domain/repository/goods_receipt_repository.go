package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// GoodsReceiptRepository define el puerto de persistencia para recepciones.
type GoodsReceiptRepository interface {
	Create(receipt *entity.GoodsReceipt) error
	CreateLine(line *entity.GoodsReceiptLine) error
	GetByID(id string) (*entity.GoodsReceipt, error)
	GetLines(receiptID string) ([]*entity.GoodsReceiptLine, error)
	ListByOrder(orderID string) ([]*entity.GoodsReceipt, error)
}
