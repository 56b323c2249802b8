package ledger

import (
	"context"

	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de kardex:
// o se confirman el stock y el movimiento juntos, o ninguno.
type TxRunner interface {
	// Run transacción mínima del kardex (ajustes y descuentos sueltos).
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error

	// RunReceipt transacción de recepción: además de stock y movimientos,
	// actualiza acumulados y estado de la orden de compra y persiste la recepción.
	RunReceipt(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
		receiptRepo repository.GoodsReceiptRepository,
	) error) error

	// RunSale transacción de venta: venta + líneas + descuento de stock +
	// movimientos en una sola unidad atómica.
	RunSale(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
