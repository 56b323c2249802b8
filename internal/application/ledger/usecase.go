package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	domledger "github.com/jhoicas/puntoventa-api/internal/domain/ledger"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// Direcciones de un ajuste manual.
const (
	DirectionIncrease = "increase"
	DirectionDecrease = "decrease"
)

// StockLedgerUseCase aplica eventos que cambian el stock de un artículo y
// persiste el movimiento auditable, de forma atómica: las dos escrituras
// (saldo del artículo, registro de movimiento) nunca se observan a medias.
//
// Serialización: toda mutación bloquea la fila del artículo con
// SELECT ... FOR UPDATE antes de leer el saldo, de modo que operaciones
// concurrentes sobre el mismo artículo se encolan y no hay lost updates
// (dos +5 y +3 desde 100 siempre terminan en 108).
type StockLedgerUseCase struct {
	txRunner TxRunner
}

// NewStockLedgerUseCase construye el caso de uso.
func NewStockLedgerUseCase(txRunner TxRunner) *StockLedgerUseCase {
	return &StockLedgerUseCase{txRunner: txRunner}
}

// AdjustmentInput entrada para un ajuste de stock.
// O bien Direction+Qty (ajuste direccional, Qty > 0), o bien PhysicalCount
// (reconciliación por conteo físico / opname: el delta se calcula contra el
// saldo registrado y la dirección se infiere del signo).
type AdjustmentInput struct {
	ItemID        string
	Direction     string // increase | decrease (ignorado si PhysicalCount != nil)
	Qty           int64
	PhysicalCount *int64
	Reference     string
	Note          string
	UserID        string
}

// AdjustmentResult movimiento registrado y artículo con el saldo actualizado.
type AdjustmentResult struct {
	Item     *entity.Item
	Movement *entity.StockMovement
}

// ReceiptLine línea de recepción: cantidad estrictamente positiva.
type ReceiptLine struct {
	ItemID string
	Qty    int64
}

// SaleLineInput línea de venta a descontar del stock.
type SaleLineInput struct {
	ItemID string
	Qty    int64
}

// ApplyAdjustment aplica un ajuste sobre un artículo: bloquea la fila, lee el
// saldo como `before`, calcula `after` según el tipo de ajuste y confirma el
// nuevo saldo junto con el movimiento en una transacción.
//
// Las disminuciones tienen piso en cero: el delta registrado es el recortado al
// stock disponible, nunca deja saldo negativo. Un conteo físico igual al saldo
// registra un ajuste positivo de magnitud cero (queda constancia del conteo).
func (uc *StockLedgerUseCase) ApplyAdjustment(ctx context.Context, input AdjustmentInput) (*AdjustmentResult, error) {
	if input.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.PhysicalCount == nil {
		if input.Direction != DirectionIncrease && input.Direction != DirectionDecrease {
			return nil, domain.ErrInvalidInput
		}
		if input.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
	} else if *input.PhysicalCount < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result AdjustmentResult

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		before := item.Stock

		var after, delta int64
		var kind string
		switch {
		case input.PhysicalCount != nil:
			delta, kind = domledger.CountDelta(before, *input.PhysicalCount)
			after = *input.PhysicalCount
		case input.Direction == DirectionIncrease:
			after = before + input.Qty
			delta = input.Qty
			kind = entity.MovementAdjustIn
		default: // decrease con piso en cero
			var applied int64
			after, applied = domledger.ApplyDecrease(before, input.Qty)
			delta = -applied
			kind = entity.MovementAdjustOut
		}

		if err := itemRepo.UpdateStock(item.ID, after); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ItemID:    item.ID,
			Kind:      kind,
			Delta:     delta,
			Before:    before,
			After:     after,
			Reference: input.Reference,
			Note:      input.Note,
			CreatedBy: input.UserID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		item.Stock = after
		item.UpdatedAt = now
		result.Item = item
		result.Movement = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ApplyReceiptLines aplica una recepción de mercancía como unidad atómica:
// cada línea incrementa el stock de su artículo y registra un movimiento
// `receipt`; si la recepción referencia una orden de compra, acumula lo
// recibido en las líneas de la orden y recalcula su estado de cumplimiento
// dentro de la misma transacción. Cualquier línea con artículo inexistente o
// cantidad no positiva aborta el lote completo.
func (uc *StockLedgerUseCase) ApplyReceiptLines(ctx context.Context, receiptID, orderID, userID string, lines []ReceiptLine) ([]*entity.StockMovement, error) {
	if err := validateReceiptLines(receiptID, lines); err != nil {
		return nil, err
	}
	var movements []*entity.StockMovement
	err := uc.txRunner.RunReceipt(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
		_ repository.GoodsReceiptRepository,
	) error {
		var err error
		movements, err = uc.ApplyReceiptLinesInTx(itemRepo, movRepo, orderRepo, receiptID, orderID, userID, lines, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// ApplyReceiptLinesInTx ejecuta la recepción usando los repositorios
// proporcionados (misma transacción del caller). Lo usa el caso de uso de
// compras para confirmar cabecera de recepción, stock y estado de la orden
// en una sola transacción.
func (uc *StockLedgerUseCase) ApplyReceiptLinesInTx(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	orderRepo repository.PurchaseOrderRepository,
	receiptID, orderID, userID string,
	lines []ReceiptLine,
	now time.Time,
) ([]*entity.StockMovement, error) {
	if err := validateReceiptLines(receiptID, lines); err != nil {
		return nil, err
	}

	// Si hay orden, bloquear sus líneas primero: recepciones concurrentes de la
	// misma orden se serializan y el estado se recalcula sobre acumulados firmes.
	var orderLines []*entity.PurchaseOrderLine
	if orderID != "" {
		var err error
		orderLines, err = orderRepo.GetLinesForUpdate(orderID)
		if err != nil {
			return nil, err
		}
		if len(orderLines) == 0 {
			return nil, domain.ErrNotFound
		}
	}

	movements := make([]*entity.StockMovement, 0, len(lines))
	for _, line := range lines {
		item, err := itemRepo.GetForUpdate(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		before := item.Stock
		after := before + line.Qty
		if err := itemRepo.UpdateStock(item.ID, after); err != nil {
			return nil, err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ItemID:    item.ID,
			Kind:      entity.MovementReceipt,
			Delta:     line.Qty,
			Before:    before,
			After:     after,
			Reference: receiptID,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)

		if orderID != "" {
			if err := applyToOrderLine(orderRepo, orderLines, orderID, line.ItemID, line.Qty); err != nil {
				return nil, err
			}
		}
	}

	if orderID != "" {
		status := domledger.FulfillmentStatus(deref(orderLines))
		if err := orderRepo.UpdateStatus(orderID, status); err != nil {
			return nil, err
		}
	}
	return movements, nil
}

// ApplySaleLines descuenta el stock de cada línea vendida (con piso en cero,
// misma política que los ajustes) y registra un movimiento `sale` por línea,
// como unidad atómica. Un artículo inexistente aborta la venta completa.
func (uc *StockLedgerUseCase) ApplySaleLines(ctx context.Context, saleID, userID string, lines []SaleLineInput) ([]*entity.StockMovement, error) {
	if saleID == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var movements []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		var err error
		movements, err = uc.ApplySaleLinesInTx(itemRepo, movRepo, saleID, userID, lines, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return movements, nil
}

// ApplySaleLinesInTx ejecuta el descuento de venta usando los repositorios
// proporcionados (misma transacción del caller, ver sales.CheckoutUseCase).
func (uc *StockLedgerUseCase) ApplySaleLinesInTx(
	itemRepo repository.ItemRepository,
	movRepo repository.StockMovementRepository,
	saleID, userID string,
	lines []SaleLineInput,
	now time.Time,
) ([]*entity.StockMovement, error) {
	movements := make([]*entity.StockMovement, 0, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := itemRepo.GetForUpdate(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		before := item.Stock
		after, applied := domledger.ApplyDecrease(before, line.Qty)
		if err := itemRepo.UpdateStock(item.ID, after); err != nil {
			return nil, err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ItemID:    item.ID,
			Kind:      entity.MovementSale,
			Delta:     -applied,
			Before:    before,
			After:     after,
			Reference: saleID,
			CreatedBy: userID,
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return nil, err
		}
		movements = append(movements, mov)
	}
	return movements, nil
}

func validateReceiptLines(receiptID string, lines []ReceiptLine) error {
	if receiptID == "" || len(lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, line := range lines {
		if line.ItemID == "" || line.Qty <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

// applyToOrderLine acumula lo recibido en la línea de la orden que corresponde
// al artículo, tanto en BD como en la copia bloqueada en memoria (para que el
// recálculo de estado vea los acumulados nuevos).
func applyToOrderLine(orderRepo repository.PurchaseOrderRepository, orderLines []*entity.PurchaseOrderLine, orderID, itemID string, qty int64) error {
	for _, ol := range orderLines {
		if ol.ItemID == itemID {
			if err := orderRepo.AddReceived(orderID, itemID, qty); err != nil {
				return err
			}
			ol.QtyReceived += qty
			return nil
		}
	}
	// Artículo recibido fuera de la orden: entra al stock pero no afecta la orden.
	return nil
}

func deref(lines []*entity.PurchaseOrderLine) []entity.PurchaseOrderLine {
	out := make([]entity.PurchaseOrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	return out
}
