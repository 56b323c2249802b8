package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// PurchaseUseCase órdenes de compra y recepción de mercancía.
// La recepción delega el incremento de stock y el estado de la orden al motor
// de kardex, dentro de la misma transacción que persiste la recepción.
type PurchaseUseCase struct {
	txRunner     appledger.TxRunner
	ledger       *appledger.StockLedgerUseCase
	orderRepo    repository.PurchaseOrderRepository
	receiptRepo  repository.GoodsReceiptRepository
	supplierRepo repository.SupplierRepository
	itemRepo     repository.ItemRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner appledger.TxRunner,
	ledger *appledger.StockLedgerUseCase,
	orderRepo repository.PurchaseOrderRepository,
	receiptRepo repository.GoodsReceiptRepository,
	supplierRepo repository.SupplierRepository,
	itemRepo repository.ItemRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		orderRepo:    orderRepo,
		receiptRepo:  receiptRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
	}
}

// newDocNumber genera un consecutivo legible: PREFIX-20250831-1A2B3C4D.
func newDocNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return prefix + "-" + now.Format("20060102") + "-" + suffix
}

// CreateOrder crea una orden de compra en estado open con sus líneas.
func (uc *PurchaseUseCase) CreateOrder(userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.QtyOrdered <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(l.ItemID)
		if err != nil || item == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		Number:     newDocNumber("PO", now),
		SupplierID: in.SupplierID,
		Status:     entity.OrderStatusOpen,
		OrderDate:  now,
		Note:       in.Note,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	lines := make([]*entity.PurchaseOrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &entity.PurchaseOrderLine{
			ID:         uuid.New().String(),
			OrderID:    order.ID,
			ItemID:     l.ItemID,
			QtyOrdered: l.QtyOrdered,
			UnitCost:   l.UnitCost,
		})
	}
	if err := uc.orderRepo.Create(order, lines); err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// GetOrder obtiene una orden con sus líneas (nil si no existe).
func (uc *PurchaseUseCase) GetOrder(id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}
	lines, err := uc.orderRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// ListOrders lista órdenes, opcionalmente filtradas por estado.
func (uc *PurchaseUseCase) ListOrders(status string, page dto.PageRequest) ([]*dto.PurchaseOrderResponse, error) {
	page.DefaultPage()
	orders, err := uc.orderRepo.List(status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o, nil))
	}
	return out, nil
}

// PostReceipt registra una recepción de mercancía: cabecera, líneas, stock y
// estado de la orden en UNA transacción. Si cualquier línea falla (artículo
// inexistente, cantidad no positiva), nada queda escrito.
func (uc *PurchaseUseCase) PostReceipt(ctx context.Context, userID string, in dto.PostReceiptRequest) (*dto.ReceiptResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Validar la orden fuera de la transacción: existente y no terminal.
	if in.OrderID != "" {
		order, err := uc.orderRepo.GetByID(in.OrderID)
		if err != nil {
			return nil, err
		}
		if order == nil {
			return nil, domain.ErrNotFound
		}
		if order.Status == entity.OrderStatusReceived {
			return nil, domain.ErrOrderReceived
		}
	}

	now := time.Now()
	receipt := &entity.GoodsReceipt{
		ID:         uuid.New().String(),
		Number:     newDocNumber("GR", now),
		OrderID:    in.OrderID,
		ReceivedAt: now,
		ReceivedBy: userID,
		Note:       in.Note,
		CreatedAt:  now,
	}
	ledgerLines := make([]appledger.ReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		ledgerLines = append(ledgerLines, appledger.ReceiptLine{ItemID: l.ItemID, Qty: l.Qty})
	}

	var movements []*entity.StockMovement
	err := uc.txRunner.RunReceipt(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		orderRepo repository.PurchaseOrderRepository,
		receiptRepo repository.GoodsReceiptRepository,
	) error {
		if err := receiptRepo.Create(receipt); err != nil {
			return err
		}
		for _, l := range in.Lines {
			line := &entity.GoodsReceiptLine{
				ID:        uuid.New().String(),
				ReceiptID: receipt.ID,
				ItemID:    l.ItemID,
				Qty:       l.Qty,
			}
			if err := receiptRepo.CreateLine(line); err != nil {
				return err
			}
		}
		var err error
		movements, err = uc.ledger.ApplyReceiptLinesInTx(
			itemRepo, movRepo, orderRepo,
			receipt.ID, in.OrderID, userID, ledgerLines, now,
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ReceiptResponse{
		ID:         receipt.ID,
		Number:     receipt.Number,
		OrderID:    receipt.OrderID,
		ReceivedAt: receipt.ReceivedAt,
		Movements:  toMovementResponses(movements),
	}
	if in.OrderID != "" {
		if order, err := uc.orderRepo.GetByID(in.OrderID); err == nil && order != nil {
			resp.OrderStatus = order.Status
		}
	}
	return resp, nil
}

func toOrderResponse(o *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		OrderDate:  o.OrderDate,
		Note:       o.Note,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.PurchaseOrderLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			QtyOrdered:  l.QtyOrdered,
			QtyReceived: l.QtyReceived,
			UnitCost:    l.UnitCost,
		})
	}
	return resp
}

func toMovementResponses(movs []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.StockMovementResponse{
			ID:        m.ID,
			ItemID:    m.ItemID,
			Kind:      m.Kind,
			Delta:     m.Delta,
			Before:    m.Before,
			After:     m.After,
			Reference: m.Reference,
			Note:      m.Note,
			CreatedBy: m.CreatedBy,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
