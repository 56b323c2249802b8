package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de ajustes de stock y kardex (protegido).
type InventoryHandler struct {
	ledger  *ledger.StockLedgerUseCase
	reports *usecase.ReportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledgerUC *ledger.StockLedgerUseCase, reports *usecase.ReportUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledgerUC, reports: reports}
}

// PostAdjustment aplica un ajuste manual o un conteo físico sobre un artículo.
func (h *InventoryHandler) PostAdjustment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.ledger.ApplyAdjustment(c.Context(), ledger.AdjustmentInput{
		ItemID:        in.ItemID,
		Direction:     in.Direction,
		Qty:           in.Qty,
		PhysicalCount: in.PhysicalCount,
		Note:          in.Note,
		UserID:        userID,
	})
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		Movement: toMovementResponse(result.Movement),
		Item:     toItemResponse(result.Item),
	})
}

// StockCard devuelve la tarjeta de stock (kardex) de un artículo.
func (h *InventoryHandler) StockCard(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fechas inválidas (RFC3339)"})
	}
	card, err := h.reports.StockCard(c.Params("id"), from, to, page)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(card)
}

// RecentMovements últimos movimientos de todos los artículos.
func (h *InventoryHandler) RecentMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	movs, err := h.reports.RecentMovements(page)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movs), "movements": movs})
}

// parseDateRange lee from/to de la query en formato RFC3339 (opcionales).
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("from"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, perr := time.Parse(time.RFC3339, s)
		if perr != nil {
			return nil, nil, perr
		}
		to = &t
	}
	return from, to, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
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
	}
}

func toItemResponse(it *entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:           it.ID,
		Code:         it.Code,
		Name:         it.Name,
		CategoryID:   it.CategoryID,
		SupplierID:   it.SupplierID,
		Unit:         it.Unit,
		Price:        it.Price,
		Cost:         it.Cost,
		Stock:        it.Stock,
		ReorderLevel: it.ReorderLevel,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
}
