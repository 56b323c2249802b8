package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
)

// ReportHandler maneja reportes y exportaciones (protegido).
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock artículos en o por debajo de su punto de reorden.
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock()
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// ExportStockList descarga el listado de stock en .xlsx.
func (h *ReportHandler) ExportStockList(c *fiber.Ctx) error {
	data, err := h.uc.ExportStockList()
	if err != nil {
		return handleError(c, err)
	}
	filename := "stock_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// ExportStockCard descarga la tarjeta de stock de un artículo en .xlsx.
func (h *ReportHandler) ExportStockCard(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fechas inválidas (RFC3339)"})
	}
	data, err := h.uc.ExportStockCard(c.Params("id"), from, to)
	if err != nil {
		return handleError(c, err)
	}
	filename := "kardex_" + c.Params("id") + "_" + time.Now().Format("20060102_150405") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}
