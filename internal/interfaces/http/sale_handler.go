package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
)

// SaleHandler maneja las peticiones HTTP de ventas de mostrador (protegido).
type SaleHandler struct {
	uc *sales.CheckoutUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.CheckoutUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Checkout registra una venta: crea la venta y descuenta stock atómicamente.
func (h *SaleHandler) Checkout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CheckoutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.Checkout(c.Context(), userID, in)
	if err != nil {
		if sale != nil {
			// Venta confirmada pero la pasarela falló: devolver la venta en
			// pending para que el cobro se reintente.
			return c.Status(fiber.StatusCreated).JSON(sale)
		}
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID obtiene una venta con sus líneas.
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	if sale == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	}
	return c.JSON(sale)
}

// List lista ventas en un rango de fechas (?from=...&to=... RFC3339).
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fechas inválidas (RFC3339)"})
	}
	salesList, err := h.uc.List(from, to, page)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(salesList), "sales": salesList})
}

// ConfirmPayment consulta la pasarela y marca la venta como pagada si aplica.
func (h *SaleHandler) ConfirmPayment(c *fiber.Ctx) error {
	sale, err := h.uc.ConfirmGatewayPayment(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(sale)
}

// ReceiptPDF descarga el ticket de la venta en PDF.
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.ReceiptPDF(c.Context(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="ticket-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}
