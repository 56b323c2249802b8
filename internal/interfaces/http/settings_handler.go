package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
)

// SettingsHandler maneja la configuración de la tienda (solo admin).
type SettingsHandler struct {
	uc *usecase.SettingsUseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *usecase.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// GetAll devuelve toda la configuración.
func (h *SettingsHandler) GetAll(c *fiber.Ctx) error {
	settings, err := h.uc.GetAll()
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(fiber.Map{"settings": settings})
}

// Upsert crea o actualiza una clave de configuración.
func (h *SettingsHandler) Upsert(c *fiber.Ctx) error {
	var in dto.SettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	setting, err := h.uc.Upsert(in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(setting)
}
