package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	UpdateStatus(saleID, status string) error
	List(from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
	// SumCashBySession suma el total de ventas en efectivo de una sesión de caja
	// (para el arqueo al cierre).
	SumCashBySession(sessionID string) (decimal.Decimal, error)
}
