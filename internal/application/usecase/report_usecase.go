package usecase

import (
	"time"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// StockExporter puerto de salida para exportar reportes a hoja de cálculo.
// La implementación concreta usa excelize; para tests se puede inyectar un mock.
type StockExporter interface {
	StockListWorkbook(items []*entity.Item) ([]byte, error)
	StockCardWorkbook(item *entity.Item, movements []*entity.StockMovement) ([]byte, error)
}

// ReportUseCase lecturas de la bitácora y reportes. Solo lee: la bitácora de
// movimientos nunca se modifica desde aquí.
type ReportUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.StockMovementRepository
	exporter StockExporter
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(itemRepo repository.ItemRepository, movRepo repository.StockMovementRepository, exporter StockExporter) *ReportUseCase {
	return &ReportUseCase{itemRepo: itemRepo, movRepo: movRepo, exporter: exporter}
}

// StockCard devuelve la tarjeta de stock (kardex) de un artículo: movimientos
// en orden cronológico con saldos before/after.
func (uc *ReportUseCase) StockCard(itemID string, from, to *time.Time, page dto.PageRequest) (*dto.StockCardResponse, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByItem(itemID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.StockCardResponse{
		Item:      *toItemResponse(item),
		Movements: toMovementResponses(movs),
	}, nil
}

// LowStock devuelve los artículos en o por debajo de su punto de reorden.
func (uc *ReportUseCase) LowStock() ([]*dto.ItemResponse, error) {
	items, err := uc.itemRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out, nil
}

// RecentMovements últimos movimientos de todos los artículos.
func (uc *ReportUseCase) RecentMovements(page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	page.DefaultPage()
	movs, err := uc.movRepo.ListRecent(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movs), nil
}

// ExportStockList genera el listado de stock en formato .xlsx.
func (uc *ReportUseCase) ExportStockList() ([]byte, error) {
	// Exportar completo: el límite alto evita paginar el archivo.
	items, err := uc.itemRepo.List(10000, 0)
	if err != nil {
		return nil, err
	}
	return uc.exporter.StockListWorkbook(items)
}

// ExportStockCard genera la tarjeta de stock de un artículo en formato .xlsx.
func (uc *ReportUseCase) ExportStockCard(itemID string, from, to *time.Time) ([]byte, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movRepo.ListByItem(itemID, from, to, 10000, 0)
	if err != nil {
		return nil, err
	}
	return uc.exporter.StockCardWorkbook(item, movs)
}
