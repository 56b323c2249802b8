package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos. El stock NO se modifica por
// aquí: el stock inicial entra como un ajuste del kardex y el resto de cambios
// vía recepciones, ventas y ajustes.
type ItemUseCase struct {
	repo   repository.ItemRepository
	ledger *appledger.StockLedgerUseCase
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, ledger *appledger.StockLedgerUseCase) *ItemUseCase {
	return &ItemUseCase{repo: repo, ledger: ledger}
}

// Create crea un artículo con stock cero; si viene stock inicial, lo aplica
// como ajuste positivo para que quede en la bitácora.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock < 0 || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	item := &entity.Item{
		ID:           uuid.New().String(),
		Code:         in.Code,
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		Unit:         in.Unit,
		Price:        in.Price,
		Cost:         in.Cost,
		Stock:        0,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	if in.InitialStock > 0 {
		res, err := uc.ledger.ApplyAdjustment(ctx, appledger.AdjustmentInput{
			ItemID:    item.ID,
			Direction: appledger.DirectionIncrease,
			Qty:       in.InitialStock,
			Note:      "stock inicial",
			UserID:    userID,
		})
		if err != nil {
			return nil, err
		}
		item = res.Item
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID (nil si no existe).
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza datos del catálogo. No toca Stock.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		item.Name = in.Name
	}
	if in.CategoryID != "" {
		item.CategoryID = in.CategoryID
	}
	if in.SupplierID != "" {
		item.SupplierID = in.SupplierID
	}
	if in.Unit != "" {
		item.Unit = in.Unit
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Cost != nil {
		item.Cost = *in.Cost
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderLevel = *in.ReorderLevel
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista artículos paginados.
func (uc *ItemUseCase) List(page dto.PageRequest) ([]*dto.ItemResponse, error) {
	page.DefaultPage()
	items, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out, nil
}

// Delete elimina un artículo del catálogo.
func (uc *ItemUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           i.ID,
		Code:         i.Code,
		Name:         i.Name,
		CategoryID:   i.CategoryID,
		SupplierID:   i.SupplierID,
		Unit:         i.Unit,
		Price:        i.Price,
		Cost:         i.Cost,
		Stock:        i.Stock,
		ReorderLevel: i.ReorderLevel,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}
}
