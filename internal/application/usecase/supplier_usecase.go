package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor con código único.
func (uc *SupplierUseCase) Create(in dto.UpsertPartyRequest) (*dto.PartyResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	sup := &entity.Supplier{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(sup); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// Update actualiza un proveedor.
func (uc *SupplierUseCase) Update(id string, in dto.UpsertPartyRequest) (*dto.PartyResponse, error) {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		sup.Name = in.Name
	}
	sup.Phone = in.Phone
	sup.Address = in.Address
	sup.UpdatedAt = time.Now()
	if err := uc.repo.Update(sup); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// GetByID obtiene un proveedor (nil si no existe).
func (uc *SupplierUseCase) GetByID(id string) (*dto.PartyResponse, error) {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, nil
	}
	return toSupplierResponse(sup), nil
}

// List lista proveedores paginados.
func (uc *SupplierUseCase) List(page dto.PageRequest) ([]*dto.PartyResponse, error) {
	page.DefaultPage()
	sups, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(sups))
	for _, s := range sups {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(id string) error {
	sup, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if sup == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toSupplierResponse(s *entity.Supplier) *dto.PartyResponse {
	return &dto.PartyResponse{ID: s.ID, Code: s.Code, Name: s.Name, Phone: s.Phone, Address: s.Address}
}
