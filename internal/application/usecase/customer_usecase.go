package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente con código único.
func (uc *CustomerUseCase) Create(in dto.UpsertPartyRequest) (*dto.PartyResponse, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	cust := &entity.Customer{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(cust); err != nil {
		return nil, err
	}
	return toCustomerResponse(cust), nil
}

// Update actualiza un cliente.
func (uc *CustomerUseCase) Update(id string, in dto.UpsertPartyRequest) (*dto.PartyResponse, error) {
	cust, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		cust.Name = in.Name
	}
	cust.Phone = in.Phone
	cust.Address = in.Address
	cust.UpdatedAt = time.Now()
	if err := uc.repo.Update(cust); err != nil {
		return nil, err
	}
	return toCustomerResponse(cust), nil
}

// GetByID obtiene un cliente (nil si no existe).
func (uc *CustomerUseCase) GetByID(id string) (*dto.PartyResponse, error) {
	cust, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cust == nil {
		return nil, nil
	}
	return toCustomerResponse(cust), nil
}

// List lista clientes paginados.
func (uc *CustomerUseCase) List(page dto.PageRequest) ([]*dto.PartyResponse, error) {
	page.DefaultPage()
	custs, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PartyResponse, 0, len(custs))
	for _, c := range custs {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Delete elimina un cliente.
func (uc *CustomerUseCase) Delete(id string) error {
	cust, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if cust == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toCustomerResponse(c *entity.Customer) *dto.PartyResponse {
	return &dto.PartyResponse{ID: c.ID, Code: c.Code, Name: c.Name, Phone: c.Phone, Address: c.Address}
}
