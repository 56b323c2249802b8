package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// SettingsUseCase configuración de la tienda (clave/valor).
type SettingsUseCase struct {
	repo repository.SettingRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(repo repository.SettingRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// GetAll devuelve toda la configuración.
func (uc *SettingsUseCase) GetAll() ([]*dto.SettingResponse, error) {
	settings, err := uc.repo.GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, &dto.SettingResponse{Key: s.Key, Value: s.Value})
	}
	return out, nil
}

// Upsert crea o actualiza una clave. tax_rate debe ser un porcentaje válido.
func (uc *SettingsUseCase) Upsert(in dto.SettingRequest) (*dto.SettingResponse, error) {
	if in.Key == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Key == entity.SettingTaxRate {
		rate, err := decimal.NewFromString(in.Value)
		if err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, domain.ErrInvalidInput
		}
	}
	setting := &entity.Setting{Key: in.Key, Value: in.Value, UpdatedAt: time.Now()}
	if err := uc.repo.Upsert(setting); err != nil {
		return nil, err
	}
	return &dto.SettingResponse{Key: setting.Key, Value: setting.Value}, nil
}

// TaxRate devuelve el porcentaje de impuesto configurado (0 si no hay).
func (uc *SettingsUseCase) TaxRate() (decimal.Decimal, error) {
	setting, err := uc.repo.Get(entity.SettingTaxRate)
	if err != nil {
		return decimal.Zero, err
	}
	if setting == nil || setting.Value == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, nil // valor corrupto: tratar como sin impuesto
	}
	return rate, nil
}
