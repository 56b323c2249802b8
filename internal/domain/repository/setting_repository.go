package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// SettingRepository define el puerto de persistencia para la configuración.
type SettingRepository interface {
	Get(key string) (*entity.Setting, error)
	GetAll() ([]*entity.Setting, error)
	Upsert(setting *entity.Setting) error
}
