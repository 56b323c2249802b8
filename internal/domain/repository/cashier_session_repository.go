package repository

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// CashierSessionRepository define el puerto de persistencia para sesiones de caja.
type CashierSessionRepository interface {
	Create(session *entity.CashierSession) error
	GetByID(id string) (*entity.CashierSession, error)
	// GetOpenByUser devuelve la sesión abierta del cajero, o nil si no tiene.
	GetOpenByUser(userID string) (*entity.CashierSession, error)
	// Close persiste el cierre: estado, efectivo esperado/contado y ClosedAt.
	Close(session *entity.CashierSession) error
	List(limit, offset int) ([]*entity.CashierSession, error)
}
