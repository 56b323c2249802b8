package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// SessionUseCase turnos de caja: apertura con fondo inicial y cierre con
// arqueo (efectivo contado vs. esperado = fondo + ventas en efectivo).
type SessionUseCase struct {
	sessionRepo repository.CashierSessionRepository
	saleRepo    repository.SaleRepository
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(sessionRepo repository.CashierSessionRepository, saleRepo repository.SaleRepository) *SessionUseCase {
	return &SessionUseCase{sessionRepo: sessionRepo, saleRepo: saleRepo}
}

// Open abre una sesión de caja. Un cajero solo puede tener una sesión abierta.
func (uc *SessionUseCase) Open(userID string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if in.OpeningFloat.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	open, err := uc.sessionRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrSessionOpen
	}
	session := &entity.CashierSession{
		ID:           uuid.New().String(),
		UserID:       userID,
		Status:       entity.SessionOpen,
		OpeningFloat: in.OpeningFloat,
		ExpectedCash: decimal.Zero,
		CountedCash:  decimal.Zero,
		OpenedAt:     time.Now(),
	}
	if err := uc.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// Close cierra la sesión: calcula el efectivo esperado (fondo + ventas en
// efectivo del turno) y guarda la diferencia contra lo contado.
func (uc *SessionUseCase) Close(userID, sessionID string, in dto.CloseSessionRequest) (*dto.SessionResponse, error) {
	if in.CountedCash.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrNotFound
	}
	if session.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if session.Status == entity.SessionClosed {
		return nil, domain.ErrSessionClosed
	}

	cashSales, err := uc.saleRepo.SumCashBySession(session.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session.Status = entity.SessionClosed
	session.ExpectedCash = session.OpeningFloat.Add(cashSales)
	session.CountedCash = in.CountedCash
	session.ClosedAt = &now
	if err := uc.sessionRepo.Close(session); err != nil {
		return nil, err
	}
	return toSessionResponse(session), nil
}

// Current devuelve la sesión abierta del cajero (nil si no hay).
func (uc *SessionUseCase) Current(userID string) (*dto.SessionResponse, error) {
	session, err := uc.sessionRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return toSessionResponse(session), nil
}

// List lista sesiones paginadas (histórico de arqueos).
func (uc *SessionUseCase) List(page dto.PageRequest) ([]*dto.SessionResponse, error) {
	page.DefaultPage()
	sessions, err := uc.sessionRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	return out, nil
}

func toSessionResponse(s *entity.CashierSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:           s.ID,
		UserID:       s.UserID,
		Status:       s.Status,
		OpeningFloat: s.OpeningFloat,
		ExpectedCash: s.ExpectedCash,
		CountedCash:  s.CountedCash,
		Difference:   s.CountedCash.Sub(s.ExpectedCash),
		OpenedAt:     s.OpenedAt,
		ClosedAt:     s.ClosedAt,
	}
}
