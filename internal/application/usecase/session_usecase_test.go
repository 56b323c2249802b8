package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type sessionStore struct {
	sessions  map[string]*entity.CashierSession
	cashSales map[string]decimal.Decimal // sessionID -> total efectivo del turno
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions:  map[string]*entity.CashierSession{},
		cashSales: map[string]decimal.Decimal{},
	}
}

type fakeSessionRepo struct{ s *sessionStore }

func (r *fakeSessionRepo) Create(session *entity.CashierSession) error {
	for _, existing := range r.s.sessions {
		if existing.UserID == session.UserID && existing.Status == entity.SessionOpen {
			return domain.ErrSessionOpen // índice único parcial
		}
	}
	r.s.sessions[session.ID] = session
	return nil
}
func (r *fakeSessionRepo) GetByID(id string) (*entity.CashierSession, error) {
	session, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}
func (r *fakeSessionRepo) GetOpenByUser(userID string) (*entity.CashierSession, error) {
	for _, session := range r.s.sessions {
		if session.UserID == userID && session.Status == entity.SessionOpen {
			cp := *session
			return &cp, nil
		}
	}
	return nil, nil
}
func (r *fakeSessionRepo) Close(session *entity.CashierSession) error {
	r.s.sessions[session.ID] = session
	return nil
}
func (r *fakeSessionRepo) List(int, int) ([]*entity.CashierSession, error) { return nil, nil }

type fakeSessionSaleRepo struct{ s *sessionStore }

func (r *fakeSessionSaleRepo) Create(*entity.Sale) error             { return nil }
func (r *fakeSessionSaleRepo) CreateLine(*entity.SaleLine) error     { return nil }
func (r *fakeSessionSaleRepo) GetByID(string) (*entity.Sale, error)  { return nil, nil }
func (r *fakeSessionSaleRepo) GetLines(string) ([]*entity.SaleLine, error) {
	return nil, nil
}
func (r *fakeSessionSaleRepo) UpdateStatus(string, string) error { return nil }
func (r *fakeSessionSaleRepo) List(*time.Time, *time.Time, int, int) ([]*entity.Sale, error) {
	return nil, nil
}
func (r *fakeSessionSaleRepo) SumCashBySession(sessionID string) (decimal.Decimal, error) {
	return r.s.cashSales[sessionID], nil
}

func newSessionUC(s *sessionStore) *usecase.SessionUseCase {
	return usecase.NewSessionUseCase(&fakeSessionRepo{s}, &fakeSessionSaleRepo{s})
}

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Apertura
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionOpen_ConFondoInicial(t *testing.T) {
	uc := newSessionUC(newSessionStore())

	session, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("100.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionOpen, session.Status)
	assert.True(t, session.OpeningFloat.Equal(dec("100.00")))
	assert.Nil(t, session.ClosedAt)
}

// Un cajero con sesión abierta no puede abrir otra.
func TestSessionOpen_SegundaSesionRechazada(t *testing.T) {
	uc := newSessionUC(newSessionStore())

	_, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("50")})
	require.NoError(t, err)

	_, err = uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("50")})
	assert.ErrorIs(t, err, domain.ErrSessionOpen)
}

func TestSessionOpen_FondoNegativo(t *testing.T) {
	uc := newSessionUC(newSessionStore())
	_, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cierre con arqueo
// ──────────────────────────────────────────────────────────────────────────────

func TestSessionClose_ArqueoConFaltante(t *testing.T) {
	s := newSessionStore()
	uc := newSessionUC(s)

	session, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("100.00")})
	require.NoError(t, err)

	// Ventas en efectivo del turno: 250.00 → esperado 350.00
	s.cashSales[session.ID] = dec("250.00")

	closed, err := uc.Close("u1", session.ID, dto.CloseSessionRequest{CountedCash: dec("340.00")})
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, closed.Status)
	assert.True(t, closed.ExpectedCash.Equal(dec("350.00")), "esperado %s", closed.ExpectedCash)
	assert.True(t, closed.Difference.Equal(dec("-10.00")), "faltante %s", closed.Difference)
	require.NotNil(t, closed.ClosedAt)
}

func TestSessionClose_SoloElDuenoPuedeCerrar(t *testing.T) {
	uc := newSessionUC(newSessionStore())

	session, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("100")})
	require.NoError(t, err)

	_, err = uc.Close("otro-usuario", session.ID, dto.CloseSessionRequest{CountedCash: dec("100")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSessionClose_YaCerrada(t *testing.T) {
	uc := newSessionUC(newSessionStore())

	session, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("100")})
	require.NoError(t, err)
	_, err = uc.Close("u1", session.ID, dto.CloseSessionRequest{CountedCash: dec("100")})
	require.NoError(t, err)

	_, err = uc.Close("u1", session.ID, dto.CloseSessionRequest{CountedCash: dec("100")})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestSessionClose_Inexistente(t *testing.T) {
	uc := newSessionUC(newSessionStore())
	_, err := uc.Close("u1", "no-existe", dto.CloseSessionRequest{CountedCash: dec("0")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Tras cerrar, el cajero puede abrir un turno nuevo.
func TestSessionCurrent_CicloAbrirCerrarAbrir(t *testing.T) {
	uc := newSessionUC(newSessionStore())

	first, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("100")})
	require.NoError(t, err)

	current, err := uc.Current("u1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)

	_, err = uc.Close("u1", first.ID, dto.CloseSessionRequest{CountedCash: dec("100")})
	require.NoError(t, err)

	current, err = uc.Current("u1")
	require.NoError(t, err)
	assert.Nil(t, current, "sin sesión abierta tras el cierre")

	second, err := uc.Open("u1", dto.OpenSessionRequest{OpeningFloat: dec("80")})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}
