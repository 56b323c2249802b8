package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.CashierSessionRepository = (*CashierSessionRepo)(nil)

// CashierSessionRepo implementación de CashierSessionRepository sobre PostgreSQL.
type CashierSessionRepo struct {
	q Querier
}

// NewCashierSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCashierSessionRepository(q Querier) *CashierSessionRepo {
	return &CashierSessionRepo{q: q}
}

const sessionColumns = `id, user_id, status, opening_float, expected_cash, counted_cash, opened_at, closed_at`

// Create persiste una nueva sesión de caja. El índice único parcial sobre
// (user_id) WHERE status = 'open' garantiza una sola sesión abierta por cajero.
func (r *CashierSessionRepo) Create(session *entity.CashierSession) error {
	query := `
		INSERT INTO cashier_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.UserID, session.Status, session.OpeningFloat,
		session.ExpectedCash, session.CountedCash, session.OpenedAt, session.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSessionOpen
		}
		return fmt.Errorf("insert cashier session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión por ID.
func (r *CashierSessionRepo) GetByID(id string) (*entity.CashierSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cashier_sessions WHERE id = $1`
	return r.scanSession(r.q.QueryRow(context.Background(), query, id))
}

// GetOpenByUser devuelve la sesión abierta del cajero, o nil si no tiene.
func (r *CashierSessionRepo) GetOpenByUser(userID string) (*entity.CashierSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cashier_sessions WHERE user_id = $1 AND status = $2`
	return r.scanSession(r.q.QueryRow(context.Background(), query, userID, entity.SessionOpen))
}

func (r *CashierSessionRepo) scanSession(row pgx.Row) (*entity.CashierSession, error) {
	var s entity.CashierSession
	err := row.Scan(
		&s.ID, &s.UserID, &s.Status, &s.OpeningFloat, &s.ExpectedCash,
		&s.CountedCash, &s.OpenedAt, &s.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cashier session: %w", err)
	}
	return &s, nil
}

// Close persiste el cierre: estado, efectivo esperado/contado y ClosedAt.
func (r *CashierSessionRepo) Close(session *entity.CashierSession) error {
	query := `
		UPDATE cashier_sessions
		SET status = $2, expected_cash = $3, counted_cash = $4, closed_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.Status, session.ExpectedCash, session.CountedCash, session.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("close cashier session: %w", err)
	}
	return nil
}

// List lista sesiones paginadas (más reciente primero).
func (r *CashierSessionRepo) List(limit, offset int) ([]*entity.CashierSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM cashier_sessions ORDER BY opened_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cashier sessions: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashierSession
	for rows.Next() {
		var s entity.CashierSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Status, &s.OpeningFloat, &s.ExpectedCash,
			&s.CountedCash, &s.OpenedAt, &s.ClosedAt); err != nil {
			return nil, fmt.Errorf("scan cashier session: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
