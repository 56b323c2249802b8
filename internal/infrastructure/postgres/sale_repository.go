package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste el encabezado de la venta.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, number, customer_id, session_id, status, payment_method, subtotal, tax, total, paid, change, created_by, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.Number, sale.CustomerID, sale.SessionID, sale.Status, sale.PaymentMethod,
		sale.Subtotal, sale.Tax, sale.Total, sale.Paid, sale.Change, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(line *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, item_id, qty, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.SaleID, line.ItemID, line.Qty, line.UnitPrice, line.LineTotal,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

const saleColumns = `id, number, COALESCE(customer_id::text, ''), COALESCE(session_id::text, ''), status, payment_method, subtotal, tax, total, paid, change, COALESCE(created_by::text, ''), created_at`

// GetByID obtiene una venta por ID (sin líneas).
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Number, &s.CustomerID, &s.SessionID, &s.Status, &s.PaymentMethod,
		&s.Subtotal, &s.Tax, &s.Total, &s.Paid, &s.Change, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLines obtiene las líneas de una venta.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `SELECT id, sale_id, item_id, qty, unit_price, line_total FROM sale_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ItemID, &l.Qty, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus actualiza el estado de la venta (confirmación de pasarela).
func (r *SaleRepo) UpdateStatus(saleID, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales SET status = $2 WHERE id = $1`,
		saleID, status,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	return nil
}

// List lista ventas con filtro opcional de fechas (más reciente primero).
func (r *SaleRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at <= $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Number, &s.CustomerID, &s.SessionID, &s.Status, &s.PaymentMethod,
			&s.Subtotal, &s.Tax, &s.Total, &s.Paid, &s.Change, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// SumCashBySession suma el total de ventas pagadas en efectivo de una sesión (para el arqueo).
func (r *SaleRepo) SumCashBySession(sessionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(total), 0)
		FROM sales
		WHERE session_id = $1 AND payment_method = $2 AND status = $3`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, sessionID, entity.PaymentCash, entity.SaleStatusPaid).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash by session: %w", err)
	}
	return sum, nil
}
