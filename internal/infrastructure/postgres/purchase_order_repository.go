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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden con sus líneas.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder, lines []*entity.PurchaseOrderLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (id, number, supplier_id, status, order_date, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Number, order.SupplierID, order.Status, order.OrderDate,
		order.Note, order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	lineQuery := `
		INSERT INTO purchase_order_lines (id, order_id, item_id, qty_ordered, qty_received, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.OrderID, l.ItemID, l.QtyOrdered, l.QtyReceived, l.UnitCost,
		); err != nil {
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden por ID (sin líneas).
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, number, supplier_id, status, order_date, note, COALESCE(created_by::text, ''), created_at, updated_at
		FROM purchase_orders WHERE id = $1`
	var o entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.Number, &o.SupplierID, &o.Status, &o.OrderDate, &o.Note,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return &o, nil
}

// GetLines obtiene las líneas de una orden.
func (r *PurchaseOrderRepo) GetLines(orderID string) ([]*entity.PurchaseOrderLine, error) {
	return r.queryLines(orderID, false)
}

// GetLinesForUpdate obtiene las líneas bloqueando sus filas (SELECT FOR UPDATE)
// para serializar recepciones concurrentes sobre la misma orden.
func (r *PurchaseOrderRepo) GetLinesForUpdate(orderID string) ([]*entity.PurchaseOrderLine, error) {
	return r.queryLines(orderID, true)
}

func (r *PurchaseOrderRepo) queryLines(orderID string, forUpdate bool) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, order_id, item_id, qty_ordered, qty_received, unit_cost
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY id`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.QtyOrdered, &l.QtyReceived, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// AddReceived acumula cantidad recibida en la línea del artículo indicado.
func (r *PurchaseOrderRepo) AddReceived(orderID, itemID string, qty int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_order_lines SET qty_received = qty_received + $3 WHERE order_id = $1 AND item_id = $2`,
		orderID, itemID, qty,
	)
	if err != nil {
		return fmt.Errorf("add received qty: %w", err)
	}
	return nil
}

// UpdateStatus actualiza el estado de cumplimiento de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(orderID, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE purchase_orders SET status = $2, updated_at = now() WHERE id = $1`,
		orderID, status,
	)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// List lista órdenes con filtro opcional por estado.
func (r *PurchaseOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, number, supplier_id, status, order_date, note, COALESCE(created_by::text, ''), created_at, updated_at
		FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var o entity.PurchaseOrder
		if err := rows.Scan(&o.ID, &o.Number, &o.SupplierID, &o.Status, &o.OrderDate, &o.Note,
			&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
