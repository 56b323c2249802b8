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

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación de GoodsReceiptRepository sobre PostgreSQL.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// Create persiste el encabezado de la recepción.
func (r *GoodsReceiptRepo) Create(receipt *entity.GoodsReceipt) error {
	query := `
		INSERT INTO goods_receipts (id, number, order_id, received_at, received_by, note, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		receipt.ID, receipt.Number, receipt.OrderID, receipt.ReceivedAt,
		receipt.ReceivedBy, receipt.Note, receipt.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}
	return nil
}

// CreateLine persiste una línea recibida.
func (r *GoodsReceiptRepo) CreateLine(line *entity.GoodsReceiptLine) error {
	query := `
		INSERT INTO goods_receipt_lines (id, receipt_id, item_id, qty)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query, line.ID, line.ReceiptID, line.ItemID, line.Qty)
	if err != nil {
		return fmt.Errorf("insert goods receipt line: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID.
func (r *GoodsReceiptRepo) GetByID(id string) (*entity.GoodsReceipt, error) {
	query := `
		SELECT id, number, COALESCE(order_id::text, ''), received_at, COALESCE(received_by::text, ''), note, created_at
		FROM goods_receipts WHERE id = $1`
	var g entity.GoodsReceipt
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&g.ID, &g.Number, &g.OrderID, &g.ReceivedAt, &g.ReceivedBy, &g.Note, &g.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	return &g, nil
}

// GetLines obtiene las líneas de una recepción.
func (r *GoodsReceiptRepo) GetLines(receiptID string) ([]*entity.GoodsReceiptLine, error) {
	query := `SELECT id, receipt_id, item_id, qty FROM goods_receipt_lines WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, receiptID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipt lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceiptLine
	for rows.Next() {
		var l entity.GoodsReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ItemID, &l.Qty); err != nil {
			return nil, fmt.Errorf("scan goods receipt line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// ListByOrder lista las recepciones asociadas a una orden de compra.
func (r *GoodsReceiptRepo) ListByOrder(orderID string) ([]*entity.GoodsReceipt, error) {
	query := `
		SELECT id, number, COALESCE(order_id::text, ''), received_at, COALESCE(received_by::text, ''), note, created_at
		FROM goods_receipts WHERE order_id = $1 ORDER BY received_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list goods receipts by order: %w", err)
	}
	defer rows.Close()
	var list []*entity.GoodsReceipt
	for rows.Next() {
		var g entity.GoodsReceipt
		if err := rows.Scan(&g.ID, &g.Number, &g.OrderID, &g.ReceivedAt, &g.ReceivedBy, &g.Note, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}
