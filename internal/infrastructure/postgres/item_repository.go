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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, category_id, supplier_id, unit, price, cost, stock, reorder_level, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo artículo. Stock inicia en 0 (el stock inicial entra como ajuste).
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.CategoryID, item.SupplierID, item.Unit,
		item.Price, item.Cost, item.Stock, item.ReorderLevel, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := `SELECT ` + itemSelectColumns + ` FROM items WHERE id = $1`
	item, err := r.scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetByCode obtiene un artículo por su código único.
func (r *ItemRepo) GetByCode(code string) (*entity.Item, error) {
	query := `SELECT ` + itemSelectColumns + ` FROM items WHERE code = $1`
	item, err := r.scanItem(r.q.QueryRow(context.Background(), query, code))
	if err != nil {
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return item, nil
}

// Update actualiza un artículo existente. No modifica Stock (se maneja vía movimientos).
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items
		SET code = $2, name = $3, category_id = NULLIF($4, ''), supplier_id = NULLIF($5, ''),
		    unit = $6, price = $7, cost = $8, reorder_level = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.Code, item.Name, item.CategoryID, item.SupplierID,
		item.Unit, item.Price, item.Cost, item.ReorderLevel, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// List lista artículos con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := `SELECT ` + itemSelectColumns + ` FROM items ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.collectItems(rows)
}

// ListLowStock lista artículos en o por debajo de su punto de reorden.
func (r *ItemRepo) ListLowStock() ([]*entity.Item, error) {
	query := `SELECT ` + itemSelectColumns + ` FROM items WHERE stock <= reorder_level ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.collectItems(rows)
}

// Delete elimina un artículo por ID.
func (r *ItemRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// GetForUpdate obtiene el artículo y bloquea su fila (SELECT FOR UPDATE) para
// serializar las operaciones de kardex concurrentes sobre el mismo artículo.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := `SELECT ` + itemSelectColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	item, err := r.scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return item, nil
}

// UpdateStock escribe el stock resultante de una operación de kardex.
func (r *ItemRepo) UpdateStock(id string, stock int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE items SET stock = $2, updated_at = now() WHERE id = $1`,
		id, stock,
	)
	if err != nil {
		return fmt.Errorf("update item stock: %w", err)
	}
	return nil
}

// category_id y supplier_id son NULLables en DB pero strings en la entidad.
const itemSelectColumns = `id, code, name, COALESCE(category_id::text, ''), COALESCE(supplier_id::text, ''), unit, price, cost, stock, reorder_level, created_at, updated_at`

func (r *ItemRepo) scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.CategoryID, &it.SupplierID, &it.Unit,
		&it.Price, &it.Cost, &it.Stock, &it.ReorderLevel, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) collectItems(rows pgx.Rows) ([]*entity.Item, error) {
	var list []*entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Code, &it.Name, &it.CategoryID, &it.SupplierID, &it.Unit,
			&it.Price, &it.Cost, &it.Stock, &it.ReorderLevel, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
