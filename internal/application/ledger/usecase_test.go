package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeStore simula la BD; fakeTxRunner serializa cada transacción con un mutex,
// igual que lo hace el bloqueo de fila (SELECT FOR UPDATE) en PostgreSQL, y
// descarta las escrituras si el callback falla (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu         sync.Mutex
	items      map[string]*entity.Item
	movements  []*entity.StockMovement
	orderLines map[string][]*entity.PurchaseOrderLine // orderID -> líneas
	orderState map[string]string                      // orderID -> status
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:      map[string]*entity.Item{},
		orderLines: map[string][]*entity.PurchaseOrderLine{},
		orderState: map[string]string{},
	}
}

func (s *fakeStore) addItem(id string, stock int64) {
	s.items[id] = &entity.Item{ID: id, Code: id, Name: "item " + id, Stock: stock}
}

// snapshot copia el estado mutable para poder restaurarlo en rollback.
func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.items {
		item := *v
		cp.items[k] = &item
	}
	cp.movements = append(cp.movements, s.movements...)
	for k, lines := range s.orderLines {
		for _, l := range lines {
			line := *l
			cp.orderLines[k] = append(cp.orderLines[k], &line)
		}
	}
	for k, v := range s.orderState {
		cp.orderState[k] = v
	}
	return cp
}

func (s *fakeStore) restore(snap *fakeStore) {
	s.items = snap.items
	s.movements = snap.movements
	s.orderLines = snap.orderLines
	s.orderState = snap.orderState
}

type fakeItemRepo struct{ s *fakeStore }

func (r *fakeItemRepo) Create(item *entity.Item) error { r.s.items[item.ID] = item; return nil }
func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}
func (r *fakeItemRepo) GetByCode(string) (*entity.Item, error)   { return nil, nil }
func (r *fakeItemRepo) Update(*entity.Item) error                { return nil }
func (r *fakeItemRepo) List(int, int) ([]*entity.Item, error)    { return nil, nil }
func (r *fakeItemRepo) ListLowStock() ([]*entity.Item, error)    { return nil, nil }
func (r *fakeItemRepo) Delete(string) error                      { return nil }
func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id) // el mutex del fakeTxRunner hace de bloqueo de fila
}
func (r *fakeItemRepo) UpdateStock(id string, stock int64) error {
	item, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Stock = stock
	return nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *fakeMovementRepo) ListByItem(itemID string, _, _ *time.Time, _, _ int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ItemID == itemID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) ListRecent(int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) Create(*entity.PurchaseOrder, []*entity.PurchaseOrderLine) error { return nil }
func (r *fakeOrderRepo) GetByID(string) (*entity.PurchaseOrder, error)                   { return nil, nil }
// GetLines y GetLinesForUpdate devuelven copias, igual que el repo real entrega
// filas desconectadas: mutar lo devuelto no toca el almacén.
func (r *fakeOrderRepo) GetLines(orderID string) ([]*entity.PurchaseOrderLine, error) {
	return copyLines(r.s.orderLines[orderID]), nil
}
func (r *fakeOrderRepo) GetLinesForUpdate(orderID string) ([]*entity.PurchaseOrderLine, error) {
	return copyLines(r.s.orderLines[orderID]), nil
}
func (r *fakeOrderRepo) AddReceived(orderID, itemID string, qty int64) error {
	for _, l := range r.s.orderLines[orderID] {
		if l.ItemID == itemID {
			l.QtyReceived += qty
			return nil
		}
	}
	return domain.ErrNotFound
}
func (r *fakeOrderRepo) UpdateStatus(orderID, status string) error {
	r.s.orderState[orderID] = status
	return nil
}
func (r *fakeOrderRepo) List(string, int, int) ([]*entity.PurchaseOrder, error) { return nil, nil }

type fakeReceiptRepo struct{}

func (fakeReceiptRepo) Create(*entity.GoodsReceipt) error                      { return nil }
func (fakeReceiptRepo) CreateLine(*entity.GoodsReceiptLine) error              { return nil }
func (fakeReceiptRepo) GetByID(string) (*entity.GoodsReceipt, error)           { return nil, nil }
func (fakeReceiptRepo) GetLines(string) ([]*entity.GoodsReceiptLine, error)    { return nil, nil }
func (fakeReceiptRepo) ListByOrder(string) ([]*entity.GoodsReceipt, error)     { return nil, nil }

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) run(fn func() error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := t.s.snapshot()
	if err := fn(); err != nil {
		t.s.restore(snap) // rollback
		return err
	}
	return nil
}

func (t *fakeTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error { return fn(&fakeItemRepo{t.s}, &fakeMovementRepo{t.s}) })
}

func (t *fakeTxRunner) RunReceipt(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository, repository.PurchaseOrderRepository, repository.GoodsReceiptRepository) error) error {
	return t.run(func() error {
		return fn(&fakeItemRepo{t.s}, &fakeMovementRepo{t.s}, &fakeOrderRepo{t.s}, fakeReceiptRepo{})
	})
}

func (t *fakeTxRunner) RunSale(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository, repository.SaleRepository) error) error {
	return t.run(func() error { return fn(&fakeItemRepo{t.s}, &fakeMovementRepo{t.s}, nil) })
}

func copyLines(lines []*entity.PurchaseOrderLine) []*entity.PurchaseOrderLine {
	out := make([]*entity.PurchaseOrderLine, 0, len(lines))
	for _, l := range lines {
		cp := *l
		out = append(out, &cp)
	}
	return out
}

func newUseCase(s *fakeStore) *appledger.StockLedgerUseCase {
	return appledger.NewStockLedgerUseCase(&fakeTxRunner{s})
}

func ptr(v int64) *int64 { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyAdjustment_Incremento(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 10)
	uc := newUseCase(s)

	res, err := uc.ApplyAdjustment(context.Background(), appledger.AdjustmentInput{
		ItemID: "A", Direction: appledger.DirectionIncrease, Qty: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Item.Stock)
	assert.Equal(t, entity.MovementAdjustIn, res.Movement.Kind)
	assert.Equal(t, int64(10), res.Movement.Before)
	assert.Equal(t, int64(15), res.Movement.After)
	assert.Equal(t, int64(5), res.Movement.Delta)
}

// Una disminución mayor al saldo disponible se recorta: el saldo queda en cero
// y el movimiento registra el delta recortado, no el solicitado.
func TestApplyAdjustment_DisminucionRecortada(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 30)
	uc := newUseCase(s)

	res, err := uc.ApplyAdjustment(context.Background(), appledger.AdjustmentInput{
		ItemID: "A", Direction: appledger.DirectionDecrease, Qty: 40,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Item.Stock)
	assert.Equal(t, int64(-30), res.Movement.Delta)
	assert.Equal(t, int64(30), res.Movement.Before)
	assert.Equal(t, int64(0), res.Movement.After)
}

func TestApplyAdjustment_ConteoFisico(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 100)
	uc := newUseCase(s)

	res, err := uc.ApplyAdjustment(context.Background(), appledger.AdjustmentInput{
		ItemID: "A", PhysicalCount: ptr(92),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(92), res.Item.Stock)
	assert.Equal(t, entity.MovementAdjustOut, res.Movement.Kind)
	assert.Equal(t, int64(-8), res.Movement.Delta)
}

// Conteo igual al saldo: ajuste positivo de magnitud cero, queda constancia.
func TestApplyAdjustment_ConteoSinDiferencia(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 100)
	uc := newUseCase(s)

	res, err := uc.ApplyAdjustment(context.Background(), appledger.AdjustmentInput{
		ItemID: "A", PhysicalCount: ptr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementAdjustIn, res.Movement.Kind)
	assert.Equal(t, int64(0), res.Movement.Delta)
	assert.Len(t, s.movements, 1)
}

func TestApplyAdjustment_Invalido(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 10)
	uc := newUseCase(s)

	cases := []appledger.AdjustmentInput{
		{ItemID: "A", Direction: appledger.DirectionIncrease, Qty: 0},
		{ItemID: "A", Direction: appledger.DirectionDecrease, Qty: -3},
		{ItemID: "A", Direction: "sideways", Qty: 1},
		{ItemID: "A", PhysicalCount: ptr(-1)},
		{ItemID: "", Direction: appledger.DirectionIncrease, Qty: 1},
	}
	for _, in := range cases {
		_, err := uc.ApplyAdjustment(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, s.movements, "una entrada inválida no debe dejar movimientos")
}

func TestApplyAdjustment_ArticuloInexistente(t *testing.T) {
	uc := newUseCase(newFakeStore())
	_, err := uc.ApplyAdjustment(context.Background(), appledger.AdjustmentInput{
		ItemID: "nope", Direction: appledger.DirectionIncrease, Qty: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Propiedad: plegar Before→After sobre la bitácora reproduce el saldo final.
func TestApplyAdjustment_PlegadoReconstruyeSaldo(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 50)
	uc := newUseCase(s)
	ctx := context.Background()

	ops := []appledger.AdjustmentInput{
		{ItemID: "A", Direction: appledger.DirectionIncrease, Qty: 12},
		{ItemID: "A", Direction: appledger.DirectionDecrease, Qty: 7},
		{ItemID: "A", PhysicalCount: ptr(40)},
		{ItemID: "A", Direction: appledger.DirectionDecrease, Qty: 100}, // recorte
		{ItemID: "A", Direction: appledger.DirectionIncrease, Qty: 3},
	}
	for _, op := range ops {
		_, err := uc.ApplyAdjustment(ctx, op)
		require.NoError(t, err)
	}

	folded := int64(50)
	for _, m := range s.movements {
		require.Equal(t, folded, m.Before, "sin huecos entre movimientos")
		require.Equal(t, m.Before+m.Delta, m.After, "after = before + delta")
		folded = m.After
	}
	assert.Equal(t, s.items["A"].Stock, folded)
	assert.Equal(t, int64(3), folded)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReceiptLines_IncrementaYRegistra(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 5)
	s.addItem("B", 0)
	uc := newUseCase(s)

	movs, err := uc.ApplyReceiptLines(context.Background(), "GR-1", "", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 10},
		{ItemID: "B", Qty: 4},
	})
	require.NoError(t, err)
	require.Len(t, movs, 2)
	assert.Equal(t, int64(15), s.items["A"].Stock)
	assert.Equal(t, int64(4), s.items["B"].Stock)
	assert.Equal(t, entity.MovementReceipt, movs[0].Kind)
	assert.Equal(t, "GR-1", movs[0].Reference)
}

// Todo o nada: un artículo inexistente en el lote revierte la recepción
// completa, sin saldos cambiados ni movimientos creados.
func TestApplyReceiptLines_TodoONada(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 5)
	uc := newUseCase(s)

	_, err := uc.ApplyReceiptLines(context.Background(), "GR-1", "", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 10},
		{ItemID: "missing", Qty: 4},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), s.items["A"].Stock, "el saldo de A no debe cambiar")
	assert.Empty(t, s.movements, "no debe quedar ningún movimiento")
}

func TestApplyReceiptLines_CantidadInvalida(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 5)
	uc := newUseCase(s)

	_, err := uc.ApplyReceiptLines(context.Background(), "GR-1", "", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 0},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.movements)
}

// Orden con líneas pedidas (10, 5): recibir (10, 5) → received;
// recibir (10, 3) → partial.
func TestApplyReceiptLines_EstadoDeOrden(t *testing.T) {
	setup := func() (*fakeStore, *appledger.StockLedgerUseCase) {
		s := newFakeStore()
		s.addItem("A", 0)
		s.addItem("B", 0)
		s.orderLines["PO-1"] = []*entity.PurchaseOrderLine{
			{OrderID: "PO-1", ItemID: "A", QtyOrdered: 10},
			{OrderID: "PO-1", ItemID: "B", QtyOrdered: 5},
		}
		s.orderState["PO-1"] = entity.OrderStatusOpen
		return s, newUseCase(s)
	}

	s, uc := setup()
	_, err := uc.ApplyReceiptLines(context.Background(), "GR-1", "PO-1", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 10}, {ItemID: "B", Qty: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, s.orderState["PO-1"])

	s, uc = setup()
	_, err = uc.ApplyReceiptLines(context.Background(), "GR-2", "PO-1", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 10}, {ItemID: "B", Qty: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPartial, s.orderState["PO-1"])
	// Cada cantidad recibida se acumula exactamente una vez en la línea.
	assert.Equal(t, int64(10), s.orderLines["PO-1"][0].QtyReceived)
	assert.Equal(t, int64(3), s.orderLines["PO-1"][1].QtyReceived)
}

func TestApplyReceiptLines_OrdenInexistente(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 0)
	uc := newUseCase(s)

	_, err := uc.ApplyReceiptLines(context.Background(), "GR-1", "PO-nope", "u1", []appledger.ReceiptLine{
		{ItemID: "A", Qty: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(0), s.items["A"].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

// Escenario del kardex: saldo 50, ajuste -20 → 30; venta de 40 → recorte a 0
// con movimiento {before:30, after:0, delta:-30}.
func TestApplySaleLines_EscenarioConRecorte(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 50)
	uc := newUseCase(s)
	ctx := context.Background()

	res, err := uc.ApplyAdjustment(ctx, appledger.AdjustmentInput{
		ItemID: "A", Direction: appledger.DirectionDecrease, Qty: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Item.Stock)
	assert.Equal(t, int64(-20), res.Movement.Delta)

	movs, err := uc.ApplySaleLines(ctx, "TRX-1", "u1", []appledger.SaleLineInput{
		{ItemID: "A", Qty: 40},
	})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, int64(30), movs[0].Before)
	assert.Equal(t, int64(0), movs[0].After)
	assert.Equal(t, int64(-30), movs[0].Delta)
	assert.Equal(t, int64(0), s.items["A"].Stock)
}

func TestApplySaleLines_ArticuloInexistenteAbortaVenta(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 10)
	uc := newUseCase(s)

	_, err := uc.ApplySaleLines(context.Background(), "TRX-1", "u1", []appledger.SaleLineInput{
		{ItemID: "A", Qty: 2},
		{ItemID: "missing", Qty: 1},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), s.items["A"].Stock)
	assert.Empty(t, s.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: sin lost updates
// ──────────────────────────────────────────────────────────────────────────────

// Dos ajustes concurrentes (+5 y +3) desde saldo 100 deben serializarse:
// el saldo final es 108, nunca 103 ni 105.
func TestApplyAdjustment_ConcurrenciaSinLostUpdate(t *testing.T) {
	s := newFakeStore()
	s.addItem("A", 100)
	uc := newUseCase(s)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, qty := range []int64{5, 3} {
		wg.Add(1)
		go func(q int64) {
			defer wg.Done()
			_, err := uc.ApplyAdjustment(ctx, appledger.AdjustmentInput{
				ItemID: "A", Direction: appledger.DirectionIncrease, Qty: q,
			})
			assert.NoError(t, err)
		}(qty)
	}
	wg.Wait()

	assert.Equal(t, int64(108), s.items["A"].Stock)
	// La bitácora tampoco tiene huecos: before del segundo == after del primero.
	require.Len(t, s.movements, 2)
	assert.Equal(t, s.movements[0].After, s.movements[1].Before)
}
