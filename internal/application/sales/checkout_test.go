package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/application/sales"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// posStore simula la BD de punto de venta; el fakeTxRunner descarta ventas,
// líneas, saldos y movimientos si el callback falla (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type posStore struct {
	items      map[string]*entity.Item
	sales      map[string]*entity.Sale
	saleLines  map[string][]*entity.SaleLine
	movements  []*entity.StockMovement
	sessions   map[string]*entity.CashierSession // userID -> sesión abierta
	settings   map[string]string
	sessionErr error // si no es nil, la consulta de sesión falla
}

func newPosStore() *posStore {
	return &posStore{
		items:     map[string]*entity.Item{},
		sales:     map[string]*entity.Sale{},
		saleLines: map[string][]*entity.SaleLine{},
		sessions:  map[string]*entity.CashierSession{},
		settings:  map[string]string{},
	}
}

func (s *posStore) addItem(id string, stock int64, price string) {
	p, _ := decimal.NewFromString(price)
	s.items[id] = &entity.Item{ID: id, Code: id, Name: "item " + id, Stock: stock, Price: p}
}

func (s *posStore) snapshot() *posStore {
	cp := newPosStore()
	for k, v := range s.items {
		item := *v
		cp.items[k] = &item
	}
	for k, v := range s.sales {
		sale := *v
		cp.sales[k] = &sale
	}
	for k, lines := range s.saleLines {
		for _, l := range lines {
			line := *l
			cp.saleLines[k] = append(cp.saleLines[k], &line)
		}
	}
	cp.movements = append(cp.movements, s.movements...)
	cp.sessions = s.sessions
	cp.settings = s.settings
	return cp
}

func (s *posStore) restore(snap *posStore) {
	s.items = snap.items
	s.sales = snap.sales
	s.saleLines = snap.saleLines
	s.movements = snap.movements
}

type posItemRepo struct{ s *posStore }

func (r *posItemRepo) Create(item *entity.Item) error { r.s.items[item.ID] = item; return nil }
func (r *posItemRepo) GetByID(id string) (*entity.Item, error) {
	item, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}
func (r *posItemRepo) GetByCode(string) (*entity.Item, error)       { return nil, nil }
func (r *posItemRepo) Update(*entity.Item) error                    { return nil }
func (r *posItemRepo) List(int, int) ([]*entity.Item, error)        { return nil, nil }
func (r *posItemRepo) ListLowStock() ([]*entity.Item, error)        { return nil, nil }
func (r *posItemRepo) Delete(string) error                          { return nil }
func (r *posItemRepo) GetForUpdate(id string) (*entity.Item, error) { return r.GetByID(id) }
func (r *posItemRepo) UpdateStock(id string, stock int64) error {
	item, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Stock = stock
	return nil
}

type posMovementRepo struct{ s *posStore }

func (r *posMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *posMovementRepo) ListByItem(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}
func (r *posMovementRepo) ListRecent(int, int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

type posSaleRepo struct{ s *posStore }

func (r *posSaleRepo) Create(sale *entity.Sale) error {
	r.s.sales[sale.ID] = sale
	return nil
}
func (r *posSaleRepo) CreateLine(line *entity.SaleLine) error {
	r.s.saleLines[line.SaleID] = append(r.s.saleLines[line.SaleID], line)
	return nil
}
func (r *posSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}
func (r *posSaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	return r.s.saleLines[saleID], nil
}
func (r *posSaleRepo) UpdateStatus(saleID, status string) error {
	sale, ok := r.s.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	sale.Status = status
	return nil
}
func (r *posSaleRepo) List(*time.Time, *time.Time, int, int) ([]*entity.Sale, error) {
	return nil, nil
}
func (r *posSaleRepo) SumCashBySession(string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type posSessionRepo struct{ s *posStore }

func (r *posSessionRepo) Create(*entity.CashierSession) error              { return nil }
func (r *posSessionRepo) GetByID(string) (*entity.CashierSession, error)   { return nil, nil }
func (r *posSessionRepo) Close(*entity.CashierSession) error               { return nil }
func (r *posSessionRepo) List(int, int) ([]*entity.CashierSession, error)  { return nil, nil }
func (r *posSessionRepo) GetOpenByUser(userID string) (*entity.CashierSession, error) {
	if r.s.sessionErr != nil {
		return nil, r.s.sessionErr
	}
	return r.s.sessions[userID], nil
}

type posSettingRepo struct{ s *posStore }

func (r *posSettingRepo) Get(key string) (*entity.Setting, error) {
	v, ok := r.s.settings[key]
	if !ok {
		return nil, nil
	}
	return &entity.Setting{Key: key, Value: v}, nil
}
func (r *posSettingRepo) GetAll() ([]*entity.Setting, error) { return nil, nil }
func (r *posSettingRepo) Upsert(setting *entity.Setting) error {
	r.s.settings[setting.Key] = setting.Value
	return nil
}

type posCustomerRepo struct{ s *posStore }

func (r *posCustomerRepo) Create(*entity.Customer) error                  { return nil }
func (r *posCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if id == "C1" {
		return &entity.Customer{ID: "C1", Name: "Cliente Uno"}, nil
	}
	return nil, nil
}
func (r *posCustomerRepo) GetByCode(string) (*entity.Customer, error)     { return nil, nil }
func (r *posCustomerRepo) Update(*entity.Customer) error                  { return nil }
func (r *posCustomerRepo) List(int, int) ([]*entity.Customer, error)      { return nil, nil }
func (r *posCustomerRepo) Delete(string) error                            { return nil }

type posTxRunner struct{ s *posStore }

func (t *posTxRunner) run(fn func() error) error {
	snap := t.s.snapshot()
	if err := fn(); err != nil {
		t.s.restore(snap) // rollback
		return err
	}
	return nil
}

func (t *posTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository) error) error {
	return t.run(func() error { return fn(&posItemRepo{t.s}, &posMovementRepo{t.s}) })
}

func (t *posTxRunner) RunReceipt(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository, repository.PurchaseOrderRepository, repository.GoodsReceiptRepository) error) error {
	return t.run(func() error { return fn(&posItemRepo{t.s}, &posMovementRepo{t.s}, nil, nil) })
}

func (t *posTxRunner) RunSale(_ context.Context, fn func(repository.ItemRepository, repository.StockMovementRepository, repository.SaleRepository) error) error {
	return t.run(func() error {
		return fn(&posItemRepo{t.s}, &posMovementRepo{t.s}, &posSaleRepo{t.s})
	})
}

// fakeGateway pasarela de pagos controlable desde el test.
type fakeGateway struct {
	failCreate bool
	status     string
	created    int
}

func (g *fakeGateway) CreateTransaction(_ context.Context, orderNumber string, _ decimal.Decimal) (*sales.GatewayTransaction, error) {
	g.created++
	if g.failCreate {
		return nil, errors.New("pasarela caída")
	}
	return &sales.GatewayTransaction{Token: "tok-" + orderNumber, RedirectURL: "https://pay/" + orderNumber}, nil
}

func (g *fakeGateway) CheckStatus(context.Context, string) (string, error) {
	return g.status, nil
}

func newCheckoutUC(s *posStore, gateway sales.PaymentGateway) *sales.CheckoutUseCase {
	txRunner := &posTxRunner{s}
	settingRepo := &posSettingRepo{s}
	return sales.NewCheckoutUseCase(
		txRunner,
		appledger.NewStockLedgerUseCase(txRunner),
		&posItemRepo{s},
		&posCustomerRepo{s},
		&posSessionRepo{s},
		&posSaleRepo{s},
		settingRepo,
		usecase.NewSettingsUseCase(settingRepo),
		gateway,
		nil,
	)
}

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout en efectivo
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_EfectivoConImpuesto(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	s.addItem("B", 5, "25.50")
	s.settings[entity.SettingTaxRate] = "10"
	uc := newCheckoutUC(s, nil)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentCash,
		Paid:          money("300.00"),
		Lines: []dto.SaleLineRequest{
			{ItemID: "A", Qty: 2}, // 200.00
			{ItemID: "B", Qty: 2}, // 51.00
		},
	})
	require.NoError(t, err)

	// subtotal 251.00, impuesto 10% = 25.10, total 276.10, cambio 23.90
	assert.True(t, resp.Subtotal.Equal(money("251.00")), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Tax.Equal(money("25.10")), "impuesto %s", resp.Tax)
	assert.True(t, resp.Total.Equal(money("276.10")), "total %s", resp.Total)
	assert.True(t, resp.Change.Equal(money("23.90")), "cambio %s", resp.Change)
	assert.Equal(t, entity.SaleStatusPaid, resp.Status)

	// Stock descontado y movimientos de venta registrados
	assert.Equal(t, int64(8), s.items["A"].Stock)
	assert.Equal(t, int64(3), s.items["B"].Stock)
	require.Len(t, s.movements, 2)
	assert.Equal(t, entity.MovementSale, s.movements[0].Kind)
	require.Len(t, s.saleLines[resp.ID], 2)
}

func TestCheckout_EfectivoInsuficiente(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	uc := newCheckoutUC(s, nil)

	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentCash,
		Paid:          money("50.00"),
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, s.sales, "no debe quedar venta registrada")
	assert.Equal(t, int64(10), s.items["A"].Stock)
}

// Un artículo inexistente aborta la venta completa: ni venta, ni líneas, ni
// descuento de stock, ni movimientos.
func TestCheckout_ArticuloInexistenteAbortaTodo(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	uc := newCheckoutUC(s, nil)

	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentCash,
		Paid:          money("500.00"),
		Lines: []dto.SaleLineRequest{
			{ItemID: "A", Qty: 1},
			{ItemID: "missing", Qty: 1},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, s.sales)
	assert.Empty(t, s.movements)
	assert.Equal(t, int64(10), s.items["A"].Stock)
}

func TestCheckout_AdjuntaSesionAbierta(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "10.00")
	s.sessions["u1"] = &entity.CashierSession{ID: "S1", UserID: "u1", Status: entity.SessionOpen}
	uc := newCheckoutUC(s, nil)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentCash,
		Paid:          money("10.00"),
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "S1", resp.SessionID)
}

// Un error real al consultar la sesión aborta la venta: no debe registrarse
// silenciosamente sin sesión.
func TestCheckout_ErrorDeSesionAbortaVenta(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "10.00")
	s.sessionErr = errors.New("conexión perdida")
	uc := newCheckoutUC(s, nil)

	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentCash,
		Paid:          money("10.00"),
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, s.sales, "no debe quedar venta registrada")
	assert.Equal(t, int64(10), s.items["A"].Stock)
}

func TestCheckout_ClienteInexistente(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "10.00")
	uc := newCheckoutUC(s, nil)

	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		CustomerID:    "no-existe",
		PaymentMethod: entity.PaymentCash,
		Paid:          money("10.00"),
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Checkout por pasarela
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_PasarelaEntregaToken(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	gw := &fakeGateway{}
	uc := newCheckoutUC(s, gw)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentGateway,
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, resp.Status)
	assert.NotEmpty(t, resp.PaymentToken)
	assert.NotEmpty(t, resp.RedirectURL)
	assert.Equal(t, 1, gw.created)
}

// Si la pasarela falla después del commit, la venta queda pendiente y se
// devuelve junto con el error para que el llamador pueda reintentarla.
func TestCheckout_PasarelaCaidaDejaVentaPendiente(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	gw := &fakeGateway{failCreate: true}
	uc := newCheckoutUC(s, gw)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentGateway,
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.Error(t, err)
	require.NotNil(t, resp, "la venta confirmada debe devolverse aun con error de pasarela")
	assert.Equal(t, entity.SaleStatusPending, resp.Status)
	assert.Empty(t, resp.PaymentToken)

	// La venta y el descuento de stock quedaron firmes
	assert.Len(t, s.sales, 1)
	assert.Equal(t, int64(9), s.items["A"].Stock)
}

func TestCheckout_PasarelaSinConfigurar(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	uc := newCheckoutUC(s, nil) // gateway nil

	_, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentGateway,
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfirmGatewayPayment_MarcaPagada(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	gw := &fakeGateway{status: "settlement"}
	uc := newCheckoutUC(s, gw)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentGateway,
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.SaleStatusPending, resp.Status)

	confirmed, err := uc.ConfirmGatewayPayment(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPaid, confirmed.Status)
}

func TestConfirmGatewayPayment_PendienteSigueIgual(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	gw := &fakeGateway{status: "pending"}
	uc := newCheckoutUC(s, gw)

	resp, err := uc.Checkout(context.Background(), "u1", dto.CheckoutRequest{
		PaymentMethod: entity.PaymentGateway,
		Lines:         []dto.SaleLineRequest{{ItemID: "A", Qty: 1}},
	})
	require.NoError(t, err)

	confirmed, err := uc.ConfirmGatewayPayment(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusPending, confirmed.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckout_Invalido(t *testing.T) {
	s := newPosStore()
	s.addItem("A", 10, "100.00")
	uc := newCheckoutUC(s, nil)

	cases := []dto.CheckoutRequest{
		{PaymentMethod: entity.PaymentCash, Paid: money("100")},                                                     // sin líneas
		{PaymentMethod: "cheque", Lines: []dto.SaleLineRequest{{ItemID: "A", Qty: 1}}},                              // método desconocido
		{PaymentMethod: entity.PaymentCash, Paid: money("100"), Lines: []dto.SaleLineRequest{{ItemID: "A"}}},        // qty cero
		{PaymentMethod: entity.PaymentCash, Paid: money("100"), Lines: []dto.SaleLineRequest{{ItemID: "", Qty: 1}}}, // sin item
	}
	for _, in := range cases {
		_, err := uc.Checkout(context.Background(), "u1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, s.sales)
	assert.Empty(t, s.movements)
}
