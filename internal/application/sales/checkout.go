package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/application/dto"
	appledger "github.com/jhoicas/puntoventa-api/internal/application/ledger"
	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/repository"
)

// CheckoutUseCase completa una venta de mostrador: venta + líneas + descuento
// de stock + movimientos en UNA transacción. Un artículo inexistente aborta la
// creación de la venta completa (no queda venta sin descuento ni descuento sin
// venta). El cobro por pasarela se solicita después del commit; si la pasarela
// falla, la venta queda en estado pending y el cobro puede reintentarse.
type CheckoutUseCase struct {
	txRunner     appledger.TxRunner
	ledger       *appledger.StockLedgerUseCase
	itemRepo     repository.ItemRepository
	customerRepo repository.CustomerRepository
	sessionRepo  repository.CashierSessionRepository
	saleRepo     repository.SaleRepository
	settingRepo  repository.SettingRepository
	settings     *usecase.SettingsUseCase
	gateway      PaymentGateway
	pdfGenerator ReceiptPDFGenerator
}

// NewCheckoutUseCase construye el caso de uso. gateway puede ser nil si la
// pasarela no está configurada (solo ventas en efectivo).
func NewCheckoutUseCase(
	txRunner appledger.TxRunner,
	ledger *appledger.StockLedgerUseCase,
	itemRepo repository.ItemRepository,
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashierSessionRepository,
	saleRepo repository.SaleRepository,
	settingRepo repository.SettingRepository,
	settings *usecase.SettingsUseCase,
	gateway PaymentGateway,
	pdfGenerator ReceiptPDFGenerator,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txRunner:     txRunner,
		ledger:       ledger,
		itemRepo:     itemRepo,
		customerRepo: customerRepo,
		sessionRepo:  sessionRepo,
		saleRepo:     saleRepo,
		settingRepo:  settingRepo,
		settings:     settings,
		gateway:      gateway,
		pdfGenerator: pdfGenerator,
	}
}

// Checkout registra la venta y descuenta stock atómicamente.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, userID string, in dto.CheckoutRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod != entity.PaymentCash && in.PaymentMethod != entity.PaymentGateway {
		return nil, domain.ErrInvalidInput
	}
	if in.PaymentMethod == entity.PaymentGateway && uc.gateway == nil {
		return nil, domain.ErrInvalidInput
	}
	if in.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(in.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
	}

	// Precios y totales con los artículos actuales. La existencia se revalida
	// dentro de la transacción (bloqueo de fila); aquí solo se arma el total.
	subtotal := decimal.Zero
	saleLines := make([]*entity.SaleLine, 0, len(in.Lines))
	ledgerLines := make([]appledger.SaleLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Qty <= 0 {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(l.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(l.Qty))
		saleLines = append(saleLines, &entity.SaleLine{
			ID:        uuid.New().String(),
			ItemID:    l.ItemID,
			Qty:       l.Qty,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
		ledgerLines = append(ledgerLines, appledger.SaleLineInput{ItemID: l.ItemID, Qty: l.Qty})
		subtotal = subtotal.Add(lineTotal)
	}

	taxRate, err := uc.settings.TaxRate()
	if err != nil {
		return nil, err
	}
	tax := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(tax)

	now := time.Now()
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Number:        newSaleNumber(now),
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         total,
		Paid:          decimal.Zero,
		Change:        decimal.Zero,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	switch in.PaymentMethod {
	case entity.PaymentCash:
		if in.Paid.LessThan(total) {
			return nil, domain.ErrInvalidInput
		}
		sale.Status = entity.SaleStatusPaid
		sale.Paid = in.Paid
		sale.Change = in.Paid.Sub(total)
	case entity.PaymentGateway:
		sale.Status = entity.SaleStatusPending
	}

	// Sesión de caja abierta del cajero, si tiene (ventas de mostrador sin
	// sesión también se aceptan, p.ej. desde el backoffice). Sin sesión es
	// (nil, nil); un error real aborta antes de registrar la venta.
	session, err := uc.sessionRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if session != nil {
		sale.SessionID = session.ID
	}

	for _, l := range saleLines {
		l.SaleID = sale.ID
	}

	err = uc.txRunner.RunSale(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, l := range saleLines {
			if err := saleRepo.CreateLine(l); err != nil {
				return err
			}
		}
		_, err := uc.ledger.ApplySaleLinesInTx(itemRepo, movRepo, sale.ID, userID, ledgerLines, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := toSaleResponse(sale, saleLines)
	if in.PaymentMethod == entity.PaymentGateway {
		trx, err := uc.gateway.CreateTransaction(ctx, sale.Number, total)
		if err != nil {
			// La venta ya está confirmada; el cobro se puede reintentar con
			// la pasarela usando el mismo número de venta.
			return resp, err
		}
		resp.PaymentToken = trx.Token
		resp.RedirectURL = trx.RedirectURL
	}
	return resp, nil
}

// GetByID obtiene una venta con sus líneas (nil si no existe).
func (uc *CheckoutUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, nil
	}
	lines, err := uc.saleRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, lines), nil
}

// List lista ventas en un rango de fechas.
func (uc *CheckoutUseCase) List(from, to *time.Time, page dto.PageRequest) ([]*dto.SaleResponse, error) {
	page.DefaultPage()
	sales, err := uc.saleRepo.List(from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s, nil))
	}
	return out, nil
}

// ConfirmGatewayPayment consulta la pasarela y marca la venta como pagada si
// el cobro fue aprobado.
func (uc *CheckoutUseCase) ConfirmGatewayPayment(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	if uc.gateway == nil {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.Status == entity.SaleStatusPaid {
		return uc.GetByID(saleID)
	}
	status, err := uc.gateway.CheckStatus(ctx, sale.Number)
	if err != nil {
		return nil, err
	}
	if status == "settlement" || status == "capture" {
		if err := uc.saleRepo.UpdateStatus(sale.ID, entity.SaleStatusPaid); err != nil {
			return nil, err
		}
	}
	return uc.GetByID(saleID)
}

// ReceiptPDF genera el ticket de la venta en PDF.
func (uc *CheckoutUseCase) ReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.saleRepo.GetLines(saleID)
	if err != nil {
		return nil, err
	}
	pdfLines := make([]ReceiptPDFLine, 0, len(lines))
	for _, l := range lines {
		name := l.ItemID
		if item, err := uc.itemRepo.GetByID(l.ItemID); err == nil && item != nil {
			name = item.Name
		}
		pdfLines = append(pdfLines, ReceiptPDFLine{
			Name:      name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return uc.pdfGenerator.GenerateReceiptPDF(ctx, sale, pdfLines, uc.storeInfo())
}

func (uc *CheckoutUseCase) storeInfo() StoreInfo {
	info := StoreInfo{Name: "Punto de Venta"}
	if s, err := uc.settingRepo.Get(entity.SettingStoreName); err == nil && s != nil {
		info.Name = s.Value
	}
	if s, err := uc.settingRepo.Get(entity.SettingStoreAddress); err == nil && s != nil {
		info.Address = s.Value
	}
	if s, err := uc.settingRepo.Get(entity.SettingStorePhone); err == nil && s != nil {
		info.Phone = s.Value
	}
	if s, err := uc.settingRepo.Get(entity.SettingReceiptFooter); err == nil && s != nil {
		info.Footer = s.Value
	}
	return info
}

// newSaleNumber genera el consecutivo legible de la venta.
func newSaleNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return "TRX-" + now.Format("20060102") + "-" + suffix
}

func toSaleResponse(s *entity.Sale, lines []*entity.SaleLine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID,
		Number:        s.Number,
		CustomerID:    s.CustomerID,
		SessionID:     s.SessionID,
		Status:        s.Status,
		PaymentMethod: s.PaymentMethod,
		Subtotal:      s.Subtotal,
		Tax:           s.Tax,
		Total:         s.Total,
		Paid:          s.Paid,
		Change:        s.Change,
		CreatedAt:     s.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.SaleLineResponse{
			ID:        l.ID,
			ItemID:    l.ItemID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		})
	}
	return resp
}
