package sales

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// GatewayTransaction respuesta de la pasarela al crear un cobro.
type GatewayTransaction struct {
	Token       string
	RedirectURL string
}

// PaymentGateway define el puerto de salida hacia la pasarela de pagos.
// La implementación concreta habla HTTP/JSON; para tests se inyecta un mock.
type PaymentGateway interface {
	// CreateTransaction solicita un token de pago para la venta indicada.
	CreateTransaction(ctx context.Context, orderNumber string, grossAmount decimal.Decimal) (*GatewayTransaction, error)
	// CheckStatus consulta el estado del cobro en la pasarela.
	CheckStatus(ctx context.Context, orderNumber string) (string, error)
}

// ReceiptPDFLine línea del ticket con el nombre resuelto del artículo.
type ReceiptPDFLine struct {
	Name      string
	Qty       int64
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// StoreInfo datos de la tienda para el encabezado y pie del ticket.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
	Footer  string
}

// ReceiptPDFGenerator define el puerto de salida para el ticket de venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, lines []ReceiptPDFLine, store StoreInfo) ([]byte, error)
}
