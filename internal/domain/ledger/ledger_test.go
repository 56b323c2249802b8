package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/puntoventa-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// ApplyDecrease: piso en cero
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyDecrease_Normal(t *testing.T) {
	after, applied := ledger.ApplyDecrease(50, 20)
	assert.Equal(t, int64(30), after)
	assert.Equal(t, int64(20), applied)
}

// Si se pide más de lo disponible, el stock queda en cero y el delta registrado
// es el recortado (lo disponible), no lo solicitado.
func TestApplyDecrease_RecorteEnCero(t *testing.T) {
	after, applied := ledger.ApplyDecrease(30, 40)
	assert.Equal(t, int64(0), after)
	assert.Equal(t, int64(30), applied)
}

func TestApplyDecrease_ExactoQuedaEnCero(t *testing.T) {
	after, applied := ledger.ApplyDecrease(25, 25)
	assert.Equal(t, int64(0), after)
	assert.Equal(t, int64(25), applied)
}

func TestApplyDecrease_StockCero(t *testing.T) {
	after, applied := ledger.ApplyDecrease(0, 10)
	assert.Equal(t, int64(0), after)
	assert.Equal(t, int64(0), applied)
}

// ──────────────────────────────────────────────────────────────────────────────
// CountDelta: reconciliación por conteo físico (opname)
// ──────────────────────────────────────────────────────────────────────────────

func TestCountDelta_Sobrante(t *testing.T) {
	delta, kind := ledger.CountDelta(100, 105)
	assert.Equal(t, int64(5), delta)
	assert.Equal(t, entity.MovementAdjustIn, kind)
}

func TestCountDelta_Faltante(t *testing.T) {
	delta, kind := ledger.CountDelta(100, 92)
	assert.Equal(t, int64(-8), delta)
	assert.Equal(t, entity.MovementAdjustOut, kind)
}

// Convención: conteo igual al registro se registra como ajuste positivo de
// magnitud cero (queda constancia del conteo en la bitácora).
func TestCountDelta_SinDiferencia(t *testing.T) {
	delta, kind := ledger.CountDelta(100, 100)
	assert.Equal(t, int64(0), delta)
	assert.Equal(t, entity.MovementAdjustIn, kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// FulfillmentStatus: estado de cumplimiento de la orden de compra
// ──────────────────────────────────────────────────────────────────────────────

func line(ordered, received int64) entity.PurchaseOrderLine {
	return entity.PurchaseOrderLine{QtyOrdered: ordered, QtyReceived: received}
}

// Orden con líneas (10, 5): recibir (10, 5) → received; recibir (10, 3) → partial.
func TestFulfillmentStatus_CompletaYParcial(t *testing.T) {
	assert.Equal(t, entity.OrderStatusReceived,
		ledger.FulfillmentStatus([]entity.PurchaseOrderLine{line(10, 10), line(5, 5)}))
	assert.Equal(t, entity.OrderStatusPartial,
		ledger.FulfillmentStatus([]entity.PurchaseOrderLine{line(10, 10), line(5, 3)}))
}

func TestFulfillmentStatus_SinRecepciones(t *testing.T) {
	assert.Equal(t, entity.OrderStatusOpen,
		ledger.FulfillmentStatus([]entity.PurchaseOrderLine{line(10, 0), line(5, 0)}))
}

// Recibir de más en una línea no impide el estado received.
func TestFulfillmentStatus_SobreRecepcion(t *testing.T) {
	assert.Equal(t, entity.OrderStatusReceived,
		ledger.FulfillmentStatus([]entity.PurchaseOrderLine{line(10, 12)}))
}
