package ledger

import "github.com/jhoicas/puntoventa-api/internal/domain/entity"

// Aritmética pura del kardex (servicio de dominio, sin dependencias de infraestructura).

// ApplyDecrease aplica una salida con piso en cero: el stock nunca queda negativo.
// Devuelve el stock resultante y el delta realmente aplicado (recortado al stock
// disponible cuando requested > before). La política de piso es deliberada: el
// movimiento registra el delta recortado, no el solicitado.
func ApplyDecrease(before, requested int64) (after, applied int64) {
	if requested >= before {
		return 0, before
	}
	return before - requested, requested
}

// CountDelta calcula el delta de una reconciliación por conteo físico (opname):
// delta = conteo - stock registrado. El tipo de movimiento se infiere del signo;
// por convención un delta cero se registra como ajuste positivo de magnitud cero.
func CountDelta(before, counted int64) (delta int64, kind string) {
	delta = counted - before
	if delta < 0 {
		return delta, entity.MovementAdjustOut
	}
	return delta, entity.MovementAdjustIn
}

// FulfillmentStatus recalcula el estado de una orden de compra a partir de los
// acumulados autoritativos de sus líneas, dentro de la misma transacción que
// registró la recepción. received es terminal: una orden completa no regresa.
func FulfillmentStatus(lines []entity.PurchaseOrderLine) string {
	if len(lines) == 0 {
		return entity.OrderStatusOpen
	}
	all := true
	any := false
	for _, l := range lines {
		if l.QtyReceived > 0 {
			any = true
		}
		if !l.Fulfilled() {
			all = false
		}
	}
	switch {
	case all:
		return entity.OrderStatusReceived
	case any:
		return entity.OrderStatusPartial
	default:
		return entity.OrderStatusOpen
	}
}
