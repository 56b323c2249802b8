// Package excel implementa la exportación de reportes de stock a .xlsx.
package excel

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/puntoventa-api/internal/application/usecase"
	"github.com/jhoicas/puntoventa-api/internal/domain/entity"
)

// Ensure StockExporter implements usecase.StockExporter.
var _ usecase.StockExporter = (*StockExporter)(nil)

// StockExporter genera libros .xlsx con excelize.
type StockExporter struct {
	printer *message.Printer
}

// NewStockExporter construye el exportador.
func NewStockExporter() *StockExporter {
	return &StockExporter{printer: message.NewPrinter(language.Spanish)}
}

// StockListWorkbook genera el listado de stock: una fila por artículo.
func (e *StockExporter) StockListWorkbook(items []*entity.Item) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"code", "name", "unit", "price", "cost", "stock", "reorder_level", "low_stock",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: escribir encabezado: %w", err)
	}

	row := 2
	for _, it := range items {
		low := ""
		if it.Stock <= it.ReorderLevel {
			low = "SI"
		}
		excelRow := []interface{}{
			it.Code,
			it.Name,
			it.Unit,
			e.money(it.Price),
			e.money(it.Cost),
			it.Stock,
			it.ReorderLevel,
			low,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("excel: escribir fila: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}

// money formatea un monto con separadores de miles según el locale.
func (e *StockExporter) money(d decimal.Decimal) string {
	v, _ := d.Float64()
	return e.printer.Sprintf("%.2f", v)
}

// StockCardWorkbook genera la tarjeta de stock de un artículo: una fila por
// movimiento en orden cronológico con saldos before/after.
func (e *StockExporter) StockCardWorkbook(item *entity.Item, movements []*entity.StockMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	info := []interface{}{"item_code", item.Code, "item_name", item.Name, "stock", item.Stock}
	if err := f.SetSheetRow(sheet, "A1", &info); err != nil {
		return nil, fmt.Errorf("excel: escribir encabezado: %w", err)
	}
	header := []interface{}{"date", "kind", "delta", "before", "after", "reference", "note"}
	if err := f.SetSheetRow(sheet, "A2", &header); err != nil {
		return nil, fmt.Errorf("excel: escribir encabezado: %w", err)
	}

	row := 3
	for _, m := range movements {
		excelRow := []interface{}{
			m.CreatedAt.Format(time.RFC3339),
			m.Kind,
			m.Delta,
			m.Before,
			m.After,
			m.Reference,
			m.Note,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("excel: celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("excel: escribir fila: %w", err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir archivo: %w", err)
	}
	return buf.Bytes(), nil
}
