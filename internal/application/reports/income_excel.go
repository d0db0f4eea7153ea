package reports

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/retail-admin-api/internal/application/dto"
)

const (
	sheetSummary = "Resumen"
	sheetDaily   = "Diario"
	dayLayout    = "2006-01-02"
)

// IncomeExcel exporta el reporte a un libro xlsx con dos hojas: resumen y filas diarias.
func IncomeExcel(r *dto.IncomeReportResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), sheetSummary); err != nil {
		return nil, fmt.Errorf("reports: hoja resumen: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("reports: estilo: %w", err)
	}

	summary := [][]interface{}{
		{"Tienda", r.StoreID},
		{"Desde", r.From.Format(dayLayout)},
		{"Hasta", r.To.Format(dayLayout)},
		{"Ventas", r.SalesCount},
		{"Ingresos", r.Revenue.InexactFloat64()},
		{"Cobrado", r.Collected.InexactFloat64()},
		{"Deuda", r.Debt.InexactFloat64()},
		{"Ganancia pura", r.PureRevenue.InexactFloat64()},
		{"Gastos", r.Expenses.InexactFloat64()},
		{"Ingreso neto", r.NetIncome.InexactFloat64()},
	}
	for i, values := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &values); err != nil {
			return nil, fmt.Errorf("reports: fila resumen: %w", err)
		}
	}
	if err := f.SetCellStyle(sheetSummary, "B5", "B10", moneyStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, fmt.Errorf("reports: hoja diaria: %w", err)
	}
	header := []interface{}{"Día", "Ingresos", "Ganancia pura", "Gastos", "Ingreso neto"}
	if err := f.SetSheetRow(sheetDaily, "A1", &header); err != nil {
		return nil, fmt.Errorf("reports: encabezado: %w", err)
	}
	row := 2
	for _, d := range r.Daily {
		values := []interface{}{
			d.Day.Format(dayLayout),
			d.Revenue.InexactFloat64(),
			d.PureRevenue.InexactFloat64(),
			d.Expenses.InexactFloat64(),
			d.NetIncome.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetDaily, cell, &values); err != nil {
			return nil, fmt.Errorf("reports: fila diaria: %w", err)
		}
		row++
	}
	if row > 2 {
		last, _ := excelize.CoordinatesToCellName(5, row-1)
		if err := f.SetCellStyle(sheetDaily, "B2", last, moneyStyle); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("reports: escritura xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
