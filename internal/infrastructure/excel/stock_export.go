// Package excel genera planillas XLSX con excelize.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

const stockSheet = "Stock"

var stockHeaders = []string{"SKU", "Producto", "Talla", "Color", "Stock", "Costo", "Precio lista"}

// StockExporter implementa inventory.StockExporter.
type StockExporter struct{}

// NewStockExporter construye el exportador.
func NewStockExporter() *StockExporter { return &StockExporter{} }

// StoreStock escribe una fila por variación con stock y precios de la tienda.
func (e *StockExporter) StoreStock(store *entity.Store, rows []*entity.StoreStock) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, fmt.Errorf("excel: hoja: %w", err)
	}

	if err := f.SetCellValue(stockSheet, "A1", "Tienda: "+store.Name); err != nil {
		return nil, err
	}
	for i, h := range stockHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(stockSheet, cell, h); err != nil {
			return nil, err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(stockSheet, "A3", "G3", bold); err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		n := i + 4
		cost, _ := r.PriceCost.Float64()
		list, _ := r.ListPrice().Float64()
		values := []interface{}{r.SKU, r.ProductName, r.Size, r.Color, r.Stock, cost, list}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, n)
			if err := f.SetCellValue(stockSheet, cell, v); err != nil {
				return nil, err
			}
		}
		if err := f.SetCellStyle(stockSheet, fmt.Sprintf("F%d", n), fmt.Sprintf("G%d", n), money); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(stockSheet, "A", "B", 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
