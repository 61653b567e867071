// Package pdf genera el documento imprimible de una orden de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Orden de compra + folio │ Emisión / Vencimiento     │
//	│  TIENDA DESTINO + estado de pago + N° DTE                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Pedido | Recibido | P.Unit | Subt.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Neto / IVA / TOTAL          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/Tiendas-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoRenderer implementa purchasing.Renderer usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el generador con montos en formato es (puntos de miles).
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{printer: message.NewPrinter(language.Spanish)}
}

// PurchaseOrder genera el PDF de la orden y devuelve sus bytes.
func (g *MarotoRenderer) PurchaseOrder(po *entity.PurchaseOrder, store *entity.Store, variations map[string]*entity.Variation) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+po.Folio, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(storeRow(po, store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.itemRows(po.Items, variations) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(po))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar orden %s: %w", po.Folio, err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoRenderer) headerRow(po *entity.PurchaseOrder) core.Row {
	due := "-"
	if po.DueDate != nil {
		due = po.DueDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Folio: "+po.Folio, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New("Emisión: "+po.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Vencimiento: "+due, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func storeRow(po *entity.PurchaseOrder, store *entity.Store) core.Row {
	name, location := po.StoreID, ""
	if store != nil {
		name, location = store.Name, store.Location
	}
	dte := "-"
	if po.DTENumber != nil && *po.DTENumber != "" {
		dte = *po.DTENumber
	}
	third := "No"
	if po.IsThirdParty {
		third = "Sí"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("TIENDA DESTINO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s  %s", name, location), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Estado: %s   |   N° DTE: %s   |   Terceros: %s", po.PaymentStatus, dte, third),
				props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Pedido", 1, align.Center),
		h("Recibido", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// itemRows: una fila por línea; variaciones desconocidas muestran su id.
func (g *MarotoRenderer) itemRows(items []*entity.PurchaseOrderItem, variations map[string]*entity.Variation) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		sku, name := it.VariationID, ""
		if v, ok := variations[it.VariationID]; ok && v != nil {
			sku = v.SKU
			name = fmt.Sprintf("%s %s %s", v.ProductName, v.Size, v.Color)
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(sku, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.QuantityRequested), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.QuantityReceived), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(it.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *MarotoRenderer) totalsRow(po *entity.PurchaseOrder) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(30).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("Neto:"),
			label("IVA:"),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}),
		),
		col.New(3).Add(
			value(g.money(po.Subtotal)),
			value(g.money(po.Discount)),
			value(g.money(po.NetTotal)),
			value(g.money(po.Tax)),
			text.New(g.money(po.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}),
		),
	)
}

// money formatea pesos sin decimales. Ej: 1234567 → "$1.234.567".
func (g *MarotoRenderer) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%d", d.Round(0).IntPart())
}
