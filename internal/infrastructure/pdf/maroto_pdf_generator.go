// Package pdf genera los documentos imprimibles de la óptica con Maroto v2:
// recibo de venta y orden de compra de reposición.
//
// Layout del recibo (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: OptiGestión          │  Recibo N° + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENTA: Método de pago / Atendió / Observaciones             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA 16% / TOTAL                         │
//	│  FOOTER: QR con el ID de la venta                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/OptiGestion-api/internal/application/dto"
	"github.com/jhoicas/OptiGestion-api/internal/application/inventory"
	"github.com/jhoicas/OptiGestion-api/internal/application/sales"
	"github.com/jhoicas/OptiGestion-api/internal/domain/entity"
)

var (
	_ sales.ReceiptRenderer           = (*MarotoPDFGenerator)(nil)
	_ inventory.PurchaseOrderRenderer = (*MarotoPDFGenerator)(nil)
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.ReceiptRenderer e inventory.PurchaseOrderRenderer.
type MarotoPDFGenerator struct {
	businessName string
}

// NewMarotoPDFGenerator construye el generador. businessName aparece en el encabezado.
func NewMarotoPDFGenerator(businessName string) *MarotoPDFGenerator {
	if businessName == "" {
		businessName = "OptiGestión"
	}
	return &MarotoPDFGenerator{businessName: businessName}
}

func (g *MarotoPDFGenerator) newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.businessName, true).
		Build()
	return maroto.New(cfg)
}

// RenderReceipt genera el recibo de una venta y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderReceipt(_ context.Context, sale *entity.Sale) ([]byte, error) {
	m := g.newDocument("Recibo de venta")

	m.AddRows(g.headerRow("RECIBO DE VENTA", sale.ShortID(), sale.Date))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(saleInfoRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(
		header{"Cant.", 1, align.Center},
		header{"Producto", 6, align.Left},
		header{"Precio Unit.", 2, align.Right},
		header{"Subtotal", 3, align.Right},
	))
	for _, l := range sale.Lines {
		m.AddRows(row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(formatMoney(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6, Left: 3, Color: colorPrimary,
			}),
			text.New("Referencia: "+sale.ID, props.Text{Size: 7, Top: 14, Left: 3, Color: colorGray}),
			text.New("Conserve este recibo para cambios y garantías.", props.Text{Size: 7, Top: 20, Left: 3, Color: colorGray}),
		),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// RenderPurchaseOrder genera la orden de compra de reposición.
func (g *MarotoPDFGenerator) RenderPurchaseOrder(_ context.Context, items []dto.ReplenishmentSuggestionDTO, generatedAt time.Time) ([]byte, error) {
	m := g.newDocument("Orden de compra")

	m.AddRows(g.headerRow("ORDEN DE COMPRA", generatedAt.Format("20060102"), generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(items) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("No hay productos con stock bajo.", props.Text{Size: 10, Align: align.Center, Top: 4, Color: colorGray}),
		)))
	} else {
		m.AddRows(tableHeaderRow(
			header{"Prior.", 1, align.Center},
			header{"Producto", 5, align.Left},
			header{"Marca", 2, align.Left},
			header{"Stock", 1, align.Center},
			header{"Mínimo", 1, align.Center},
			header{"Pedir", 2, align.Right},
		))
		total := 0
		for _, it := range items {
			total += it.SuggestedOrderQty
			m.AddRows(row.New(7).Add(
				col.New(1).Add(text.New(strconv.Itoa(it.Priority), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(5).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
				col.New(2).Add(text.New(nonEmpty(it.Brand, "-"), props.Text{Size: 8, Top: 1, Left: 1, Color: colorGray})),
				col.New(1).Add(text.New(strconv.Itoa(it.CurrentStock), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(1).Add(text.New(strconv.Itoa(it.StockMinimum), props.Text{Size: 8, Align: align.Center, Top: 1})),
				col.New(2).Add(text.New(strconv.Itoa(it.SuggestedOrderQty), props.Text{
					Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1,
				})),
			))
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(row.New(8).Add(
			col.New(10).Add(text.New("Total de unidades:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2})),
			col.New(2).Add(text.New(strconv.Itoa(total), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 2, Color: colorPrimary})),
		))
	}

	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Cantidad sugerida: máximo entre (mínimo - stock + 10) y 10 unidades.", props.Text{Size: 6.5, Color: colorGray, Top: 3}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar orden de compra: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del negocio (izq) y tipo de documento + número + fecha (der).
func (g *MarotoPDFGenerator) headerRow(kind, number string, date time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Óptica y optometría", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+date.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// saleInfoRow: método de pago, quién cobró y observaciones.
func saleInfoRow(sale *entity.Sale) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DATOS DE LA VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Método de pago: %s   |   Atendió: %s",
				string(sale.PaymentMethod),
				nonEmpty(sale.Actor, "-"),
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New("Observaciones: "+nonEmpty(sale.Notes, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

type header struct {
	label string
	size  int
	align align.Type
}

// tableHeaderRow: cabecera de tabla en blanco sobre el color primario.
func tableHeaderRow(headers ...header) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for _, h := range headers {
		cols = append(cols, col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			text.New("IVA 16%:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 11, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(formatMoney(sale.Subtotal), 0),
			value(formatMoney(sale.Tax), 5),
			text.New(formatMoney(sale.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 11, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney importe con separador de miles y dos decimales.
// Ej: 25000 → "$25,000.00", 1234567.5 → "$1,234,567.50"
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + "$" + string(buf) + frac
}
