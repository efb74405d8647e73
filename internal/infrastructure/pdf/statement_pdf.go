// Package pdf genera el demostrativo de costeo FIFO de una venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Producto + SKU      │  Pedido + Plataforma + Fecha │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lote | Pedido compra | Fornecedor | Qtd | Custo | Sub│
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: faturamento, custo efetivo, lucros, ROI           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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
	"golang.org/x/text/number"

	"github.com/FernandoLelis/multivendas-backend/internal/application/sales"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ sales.StatementRenderer = (*StatementRenderer)(nil)

// StatementRenderer implementa sales.StatementRenderer con Maroto v2.
type StatementRenderer struct {
	printer *message.Printer
}

// NewStatementRenderer construye el generador con formato monetario pt-BR.
func NewStatementRenderer() *StatementRenderer {
	return &StatementRenderer{printer: message.NewPrinter(language.BrazilianPortuguese)}
}

// RenderSaleStatement genera el PDF y devuelve sus bytes.
func (g *StatementRenderer) RenderSaleStatement(_ context.Context, st *sales.Statement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Demonstrativo de custo FIFO", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(st))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(st.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range g.summaryRows(st) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(st *sales.Statement) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(st.Product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("SKU: "+st.Product.SKU, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Pedido "+st.Sale.OrderID, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New(st.Sale.Platform, props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorPrimary,
			}),
			text.New("Data: "+st.Sale.SoldAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Pedido de compra", 3, align.Left),
		h("Fornecedor", 3, align.Left),
		h("Qtd.", 1, align.Center),
		h("Custo unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *StatementRenderer) tableRows(lines []sales.StatementLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		ref := l.PurchaseOrderID
		if ref == "" {
			ref = l.LotID
		}
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(ref, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.Supplier, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(l.UnitCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(l.Subtotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *StatementRenderer) summaryRows(st *sales.Statement) []core.Row {
	f := st.Financials
	item := func(label, value string, bold bool) core.Row {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		return row.New(6).Add(
			col.New(8).Add(text.New(label, props.Text{Size: 9, Align: align.Right, Style: style, Top: 1})),
			col.New(4).Add(text.New(value, props.Text{Size: 9, Align: align.Right, Style: style, Top: 1, Right: 1})),
		)
	}
	return []core.Row{
		item("Faturamento", g.money(f.Revenue), false),
		item("Custo das mercadorias (FIFO)", g.money(f.CostOfGoodsSold), false),
		item("Custo efetivo total", g.money(f.EffectiveCost), false),
		item("Lucro bruto", g.money(f.GrossProfit), true),
		item("Despesas operacionais", g.money(f.OperatingExpenses), false),
		item("Lucro líquido", g.money(f.NetProfit), true),
		item("ROI", g.printer.Sprintf("%v %%", number.Decimal(f.ROI.InexactFloat64(), number.Scale(2))), true),
	}
}

// money formatea con separadores pt-BR ("R$ 1.234,50").
func (g *StatementRenderer) money(d decimal.Decimal) string {
	return g.printer.Sprintf("R$ %v", number.Decimal(d.InexactFloat64(), number.Scale(2)))
}
