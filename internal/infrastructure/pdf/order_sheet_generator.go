// Package pdf genera la hoja de trabajo imprimible de una orden.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto   │  N° Orden + Estado + Fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Título / Ubicación / Prioridad / Cliente / Técnico   │
//	│  DESCRIPCIÓN                                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Usuario | Comentario                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la orden + firma de conformidad              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/ops-dashboard-api/internal/application/dto"
	"github.com/jhoicas/ops-dashboard-api/internal/application/usecase"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ usecase.OrderSheetGenerator = (*OrderSheetGenerator)(nil)

// OrderSheetGenerator implementa usecase.OrderSheetGenerator usando Maroto v2.
type OrderSheetGenerator struct{}

// NewOrderSheetGenerator construye el generador.
func NewOrderSheetGenerator() *OrderSheetGenerator { return &OrderSheetGenerator{} }

// GenerateOrderSheet genera el PDF y devuelve sus bytes.
func (g *OrderSheetGenerator) GenerateOrderSheet(_ context.Context, data usecase.OrderSheetData) ([]byte, error) {
	companyName := "—"
	if data.Company != nil {
		companyName = data.Company.Name
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Orden de trabajo #%d", data.Order.ID), true).
		WithAuthor(companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRows(data)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(commentsHeaderRow())
	m.AddRows(commentRows(data.Order.Comments)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa y contacto (izq); número, estado y fecha de la orden (der).
func headerRow(data usecase.OrderSheetData) core.Row {
	name, contact := "—", "—"
	if c := data.Company; c != nil {
		name = c.Name
		contact = fmt.Sprintf("%s   |   Tel: %s", nonEmpty(c.Address, "—"), nonEmpty(c.Phone, "—"))
	}
	o := data.Order
	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(contact, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ORDEN DE TRABAJO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("#%d - %s", o.ID, o.StatusLabel), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Creada: "+o.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// detailRows: datos principales y descripción.
func detailRows(data usecase.OrderSheetData) []core.Row {
	o := data.Order
	field := func(label, value string) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(value, "—"), props.Text{Size: 9, Top: 5}),
		)
	}
	completed := ""
	if o.CompletedAt != nil {
		completed = o.CompletedAt.Format("02/01/2006 15:04")
	}
	return []core.Row{
		row.New(12).Add(col.New(12).Add(
			text.New(o.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 3}),
		)),
		row.New(11).Add(field("UBICACIÓN", o.Location), field("PRIORIDAD", o.PriorityLabel)),
		row.New(11).Add(field("CLIENTE", data.ClientName), field("ASIGNADA A", o.AssignedToName)),
		row.New(11).Add(field("ÚLTIMA ACTUALIZACIÓN", o.UpdatedAt.Format("02/01/2006 15:04")), field("COMPLETADA", completed)),
		row.New(6).Add(col.New(12).Add(
			text.New("DESCRIPCIÓN", props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
		)),
		row.New(14).Add(col.New(12).Add(
			text.New(o.Description, props.Text{Size: 9, Top: 1}),
		)),
	}
}

func commentsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Usuario", 3, align.Left),
		h("Comentario", 6, align.Left),
	)
}

// commentRows: una fila por comentario, en orden cronológico.
func commentRows(comments []dto.CommentResponse) []core.Row {
	if len(comments) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin comentarios", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		))}
	}
	result := make([]core.Row, 0, len(comments))
	for _, c := range comments {
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(c.Timestamp.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(c.UserName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(c.Text, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

// footerRow: QR con la referencia de la orden y espacio para la firma.
func footerRow(data usecase.OrderSheetData) core.Row {
	ref := fmt.Sprintf("orden:%d", data.Order.ID)
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Generado por "+nonEmpty(data.GeneratedBy, "—")+" el "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Firma de conformidad: ______________________________", props.Text{
				Size: 9, Top: 26, Left: 3,
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
