// Package pdf genera el reporte local del historial de movimientos de un
// scope (línea de stock o precio de variante en sede), agrupado por fecha.
package pdf

import (
	"context"
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

	"github.com/invorya/vendor-console/internal/application/ledger"
	"github.com/invorya/vendor-console/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Etiquetas legibles por tipo de evento.
var movementLabels = map[string]string{
	entity.MovementReceived:   "Recepción",
	entity.MovementSale:       "Venta",
	entity.MovementReturn:     "Devolución",
	entity.MovementDefect:     "Defecto",
	entity.MovementWriteoff:   "Baja",
	entity.MovementAdjustment: "Ajuste de inventario",
}

var _ ledger.MovementReportGenerator = (*MovementReportGenerator)(nil)

// MovementReportGenerator implementa ledger.MovementReportGenerator con Maroto v2.
type MovementReportGenerator struct{}

// NewMovementReportGenerator construye el generador.
func NewMovementReportGenerator() *MovementReportGenerator { return &MovementReportGenerator{} }

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MovementReportGenerator) GenerateMovementReport(_ context.Context, scopeID string, days []entity.MovementDay) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de movimientos", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(scopeID))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, day := range days {
		m.AddRows(dayRow(day))
		for _, ev := range day.Events {
			m.AddRows(eventRow(ev))
		}
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(scopeID string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("HISTORIAL DE MOVIMIENTOS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Scope: "+scopeID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
	)
}

func dayRow(day entity.MovementDay) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(day.Date.Format("02/01/2006"), props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

func eventRow(ev entity.MovementEvent) core.Row {
	label, ok := movementLabels[ev.Type]
	if !ok {
		label = ev.Type
	}
	qty := ev.Quantity.String()
	if ev.Quantity.IsPositive() {
		qty = "+" + qty
	}
	ref := ev.Reference
	if ref == "" {
		ref = "—"
	}
	return row.New(6).Add(
		col.New(3).Add(text.New(label, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(qty, props.Text{Size: 8, Align: align.Right, Top: 1})),
		col.New(4).Add(text.New(ref, props.Text{Size: 8, Top: 1, Color: colorGray})),
		col.New(3).Add(text.New(ev.Actor, props.Text{Size: 8, Align: align.Right, Top: 1, Color: colorGray})),
	)
}
