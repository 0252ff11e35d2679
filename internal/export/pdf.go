package export

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/ledger"
)

// ReportPDF renders the period report as a PDF: the per-type totals,
// the net balance and one line per monthly bucket.
func ReportPDF(title string, summary ledger.Summary, months []ledger.MonthBucket) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		Build()
	m := maroto.New(cfg)

	m.AddRow(12, text.NewCol(12, title, props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))

	m.AddRow(8,
		text.NewCol(3, "Entrées", props.Text{Style: fontstyle.Bold}),
		text.NewCol(3, "Ventes", props.Text{Style: fontstyle.Bold}),
		text.NewCol(3, "Dépenses", props.Text{Style: fontstyle.Bold}),
		text.NewCol(3, "Solde", props.Text{Style: fontstyle.Bold}),
	)
	m.AddRow(8,
		text.NewCol(3, summary.Entree.StringFixed(2)),
		text.NewCol(3, summary.Vente.StringFixed(2)),
		text.NewCol(3, summary.Depense.StringFixed(2)),
		text.NewCol(3, summary.Balance.StringFixed(2)),
	)

	if len(months) > 0 {
		m.AddRow(10, text.NewCol(12, "Par mois", props.Text{
			Size:  11,
			Style: fontstyle.Bold,
		}))
		m.AddRow(7,
			text.NewCol(4, "Mois", props.Text{Style: fontstyle.Bold}),
			text.NewCol(2, "Entrées", props.Text{Style: fontstyle.Bold}),
			text.NewCol(2, "Ventes", props.Text{Style: fontstyle.Bold}),
			text.NewCol(2, "Dépenses", props.Text{Style: fontstyle.Bold}),
			text.NewCol(2, "Net", props.Text{Style: fontstyle.Bold}),
		)
		for _, b := range months {
			m.AddRow(6,
				text.NewCol(4, b.Month),
				text.NewCol(2, b.Entree.StringFixed(2)),
				text.NewCol(2, b.Vente.StringFixed(2)),
				text.NewCol(2, b.Depense.StringFixed(2)),
				text.NewCol(2, b.Net.StringFixed(2)),
			)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
