package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// Label is the sticker placed on one deposited copy. Code is encoded in the
// QR code and identifies the copy at the till.
type Label struct {
	Code      string
	Game      string
	Publisher string
	Seller    string
	State     string
	Price     decimal.Decimal
}

// LabelsPDF renders one label row per copy.
func LabelsPDF(title string, labels []Label) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one label is required")
	}

	cfg := config.NewBuilder().
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		Build()
	m := maroto.New(cfg)

	if title != "" {
		m.AddRows(text.NewRow(12, title, props.Text{Size: 13, Style: fontstyle.Bold}))
	}

	for _, label := range labels {
		m.AddRows(row.New(32).Add(
			code.NewQrCol(3, label.Code, props.Rect{Center: true, Percent: 90}),
			col.New(9).Add(
				text.New(label.Game, props.Text{Size: 11, Style: fontstyle.Bold, Top: 2}),
				text.New(label.Publisher, props.Text{Size: 8, Top: 8}),
				text.New("Vendeur : "+label.Seller, props.Text{Size: 8, Top: 13}),
				text.New("État : "+label.State, props.Text{Size: 8, Top: 18}),
				text.New(FormatEuros(label.Price), props.Text{Size: 12, Style: fontstyle.Bold, Top: 23}),
			),
		))
	}

	return generate(m)
}
