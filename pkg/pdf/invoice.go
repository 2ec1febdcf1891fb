// Package pdf renders sale invoices and deposit labels.
package pdf

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// InvoiceItem is one printed sale line.
type InvoiceItem struct {
	Game      string
	Seller    string
	Quantity  int
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// BuyerData identifies who the invoice is addressed to.
type BuyerData struct {
	Name    string
	Email   string
	Address string
}

// InvoiceData is everything printed on a sale invoice.
type InvoiceData struct {
	InvoiceNumber string
	Date          string
	SessionName   string
	Status        string
	Buyer         BuyerData
	Items         []InvoiceItem
	GrandTotal    decimal.Decimal
}

var (
	headerStyle = props.Text{Size: 9, Style: fontstyle.Bold}
	cellStyle   = props.Text{Size: 9}
	amountStyle = props.Text{Size: 9, Align: align.Right}
)

// InvoicePDF renders a sale invoice.
func InvoicePDF(data InvoiceData) ([]byte, error) {
	if data.InvoiceNumber == "" {
		return nil, fmt.Errorf("invoice number is required")
	}

	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(14, "Facture "+data.InvoiceNumber, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
		row.New(6).Add(
			text.NewCol(6, "Date : "+data.Date, cellStyle),
			text.NewCol(6, "Session : "+data.SessionName, props.Text{Size: 9, Align: align.Right}),
		),
		text.NewRow(6, "Statut : "+data.Status, cellStyle),
	)

	m.AddRows(buyerRows(data.Buyer)...)

	m.AddRow(8,
		text.NewCol(4, "Jeu", headerStyle),
		text.NewCol(3, "Vendeur", headerStyle),
		text.NewCol(1, "Qté", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Prix unitaire", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)
	for _, item := range data.Items {
		m.AddRow(6,
			text.NewCol(4, item.Game, cellStyle),
			text.NewCol(3, item.Seller, cellStyle),
			text.NewCol(1, fmt.Sprintf("%d", item.Quantity), amountStyle),
			text.NewCol(2, FormatEuros(item.UnitPrice), amountStyle),
			text.NewCol(2, FormatEuros(item.Total), amountStyle),
		)
	}

	m.AddRow(10,
		text.NewCol(10, "Total TTC", props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
		text.NewCol(2, FormatEuros(data.GrandTotal), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)

	return generate(m)
}

func buyerRows(buyer BuyerData) []core.Row {
	if buyer.Name == "" {
		return []core.Row{text.NewRow(10, "Acheteur : anonyme", props.Text{Size: 9, Top: 3})}
	}
	rows := []core.Row{text.NewRow(10, "Acheteur : "+buyer.Name, props.Text{Size: 10, Style: fontstyle.Bold, Top: 3})}
	if buyer.Email != "" {
		rows = append(rows, text.NewRow(5, buyer.Email, cellStyle))
	}
	if buyer.Address != "" {
		rows = append(rows, text.NewRow(5, buyer.Address, cellStyle))
	}
	return rows
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

// FormatEuros prints an amount as "12,50 €".
func FormatEuros(amount decimal.Decimal) string {
	s := amount.StringFixed(2)
	out := []rune(s)
	for i, r := range out {
		if r == '.' {
			out[i] = ','
		}
	}
	return string(out) + " €"
}
