package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/depotvente-backend/internal/depositform"
	"github.com/angelmondragon/depotvente-backend/internal/reporting"
	"github.com/angelmondragon/depotvente-backend/internal/salewizard"
	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/env"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet("depotctl "+name, flag.ContinueOnError)
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	surface := fs.String("surface", string(client.SurfaceGestionnaire), "admin|gestionnaire")
	email := fs.String("email", "", "account email")
	password := fs.String("password", env.Get("DEPOTVENTE_CLIENT_PASSWORD", ""), "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	identity, err := a.api.Auth.Login(ctx, client.Surface(*surface), *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "connecté: %s <%s> (%s)\n", identity.Username, identity.Email, identity.Role)
	return nil
}

func runLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.api.Auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "déconnecté")
	return nil
}

func runWhoami(_ context.Context, a *app, _ []string) error {
	identity, err := a.api.Auth.RequireIdentity()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s\t%s\t%s\t%s\n", identity.ID, identity.Username, identity.Email, identity.Role)
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: depotctl list sellers|buyers|games|sessions|deposits|sales [flags]")
	}
	fs := newFlags("list " + args[0])
	search := fs.String("search", "", "name filter")
	sessionRaw := fs.String("session", "", "session id")
	cursor := fs.String("cursor", "", "sales page cursor")
	limit := fs.Int("limit", 0, "sales page size")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	sessionID, err := parseOptionalUUID("session", *sessionRaw)
	if err != nil {
		return err
	}

	tw := a.table()
	var footer string

	switch args[0] {
	case "sellers":
		rows, err := a.api.Sellers.List(ctx, client.SellerQuery{Search: *search, SessionID: sessionID})
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNOM\tEMAIL\tTÉLÉPHONE")
		for _, s := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, deref(s.Phone))
		}
	case "buyers":
		rows, err := a.api.Buyers.List(ctx, *search)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNOM\tEMAIL\tTÉLÉPHONE")
		for _, b := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Name, deref(b.Email), deref(b.Phone))
		}
	case "games":
		rows, err := a.api.Games.List(ctx, *search)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNOM\tÉDITEUR\tPRIX")
		for _, g := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.Name, g.Publisher, g.Price.StringFixed(2))
		}
	case "sessions":
		rows, err := a.api.Sessions.List(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tNOM\tDÉBUT\tFIN\tACTIVE\tFRAIS %\tCOMMISSION %")
		for _, s := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\t%s\n", s.ID, s.Name,
				s.StartDate.Format("2006-01-02"), s.EndDate.Format("2006-01-02"),
				s.Status, s.Fees.String(), s.Commission.String())
		}
	case "deposits":
		rows, err := a.api.Deposits.List(ctx, client.DepositQuery{SessionID: sessionID})
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tDATE\tVENDEUR\tSESSION\tREMISE\tJEUX")
		for _, d := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", d.ID, d.DepositDate.Format("2006-01-02"),
				d.SellerID, d.SessionID, d.DiscountFees.String(), len(d.Games))
		}
	case "sales":
		page, err := a.api.Sales.List(ctx, client.SaleQuery{SessionID: sessionID, Limit: *limit, Cursor: *cursor})
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, "ID\tDATE\tSTATUT\tTOTAL")
		for _, s := range page.Items {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.SaleDate.Format("2006-01-02 15:04"),
				s.SaleStatus, reporting.SaleTotal(s).StringFixed(2))
		}
		if page.NextCursor != "" {
			footer = "\npage suivante: -cursor " + page.NextCursor + "\n"
		}
	default:
		return fmt.Errorf("liste inconnue %q", args[0])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprint(a.stdout, footer)
	return nil
}

func runStocks(ctx context.Context, a *app, args []string) error {
	fs := newFlags("stocks")
	sessionRaw := fs.String("session", "", "session id")
	gameRaw := fs.String("game", "", "game id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sessionID, err := parseOptionalUUID("session", *sessionRaw)
	if err != nil {
		return err
	}
	gameID, err := parseOptionalUUID("game", *gameRaw)
	if err != nil {
		return err
	}
	rows, err := a.api.Stocks.List(ctx, client.StockQuery{SessionID: sessionID, GameID: gameID})
	if err != nil {
		return err
	}

	tw := a.table()
	defer tw.Flush()
	fmt.Fprintln(tw, "JEU\tVENDEUR\tINITIAL\tRESTANT")
	for _, g := range reporting.GroupStocks(rows) {
		fmt.Fprintf(tw, "%s (%s)\t\t%d\t%d\n", g.GameName, g.Publisher, g.Initial, g.Current)
		for _, s := range g.Sellers {
			fmt.Fprintf(tw, "\t%s\t%d\t%d\n", s.SellerName, s.Initial, s.Current)
		}
	}
	donut := reporting.StockCounts(rows)
	fmt.Fprintf(tw, "TOTAL\t\t%d\t%d\n", donut.Initial, donut.Remaining)
	return nil
}

func runDeposit(ctx context.Context, a *app, args []string) error {
	fs := newFlags("deposit")
	sessionRaw := fs.String("session", "", "session id")
	sellerRaw := fs.String("seller", "", "seller id")
	discount := fs.String("discount", "", "discount on deposit fees")
	tag := fs.String("tag", "", "free-form tag")
	var games repeated
	fs.Var(&games, "game", "game-id[=price:state,...] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sessionID, err := parseRequiredUUID("session", *sessionRaw)
	if err != nil {
		return err
	}
	sellerID, err := parseRequiredUUID("seller", *sellerRaw)
	if err != nil {
		return err
	}

	form := depositform.New(sellerID, sessionID)
	form.Tag = *tag
	if *discount != "" {
		if form.DiscountFees, err = decimal.NewFromString(*discount); err != nil {
			return fmt.Errorf("-discount: montant invalide %q", *discount)
		}
	}
	for _, raw := range games {
		entry, err := parseGameFlag(raw)
		if err != nil {
			return err
		}
		if err := addEntry(ctx, a, form, entry); err != nil {
			return err
		}
	}

	deposit, err := form.Submit(ctx, depositform.FromClient(a.api))
	var stockErr *depositform.StockError
	if errors.As(err, &stockErr) {
		fmt.Fprintf(a.stdout, "dépôt %s enregistré\n", deposit.ID)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "dépôt %s enregistré (%d jeux)\n", deposit.ID, len(form.Entries))
	return nil
}

func addEntry(ctx context.Context, a *app, form *depositform.Form, entry gameFlag) error {
	game, err := a.api.Games.Get(ctx, entry.GameID)
	if err != nil {
		return err
	}
	i := form.AddEntry()
	if err := form.SetGame(i, *game); err != nil {
		return err
	}
	for n, c := range entry.Copies {
		key := "0"
		if n > 0 {
			if key, err = form.AddExemplar(i); err != nil {
				return err
			}
		}
		price := game.Price
		if c.Price != nil {
			price = *c.Price
		}
		if err := form.SetExemplar(i, key, price, c.State); err != nil {
			return err
		}
	}
	return nil
}

func runSell(ctx context.Context, a *app, args []string) error {
	fs := newFlags("sell")
	sessionRaw := fs.String("session", "", "active session id")
	sellerRaw := fs.String("seller", "", "seller id")
	buyerRaw := fs.String("buyer", "", "optional buyer id")
	var items repeated
	fs.Var(&items, "item", "deposit-game-id[=quantity] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sessionID, err := parseRequiredUUID("session", *sessionRaw)
	if err != nil {
		return err
	}
	sellerID, err := parseRequiredUUID("seller", *sellerRaw)
	if err != nil {
		return err
	}
	buyerID, err := parseOptionalUUID("buyer", *buyerRaw)
	if err != nil {
		return err
	}

	wizard := salewizard.New(salewizard.FromClient(a.api))
	if err := wizard.Start(ctx); err != nil {
		return err
	}
	if err := wizard.SelectSession(ctx, sessionID); err != nil {
		return err
	}
	if err := wizard.SelectSeller(ctx, sellerID); err != nil {
		return err
	}
	if err := wizard.SelectBuyer(buyerID); err != nil {
		return err
	}
	if err := wizard.Next(); err != nil {
		return err
	}
	for _, raw := range items {
		item, err := parseItem(raw)
		if err != nil {
			return err
		}
		if wizard.Quantity(item.DepositGameID) == 0 {
			if err := wizard.Toggle(item.DepositGameID); err != nil {
				return fmt.Errorf("%s: %w", item.DepositGameID, err)
			}
		}
		if !wizard.SetQuantity(item.DepositGameID, item.Quantity) {
			return fmt.Errorf("%s: quantité %d indisponible", item.DepositGameID, item.Quantity)
		}
	}
	if err := wizard.Next(); err != nil {
		return err
	}

	tw := a.table()
	fmt.Fprintln(tw, "JEU\tQTÉ\tPRIX\tTOTAL")
	for _, line := range wizard.Lines() {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", depositGameName(line.DepositGame), line.Quantity,
			line.DepositGame.Price.StringFixed(2), line.Total().StringFixed(2))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", wizard.Total().StringFixed(2))
	tw.Flush()

	sale, err := wizard.Confirm(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "vente %s enregistrée (%s)\n", sale.ID, sale.SaleStatus)
	return nil
}

func runBalance(ctx context.Context, a *app, args []string) error {
	fs := newFlags("balance")
	sessionRaw := fs.String("session", "", "session id")
	sellerRaw := fs.String("seller", "", "seller id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	sessionID, err := parseRequiredUUID("session", *sessionRaw)
	if err != nil {
		return err
	}
	sellerID, err := parseOptionalUUID("seller", *sellerRaw)
	if err != nil {
		return err
	}

	var balance *types.Balance
	if sellerID != nil {
		balance, err = a.api.Finance.SellerBalance(ctx, sessionID, *sellerID)
	} else {
		balance, err = a.api.Finance.SessionBalance(ctx, sessionID)
	}
	if err != nil {
		return err
	}
	tw := a.table()
	defer tw.Flush()
	fmt.Fprintf(tw, "frais de dépôt\t%s\n", balance.TotalDepositFees.StringFixed(2))
	fmt.Fprintf(tw, "ventes\t%s\n", balance.TotalSales.StringFixed(2))
	fmt.Fprintf(tw, "commissions\t%s\n", balance.TotalCommission.StringFixed(2))
	fmt.Fprintf(tw, "bénéfice\t%s\n", balance.TotalBenef.StringFixed(2))
	return nil
}

func runInvoice(ctx context.Context, a *app, args []string) error {
	fs := newFlags("invoice")
	saleRaw := fs.String("sale", "", "sale id")
	out := fs.String("out", "", "output file (defaults to the server file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	saleID, err := parseRequiredUUID("sale", *saleRaw)
	if err != nil {
		return err
	}
	file, err := a.api.Invoices.Download(ctx, saleID)
	if err != nil {
		return err
	}
	return a.save(file, *out, "facture-"+saleID.String()[:8]+".pdf")
}

func runLabels(ctx context.Context, a *app, args []string) error {
	fs := newFlags("labels")
	depositRaw := fs.String("deposit", "", "deposit id")
	out := fs.String("out", "", "output file (defaults to the server file name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	depositID, err := parseRequiredUUID("deposit", *depositRaw)
	if err != nil {
		return err
	}
	file, err := a.api.Deposits.Labels(ctx, depositID)
	if err != nil {
		return err
	}
	return a.save(file, *out, "etiquettes-"+depositID.String()[:8]+".pdf")
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("import")
	path := fs.String("file", "", "CSV file with name, publisher, price columns")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("-file est requis")
	}
	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := a.api.CSVImport.ImportGames(ctx, filepath.Base(*path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "créés: %d, mis à jour: %d, ignorés: %d\n", result.Created, result.Updated, result.Skipped)
	for _, msg := range result.Errors {
		fmt.Fprintln(a.stdout, "  "+msg)
	}
	return nil
}

func (a *app) save(file *client.File, out, fallback string) error {
	name := out
	if name == "" {
		name = file.Filename
	}
	if name == "" {
		name = fallback
	}
	if err := os.WriteFile(name, file.Content, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s (%d octets)\n", name, len(file.Content))
	return nil
}

func depositGameName(row types.DepositGame) string {
	if row.Game != nil {
		return row.Game.Name
	}
	return row.ID.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
