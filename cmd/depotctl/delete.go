package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
)

func runDelete(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: depotctl delete sellers|buyers|games|sessions|deposits -id <id> [-id ...]")
	}
	fs := newFlags("delete " + args[0])
	var raw repeated
	fs.Var(&raw, "id", "record id (repeatable)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if len(raw) == 0 {
		return errors.New("-id est requis")
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseRequiredUUID("id", r)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	switch args[0] {
	case "sellers":
		list := client.NewCollection(
			func(ctx context.Context) ([]types.Seller, error) { return a.api.Sellers.List(ctx, client.SellerQuery{}) },
			func(s types.Seller) uuid.UUID { return s.ID },
		)
		return removeAll(ctx, a, list, ids, a.api.Sellers.Delete, func(s types.Seller) string { return s.Name })
	case "buyers":
		list := client.NewCollection(
			func(ctx context.Context) ([]types.Buyer, error) { return a.api.Buyers.List(ctx, "") },
			func(b types.Buyer) uuid.UUID { return b.ID },
		)
		return removeAll(ctx, a, list, ids, a.api.Buyers.Delete, func(b types.Buyer) string { return b.Name })
	case "games":
		list := client.NewCollection(
			func(ctx context.Context) ([]types.Game, error) { return a.api.Games.List(ctx, "") },
			func(g types.Game) uuid.UUID { return g.ID },
		)
		return removeAll(ctx, a, list, ids, a.api.Games.Delete, func(g types.Game) string { return g.Name })
	case "sessions":
		list := client.NewCollection(a.api.Sessions.List, func(s types.Session) uuid.UUID { return s.ID })
		return removeAll(ctx, a, list, ids, a.api.Sessions.Delete, func(s types.Session) string { return s.Name })
	case "deposits":
		list := client.NewCollection(
			func(ctx context.Context) ([]types.Deposit, error) { return a.api.Deposits.List(ctx, client.DepositQuery{}) },
			func(d types.Deposit) uuid.UUID { return d.ID },
		)
		return removeAll(ctx, a, list, ids, a.api.Deposits.Delete, func(d types.Deposit) string {
			return d.DepositDate.Format("2006-01-02") + " " + d.SellerID.String()
		})
	default:
		return fmt.Errorf("liste inconnue %q", args[0])
	}
}

// removeAll fetches the list once, then deletes each id through it. Unknown
// ids are refused before any call; a failed delete stops the run.
func removeAll[T any](ctx context.Context, a *app, list *client.Collection[T], ids []uuid.UUID, del func(context.Context, uuid.UUID) error, label func(T) string) error {
	if err := list.Load(ctx); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := list.Find(id); !ok {
			return fmt.Errorf("%s introuvable", id)
		}
	}
	for _, id := range ids {
		item, _ := list.Find(id)
		if err := list.Remove(ctx, id, func(ctx context.Context) error { return del(ctx, id) }); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "supprimé: %s\n", label(item))
	}
	fmt.Fprintf(a.stdout, "%d restant(s)\n", list.Len())
	return nil
}
