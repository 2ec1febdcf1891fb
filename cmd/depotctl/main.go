// Command depotctl drives the depot-sale API from a terminal: sign in, browse
// the catalogue, record deposits and sales, and fetch documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/depotvente-backend/pkg/client"
	"github.com/angelmondragon/depotvente-backend/pkg/config"
)

type command struct {
	summary string
	run     func(ctx context.Context, app *app, args []string) error
}

var commands = map[string]command{
	"login":    {"sign in: -surface admin|gestionnaire -email -password", runLogin},
	"logout":   {"close the current session", runLogout},
	"whoami":   {"print the signed-in account", runWhoami},
	"list":     {"list sellers|buyers|games|sessions|deposits|sales", runList},
	"stocks":   {"stock grouped by game then seller: [-session] [-game]", runStocks},
	"deposit":  {"record a deposit: -session -seller -game id=price:state,... [-game ...]", runDeposit},
	"sell":     {"record a sale: -session -seller [-buyer] -item depositGameId=qty [-item ...]", runSell},
	"balance":  {"financial summary: -session [-seller]", runBalance},
	"invoice":  {"download a sale invoice: -sale [-out]", runInvoice},
	"labels":   {"download deposit labels: -deposit [-out]", runLabels},
	"import":   {"import games from a CSV file: -file", runImport},
	"delete":   {"delete sellers|buyers|games|sessions|deposits: -id [-id ...]", runDelete},
}

// anonymous commands run without a stored identity.
var anonymous = map[string]bool{"login": true, "logout": true}

type app struct {
	api    *client.Client
	stdout io.Writer
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	if _, ok := commands[os.Args[1]]; !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.dispatch(ctx, os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, client.ErrLoginRequired) {
			fmt.Fprintln(os.Stderr, "session expirée ou absente: lancez `depotctl login`")
			os.Exit(3)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// dispatch runs the named command, refusing every non-anonymous one until a
// login has stored a usable token.
func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if !anonymous[name] {
		if _, err := a.api.Auth.RequireIdentity(); err != nil {
			return err
		}
	}
	return cmd.run(ctx, a, args)
}

func newApp(cfg *config.ClientConfig, stdout io.Writer) (*app, error) {
	path := cfg.TokenPath
	if path == "" {
		path = client.DefaultTokenPath()
	}
	tokens, err := client.NewFileTokenStore(path)
	if err != nil {
		return nil, err
	}
	api, err := client.New(cfg.BaseURL, client.WithTokenStore(tokens))
	if err != nil {
		return nil, err
	}
	return &app{api: api, stdout: stdout}, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: depotctl <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}
