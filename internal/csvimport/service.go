package csvimport

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/depotvente-backend/internal/games"
	pkgdb "github.com/angelmondragon/depotvente-backend/pkg/db"
	"github.com/angelmondragon/depotvente-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/types"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

var (
	requiredColumns = []string{"name", "publisher"}
	knownColumns    = []string{"name", "publisher", "price", "picture", "description"}
)

// Service imports a games catalogue from CSV.
type Service interface {
	// ImportGames upserts one game per row, keyed by (name, publisher).
	// Row errors are collected in the result; only an unreadable file or a
	// bad header fails the whole import.
	ImportGames(ctx context.Context, r io.Reader) (*types.ImportResult, error)
}

type gameStore interface {
	FindByNamePublisher(ctx context.Context, name, publisher string) (*models.Game, error)
	Create(ctx context.Context, game *models.Game) error
	Update(ctx context.Context, game *models.Game) error
}

type service struct {
	games gameStore
}

func NewService(store gameStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("games repository required")
	}
	return &service{games: store}, nil
}

func (s *service) ImportGames(ctx context.Context, r io.Reader) (*types.ImportResult, error) {
	buffered := bufio.NewReader(r)
	separator, err := detectSeparator(buffered)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "fichier CSV illisible")
	}

	reader := csv.NewReader(buffered)
	reader.Comma = separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "le fichier CSV est vide")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "en-tête CSV illisible")
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	result := &types.ImportResult{Errors: []string{}}
	var rowErrs error
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("ligne %d: %v", line, err))
			continue
		}
		if blank(record) {
			continue
		}

		created, err := s.importRow(ctx, columns, record, separator)
		if err != nil {
			result.Skipped++
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("ligne %d: %s", line, message(err)))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	for _, err := range multierr.Errors(rowErrs) {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

func (s *service) importRow(ctx context.Context, columns map[string]int, record []string, separator rune) (bool, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	game := &models.Game{
		Name:        field("name"),
		Publisher:   field("publisher"),
		Picture:     optional(field("picture")),
		Description: optional(field("description")),
	}
	price, err := parsePrice(field("price"), separator)
	if err != nil {
		return false, err
	}
	game.Price = price
	if err := games.Validate(game); err != nil {
		return false, err
	}

	existing, err := s.games.FindByNamePublisher(ctx, game.Name, game.Publisher)
	switch {
	case err == nil:
		existing.Price = game.Price
		if game.Picture != nil {
			existing.Picture = game.Picture
		}
		if game.Description != nil {
			existing.Description = game.Description
		}
		if err := s.games.Update(ctx, existing); err != nil {
			return false, err
		}
		return false, nil
	case pkgdb.IsNotFound(err):
		if err := s.games.Create(ctx, game); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

// detectSeparator picks ';' when the header line holds one, ',' otherwise.
func detectSeparator(r *bufio.Reader) (rune, error) {
	peek, err := r.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}
	firstLine := string(peek)
	if i := strings.IndexAny(firstLine, "\r\n"); i >= 0 {
		firstLine = firstLine[:i]
	}
	if strings.Contains(firstLine, ";") {
		return ';', nil
	}
	return ',', nil
}

func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff")))
		for _, known := range knownColumns {
			if name == known {
				columns[name] = i
			}
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("colonne %q manquante dans l'en-tête", required))
		}
	}
	return columns, nil
}

// parsePrice accepts "12.50", and "12,50" in semicolon files.
func parsePrice(raw string, separator rune) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "€"))
	if separator == ';' {
		value = strings.ReplaceAll(value, ",", ".")
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("prix %q invalide", raw)
	}
	return price.Round(2), nil
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func blank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func message(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
