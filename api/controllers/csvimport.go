package controllers

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	"github.com/angelmondragon/depotvente-backend/internal/csvimport"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
	"github.com/angelmondragon/depotvente-backend/pkg/metrics"
)

const csvFormField = "file"

// CSVImportGames reads the multipart "file" field and upserts its rows into
// the catalogue. Row errors come back in the result with a 200.
func CSVImportGames(svc csvimport.Service, maxBytes int64, domain *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "csv import service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "fichier trop volumineux").
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "formulaire multipart invalide"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, _, err := r.FormFile(csvFormField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "fichier CSV manquant"))
			return
		}
		defer file.Close()

		result, err := svc.ImportGames(r.Context(), file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		domain.ImportRows(result.Created, result.Updated, result.Skipped)
		responses.WriteSuccess(w, result)
	}
}
