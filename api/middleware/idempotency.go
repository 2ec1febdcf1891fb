package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
)

const (
	idempotencyHeader = "Idempotency-Key"
	maxIdempotencyKey = 255
	replayTTL         = 24 * time.Hour
)

// Writes a cashier may resubmit after a network hiccup. Keys are
// "METHOD path" with no trailing slash; none of them carry URL params.
var replayable = map[string]time.Duration{
	"POST /sales":       replayTTL,
	"POST /deposits":    replayTTL,
	"POST /saleDetails": replayTTL,
}

// ReplayStore persists the first response seen for an idempotency key.
type ReplayStore interface {
	Lookup(ctx context.Context, key string) (string, bool, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	BodyHash    string `json:"body_hash"`
}

// Idempotency replays the stored response when a covered write is retried
// with the same Idempotency-Key. Requests without the header pass through,
// and 5xx responses are never stored so the caller can retry them.
func Idempotency(store ReplayStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, covered := replayTTLFor(r.Method, r.URL.Path)
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !covered || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotencyKey {
				responses.WriteError(ctx, logg, w, pkgerrors.Field(idempotencyHeader, "en-tête Idempotency-Key trop long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "lecture de la requête"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			sum := sha256.Sum256(body)
			bodyHash := hex.EncodeToString(sum[:])

			key := store.IdempotencyKey(UserIDFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, clientKey)
			raw, found, err := store.Lookup(ctx, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lecture de la clé d'idempotence"))
				return
			}
			if found {
				var prev storedResponse
				if err := json.Unmarshal([]byte(raw), &prev); err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "réponse mémorisée illisible"))
					return
				}
				if prev.BodyHash != bodyHash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "clé d'idempotence réutilisée avec un corps différent"))
					return
				}
				replay(w, prev)
				return
			}

			var captured bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&captured)
			next.ServeHTTP(ww, r)

			status := statusOf(ww)
			if status >= http.StatusInternalServerError {
				return
			}
			remember(ctx, logg, store, key, ttl, storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
				BodyHash:    bodyHash,
			})
		})
	}
}

func replayTTLFor(method, path string) (time.Duration, bool) {
	path = strings.TrimSuffix(path, "/")
	ttl, ok := replayable[method+" "+path]
	return ttl, ok
}

func replay(w http.ResponseWriter, prev storedResponse) {
	if prev.ContentType != "" {
		w.Header().Set("Content-Type", prev.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(prev.Status)
	_, _ = w.Write(prev.Body)
}

// remember only logs on failure: the write itself already succeeded.
func remember(ctx context.Context, logg *logger.Logger, store ReplayStore, key string, ttl time.Duration, resp storedResponse) {
	payload, err := json.Marshal(resp)
	if err == nil {
		_, err = store.SetNX(ctx, key, string(payload), ttl)
	}
	if err != nil && logg != nil {
		logg.Error(ctx, "idempotency record not stored", err)
	}
}
