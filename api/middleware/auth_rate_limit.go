package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/depotvente-backend/api/responses"
	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
	"github.com/angelmondragon/depotvente-backend/pkg/logger"
)

// CounterStore increments a windowed counter. The redis client satisfies it.
type CounterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// LoginLimits bounds login attempts per client address and per account email
// within a sliding window. A zero limit disables that dimension.
type LoginLimits struct {
	Surface  string
	Window   time.Duration
	PerIP    int
	PerEmail int
}

func (l LoginLimits) active() bool {
	return l.Window > 0 && (l.PerIP > 0 || l.PerEmail > 0)
}

func (l LoginLimits) surface() string {
	if s := strings.ToLower(strings.TrimSpace(l.Surface)); s != "" {
		return s
	}
	return "login"
}

// counter is one throttled dimension resolved for a given request.
type counter struct {
	dimension string
	subject   string
	limit     int
}

// LoginThrottle rejects login attempts with 429 once either counter exceeds
// its limit for the current window.
func LoginThrottle(store CounterStore, limits LoginLimits, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || !limits.active() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			counters, err := countersFor(r, limits)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "lecture de la requête"))
				return
			}

			for _, c := range counters {
				key := store.RateLimitKey(c.dimension + ":" + limits.surface() + ":" + c.subject)
				hits, err := store.IncrWithTTL(ctx, key, limits.Window)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "limitation des tentatives indisponible"))
					return
				}
				if hits > int64(c.limit) {
					throttled(ctx, logg, w, limits, c, hits)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// countersFor resolves the throttled dimensions. The body is buffered and
// restored so the login handler can decode it again.
func countersFor(r *http.Request, limits LoginLimits) ([]counter, error) {
	var out []counter
	if limits.PerIP > 0 {
		if ip := clientIP(r); ip != "" {
			out = append(out, counter{dimension: "ip", subject: ip, limit: limits.PerIP})
		}
	}
	if limits.PerEmail == 0 || r.Body == nil {
		return out, nil
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	var creds struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &creds) == nil {
		if email := strings.ToLower(strings.TrimSpace(creds.Email)); email != "" {
			sum := sha256.Sum256([]byte(email))
			out = append(out, counter{dimension: "email", subject: hex.EncodeToString(sum[:]), limit: limits.PerEmail})
		}
	}
	return out, nil
}

func throttled(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, limits LoginLimits, c counter, hits int64) {
	retry := int(limits.Window.Seconds())
	if logg != nil {
		fields := map[string]any{
			"surface":   limits.surface(),
			"dimension": c.dimension,
			"attempts":  hits,
			"limit":     c.limit,
		}
		if c.dimension == "ip" {
			fields["ip"] = c.subject
		} else {
			fields["email_hash"] = c.subject
		}
		logg.Warn(logg.WithFields(ctx, fields), "login throttled")
	}
	w.Header().Set("Retry-After", strconv.Itoa(retry))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "trop de tentatives de connexion, réessayez plus tard"))
}

// clientIP honours proxy headers before falling back to the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
