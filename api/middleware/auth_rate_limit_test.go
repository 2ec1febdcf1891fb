package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/depotvente-backend/pkg/errors"
)

type memoryCounters struct {
	mu   sync.Mutex
	hits map[string]int64
	err  error
}

func newMemoryCounters() *memoryCounters {
	return &memoryCounters{hits: map[string]int64{}}
}

func (m *memoryCounters) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits[key]++
	return m.hits[key], nil
}

func (m *memoryCounters) RateLimitKey(scope string) string {
	return "rl:" + scope
}

func loginAttempt(t *testing.T, h http.Handler, remote, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/gestionnaire/login", strings.NewReader(body))
	if remote != "" {
		req.RemoteAddr = remote
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestLoginThrottleRestoresBody(t *testing.T) {
	store := newMemoryCounters()
	h := LoginThrottle(store, LoginLimits{Window: time.Minute, PerIP: 2, PerEmail: 2}, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), `"email":"lea@depot.fr"`)
			w.WriteHeader(http.StatusOK)
		}))

	rec := loginAttempt(t, h, "1.2.3.4:5678", `{"email":"lea@depot.fr","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.hits, 2)
}

func TestLoginThrottleBlocksPerEmail(t *testing.T) {
	h := LoginThrottle(newMemoryCounters(), LoginLimits{Window: time.Minute, PerEmail: 2}, nil)(okHandler())

	for i := 0; i < 2; i++ {
		rec := loginAttempt(t, h, "1.2.3.4:5678", `{"email":"bloque@depot.fr","password":"x"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := loginAttempt(t, h, "9.9.9.9:1", `{"email":"bloque@depot.fr","password":"x"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), payload.Error.Code)
}

func TestLoginThrottleBlocksPerIP(t *testing.T) {
	h := LoginThrottle(newMemoryCounters(), LoginLimits{Surface: "admin", Window: time.Minute, PerIP: 1}, nil)(okHandler())

	assert.Equal(t, http.StatusOK, loginAttempt(t, h, "5.6.7.8:1234", `{"email":"a@depot.fr"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, loginAttempt(t, h, "5.6.7.8:999", `{"email":"b@depot.fr"}`).Code)
}

func TestLoginThrottleNormalizesEmail(t *testing.T) {
	store := newMemoryCounters()
	h := LoginThrottle(store, LoginLimits{Window: time.Minute, PerEmail: 1}, nil)(okHandler())

	loginAttempt(t, h, "", `{"email":"Admin@Depot.fr ","password":"x"}`)
	rec := loginAttempt(t, h, "", `{"email":"admin@depot.fr","password":"y"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Len(t, store.hits, 1)
}

func TestLoginThrottleStoreFailureIsDependencyError(t *testing.T) {
	store := newMemoryCounters()
	store.err = errors.New("redis down")
	h := LoginThrottle(store, LoginLimits{Window: time.Minute, PerIP: 5}, nil)(okHandler())

	rec := loginAttempt(t, h, "1.1.1.1:1", `{}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginThrottleDisabledWithoutWindow(t *testing.T) {
	store := newMemoryCounters()
	h := LoginThrottle(store, LoginLimits{PerIP: 1, PerEmail: 1}, nil)(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, loginAttempt(t, h, "1.1.1.1:1", `{"email":"x@depot.fr"}`).Code)
	}
	assert.Empty(t, store.hits)
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/admin/login", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.1", clientIP(req))
}
