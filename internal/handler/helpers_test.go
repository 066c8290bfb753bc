package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/middleware"
	"github.com/shopverse/shopverse/internal/service"
	"github.com/shopverse/shopverse/internal/session"
	"github.com/shopverse/shopverse/internal/testutil/fakes"
)

var testHasher = auth.Hasher{Params: auth.Params{Time: 1, Memory: 8, Threads: 1, KeyLen: 16, SaltLen: 8}}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// apiEnv is the full router backed by in-memory storage.
type apiEnv struct {
	router   http.Handler
	users    *fakes.Users
	orders   *fakes.Orders
	sessions *session.MemoryStore
	metrics  *metrics.InMemoryRecorder
}

// newAPIEnv builds the router; opts adjust the router config before it is built.
func newAPIEnv(t *testing.T, opts ...func(*RouterConfig)) *apiEnv {
	t.Helper()

	logger := discardLogger()
	users := fakes.NewUsers()
	orders := fakes.NewOrders()
	sessions := session.NewMemoryStore(time.Hour)
	recorder := metrics.NewInMemory()

	verifier := auth.NewVerifier(users, auth.VerifierOptions{Hasher: testHasher})
	authSvc := service.NewAuthService(users, sessions, verifier, testHasher, logger, recorder)
	profileSvc := service.NewProfileService(users, testHasher, logger, recorder)
	orderSvc := service.NewOrderService(orders, logger, recorder)

	cookie := session.CookieOptions{}
	security := middleware.DefaultSecurityConfig()
	security.IsDevelopment = true

	cfg := RouterConfig{
		Logger:  logger,
		Root:    New(logger),
		Health:  NewHealthHandler(nil, nil, logger),
		Auth:    NewAuthHandler(authSvc, cookie, logger),
		Profile: NewProfileHandler(profileSvc, logger),
		Orders:  NewOrderHandler(orderSvc, logger),
		Metrics: NewMetricsHandler(recorder),
		Session: middleware.SessionConfig{
			Logger:        logger,
			Authenticator: authSvc,
			Cookie:        cookie,
		},
		RateLimit: middleware.RateLimitConfig{Logger: logger},
		Security:  security,
		CORS:      middleware.DefaultCORSConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	router := NewRouter(cfg)

	return &apiEnv{
		router:   router,
		users:    users,
		orders:   orders,
		sessions: sessions,
		metrics:  recorder,
	}
}

func (e *apiEnv) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register signs up a user and returns the issued session cookie.
func (e *apiEnv) register(t *testing.T, name, email, password string) (*http.Cookie, map[string]any) {
	t.Helper()

	body := `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`
	rec := e.do(t, http.MethodPost, "/auth?action=register", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	c := sessionCookie(rec)
	require.NotNil(t, c, "register must issue a session cookie")
	return c, env.object(t)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) object(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(e.Data, &m))
	return m
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}
