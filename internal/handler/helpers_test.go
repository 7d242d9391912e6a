package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chargehub/chargehub-go/internal/crypto"
	"github.com/chargehub/chargehub-go/internal/middleware"
	"github.com/chargehub/chargehub-go/internal/model"
	"github.com/chargehub/chargehub-go/internal/service"
)

const testSecret = "test-secret-with-enough-length-0123456789"

type testAPI struct {
	handler  http.Handler
	users    *memUserRepo
	stations *memStationRepo
	tokens   *crypto.TokenManager
}

type apiOptions struct {
	pingErr   error
	authRPS   float64
	authBurst int
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWith(t, apiOptions{authRPS: 1000, authBurst: 1000})
}

func newTestAPIWith(t *testing.T, opts apiOptions) *testAPI {
	t.Helper()

	logger := zap.NewNop()
	users := &memUserRepo{}
	stations := &memStationRepo{}
	hasher := crypto.NewPasswordHasher(crypto.HashParams{
		Memory:      1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	tokens := crypto.NewTokenManager(testSecret, time.Hour)

	limiter := middleware.NewRateLimiter(opts.authRPS, opts.authBurst, logger)
	t.Cleanup(limiter.Stop)

	h := NewRouter(RouterDeps{
		Auth:           NewAuthHandler(service.NewAuthService(users, hasher, tokens, logger), logger),
		Stations:       NewStationHandler(service.NewStationService(stations, logger), logger),
		Health:         NewHealthHandler(fakePinger{err: opts.pingErr}, logger),
		Verifier:       tokens,
		AuthLimiter:    limiter,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})

	return &testAPI{handler: h, users: users, stations: stations, tokens: tokens}
}

// do sends a request with an optional JSON body (a string is sent verbatim)
// and bearer token.
func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) signup(t *testing.T, name, email string) model.AuthResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": "secret123",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup %s: status = %d, body = %s", email, rec.Code, rec.Body.String())
	}
	var resp model.AuthResponse
	decodeBody(t, rec, &resp)
	return resp
}

func (a *testAPI) createStation(t *testing.T, token string, body map[string]any) model.StationResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/charging-stations", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create station: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp model.StationResponse
	decodeBody(t, rec, &resp)
	return resp
}

func stationBody() map[string]any {
	return map[string]any{
		"name":          "Downtown Hub",
		"location":      map[string]any{"lat": 52.52, "lng": 13.405},
		"status":        "Active",
		"powerOutput":   50,
		"connectorType": "CCS",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decodeBody(t, rec, &body)
	return body["error"]
}
