package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

// echoUser writes the user id found in the context, or "anonymous".
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		id = "anonymous"
	}
	w.Write([]byte(id))
})

func TestJWTAuth(t *testing.T) {
	verifier := fakeVerifier{"good-token": "user-1"}
	handler := JWTAuth(verifier)(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		wantError  string
	}{
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized, wantError: "missing authorization header"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized, wantError: "invalid authorization format"},
		{name: "empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantError: "invalid authorization format"},
		{name: "lower case scheme", header: "bearer good-token", wantStatus: http.StatusUnauthorized, wantError: "invalid authorization format"},
		{name: "invalid token", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantError: "invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type = %q, want application/json", ct)
				}
			}
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	verifier := fakeVerifier{"good-token": "user-1"}
	handler := OptionalJWTAuth(verifier)(echoUser)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "no header is anonymous", header: "", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK, wantBody: "user-1"},
		{name: "invalid token rejected", header: "Bearer forged", wantStatus: http.StatusUnauthorized},
		{name: "bad format rejected", header: "Token abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUserIDFromContextEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Error("UserIDFromContext() ok = true on a bare context")
	}
	if _, ok := UserIDFromContext(WithUserID(req.Context(), "")); ok {
		t.Error("UserIDFromContext() ok = true for an empty user id")
	}
	if id, ok := UserIDFromContext(WithUserID(req.Context(), "user-1")); !ok || id != "user-1" {
		t.Errorf("UserIDFromContext() = %q, %v", id, ok)
	}
}
