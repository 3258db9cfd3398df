package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// fakeJWKSClient returns canned claims or an error.
type fakeJWKSClient struct {
	claims *Claims
	err    error
}

func (f *fakeJWKSClient) ValidateToken(tokenString string) (*Claims, error) {
	return f.claims, f.err
}

func (f *fakeJWKSClient) Close() {}

func TestRequireAuthMissingHeader(t *testing.T) {
	svc := NewAuthService(&fakeJWKSClient{}, zap.NewNop())
	mw := NewMiddleware(svc, zap.NewNop())

	called := false
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if called {
		t.Error("handler must not run without credentials")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Errorf("WWW-Authenticate = %q, want Bearer", rec.Header().Get("WWW-Authenticate"))
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("401 body is not JSON: %v", err)
	}
	if body["detail"] == "" {
		t.Error("401 body missing detail")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	svc := NewAuthService(&fakeJWKSClient{err: errors.New("signature invalid")}, zap.NewNop())
	mw := NewMiddleware(svc, zap.NewNop())

	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run with a bad token")
	})

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuthSetsUser(t *testing.T) {
	claims := &Claims{Email: "alice@example.com"}
	claims.Subject = "user-1"
	svc := NewAuthService(&fakeJWKSClient{claims: claims}, zap.NewNop())
	mw := NewMiddleware(svc, zap.NewNop())

	var got *models.AuthUser
	handler := mw.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUser(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.ID != "user-1" || got.Email != "alice@example.com" {
		t.Errorf("user in context = %+v", got)
	}
}

func TestValidateRequestHeaderFormats(t *testing.T) {
	svc := NewAuthService(&fakeJWKSClient{claims: &Claims{}}, zap.NewNop())

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"missing header", "", ErrMissingAuthorization},
		{"wrong scheme", "Basic abc123", ErrInvalidAuthFormat},
		{"no token", "Bearer", ErrInvalidAuthFormat},
		{"well formed", "Bearer abc123", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			_, err := svc.ValidateRequest(req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateRequest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
