package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signTestToken builds a signed token for dev-mode parsing. The signature
// is never checked when verification is disabled.
func signTestToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestValidateTokenDevMode(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	claims := &Claims{Email: "alice@example.com"}
	claims.Subject = "user-1"
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))

	got, err := client.ValidateToken(signTestToken(t, claims))
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if got.Subject != "user-1" || got.Email != "alice@example.com" {
		t.Errorf("claims = %+v", got)
	}
}

func TestValidateTokenRequiredClaims(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	tests := []struct {
		name    string
		claims  *Claims
		wantMsg string
	}{
		{
			name:    "missing subject",
			claims:  &Claims{Email: "alice@example.com"},
			wantMsg: "sub claim",
		},
		{
			name: "missing email",
			claims: func() *Claims {
				c := &Claims{}
				c.Subject = "user-1"
				return c
			}(),
			wantMsg: "email claim",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ValidateToken(signTestToken(t, tt.claims))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ValidateToken() error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	client, err := NewJWKSClient(&JWKSConfig{EnableVerification: false})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.ValidateToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}
