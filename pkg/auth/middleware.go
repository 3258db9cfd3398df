package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// RequireAuth validates the bearer token and stores the verified user in the
// request context. Requests without a valid token are rejected before the
// wrapped handler runs.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authService.ValidateRequest(r)
		if err != nil {
			m.unauthorized(w, "Authentication required")
			return
		}

		next(w, r.WithContext(SetUser(r.Context(), user)))
	}
}

// unauthorized returns a 401 response with a bearer challenge and JSON body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"detail": message,
	})
}
