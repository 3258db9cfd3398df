package auth

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Ankita1800/chatdb-engine/pkg/models"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
)

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and authentication logic, making both easier to test.
type AuthService interface {
	// ValidateRequest extracts and validates a bearer token from the
	// Authorization header. Returns the verified user or an error.
	ValidateRequest(r *http.Request) (*models.AuthUser, error)
}

// authService implements AuthService.
type authService struct {
	jwksClient JWKSClientInterface
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService with the given JWKS client and logger.
func NewAuthService(jwksClient JWKSClientInterface, logger *zap.Logger) AuthService {
	return &authService{
		jwksClient: jwksClient,
		logger:     logger,
	}
}

// ValidateRequest extracts and validates a bearer token from the request.
func (s *authService) ValidateRequest(r *http.Request) (*models.AuthUser, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No bearer token in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	claims, err := s.jwksClient.ValidateToken(parts[1])
	if err != nil {
		s.logger.Debug("Bearer token validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, err
	}

	return claims.User(), nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
