package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

// TokenConfig defines the signing parameters for session tokens. The user
// and admin secrets must differ: they are separate trust domains and the
// role check below depends on it.
type TokenConfig struct {
	UserSecret  string
	AdminSecret string
	// TTL of zero issues tokens without expiry.
	TTL    time.Duration
	Issuer string
}

// TokenService issues and verifies stateless role-scoped session tokens.
// Verification is a pure function of (token, secret); no state is kept and
// nothing is memoized.
type TokenService struct {
	config TokenConfig
}

// NewTokenService constructs a TokenService instance.
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{config: config}
}

func (s *TokenService) secretFor(role models.Role) ([]byte, error) {
	switch role {
	case models.RoleUser:
		return []byte(s.config.UserSecret), nil
	case models.RoleAdmin:
		return []byte(s.config.AdminSecret), nil
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}
}

// Issue signs a session token for the identity under the role's secret.
func (s *TokenService) Issue(identityID string, role models.Role) (string, error) {
	secret, err := s.secretFor(role)
	if err != nil {
		return "", err
	}

	issuedAt := time.Now().UTC()
	claims := &models.TokenClaims{
		IdentityID: identityID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.config.Issuer,
			Subject:  identityID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
	}
	if s.config.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(s.config.TTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token against the secret of the required role. A token
// issued for the other role fails the signature check; a forged role claim
// that somehow survives it fails the explicit role comparison.
func (s *TokenService) Verify(raw string, role models.Role) (*models.TokenClaims, error) {
	secret, err := s.secretFor(role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid token")
	}

	token, err := jwt.ParseWithClaims(raw, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid token claims")
	}

	if claims.Role != role {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token role mismatch")
	}

	return claims, nil
}
