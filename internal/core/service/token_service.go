package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/formgate/accounts-api/internal/core/domain"
	"github.com/formgate/accounts-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// TokenService issues and verifies HS256 bearer tokens. The signing secret is
// injected once at construction and never changes at runtime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the account id, optional roles, and iat/exp.
func (s *TokenService) Issue(claims ports.TokenClaims) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"id":  claims.ID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	if len(claims.Roles) > 0 {
		roles := make([]string, len(claims.Roles))
		for i, r := range claims.Roles {
			roles[i] = string(r)
		}
		mapClaims["roles"] = roles
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry. Malformed, expired and mis-signed
// tokens all collapse into domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &ports.TokenClaims{ID: id}
	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if name, ok := r.(string); ok {
				if role := domain.Role(name); role.Valid() {
					out.Roles = append(out.Roles, role)
				}
			}
		}
	}
	return out, nil
}

var _ ports.TokenService = (*TokenService)(nil)
