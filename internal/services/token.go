package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminTokenTTL keeps dashboard sessions short; the frontend signs in
// again when a request comes back 401.
const adminTokenTTL = 12 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// TokenService issues and verifies the HS256 tokens used by the admin
// dashboard and the admin websocket feed.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

type adminClaims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

// IssueAdminToken signs a token for an authenticated admin.
func (s *TokenService) IssueAdminToken(adminID, email string) (string, error) {
	now := time.Now()
	claims := adminClaims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			Issuer:    "portfolio-backend",
			Audience:  jwt.ClaimStrings{email},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyAdminToken parses the token and returns the admin ID. Tokens
// without the admin claim are rejected even when the signature holds.
func (s *TokenService) VerifyAdminToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &adminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*adminClaims)
	if !ok || !claims.Admin {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
