package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. The controller layer maps all three to 401.
var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedClaims  = errors.New("token claims malformed")
)

// Claims is the payload carried by every access token. Subject is the
// account identifier (email when present, phone otherwise).
type Claims struct {
	Role   string `json:"role"`
	UserID int64  `json:"user_id"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256 access tokens. The signing key is
// process-wide configuration; tokens signed under a different key never
// verify.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService returns a token service signing with secret, issuing tokens
// valid for ttl.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a token for the given subject, role and account id. Expiry is
// now + the configured TTL.
func (s *Service) Issue(subject, role string, userID int64) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string. Returns ErrTokenExpired for
// tokens past their expiry, ErrMalformedClaims when the subject claim is
// absent, and ErrInvalidSignature for every other defect. Never panics on
// untrusted input.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidSignature
	}
	if claims.Subject == "" {
		return nil, ErrMalformedClaims
	}
	return claims, nil
}
