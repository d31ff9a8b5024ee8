// Package jwtx issues and verifies the stateless session tokens returned by
// the auth endpoints. Tokens are HS256 JWTs signed with a single process-wide
// secret; nothing is persisted server-side and there is no revocation.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwellhq/inkwell/pkg/idx"
)

// DefaultSessionTTL is the default lifetime for session tokens. Long-lived
// compared to typical access tokens since there is no refresh flow.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken covers every verification failure: malformed input,
	// bad signature, wrong issuer, expired. Handlers only need one branch.
	ErrInvalidToken = errors.New("jwtx: invalid token")
)

// Claims are the session token claims. The subject (user ID) is the only
// claim downstream handlers trust.
type Claims struct {
	jwt.RegisteredClaims
}

// Signer mints session tokens bound to a subject.
type Signer interface {
	Sign(subject string) (string, error)
}

// Verifier validates a token string and returns its claims if legitimate.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a shared secret. It implements both
// Signer and Verifier.
type HS256 struct {
	secret []byte
	issuer string
	ttl    time.Duration

	now func() time.Time // overridable for tests
}

// NewHS256 builds an HS256 signer/verifier. A ttl of zero produces tokens
// without an exp claim.
func NewHS256(secret []byte, issuer string, ttl time.Duration) (*HS256, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty signing secret")
	}
	return &HS256{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// Sign issues a token whose sub claim is the given subject.
func (s *HS256) Sign(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("jwtx: empty subject")
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
			// iat has second granularity; the jti keeps tokens issued
			// back-to-back for the same subject distinct.
			ID: idx.New().String(),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates tokenStr. Any failure is reported as
// ErrInvalidToken so callers cannot leak the distinction to clients.
func (s *HS256) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return Claims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return *claims, nil
}
