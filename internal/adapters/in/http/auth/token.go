// Package auth authenticates API callers with HS256 bearer tokens and maps
// them onto domain actors.
package auth

import (
	"errors"
	"fmt"
	"time"

	"empi/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Claims carries the caller role next to the registered claims. Subject is
// the actor id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims into a domain actor.
func (c Claims) Actor() (kernel.Actor, error) {
	role, err := kernel.ParseRole(c.Role)
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(role, c.Subject)
}

// Tokens issues and verifies tokens signed with one shared secret.
type Tokens struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token for actor valid for ttl. The CLI uses it to mint
// operator tokens.
func (t *Tokens) Issue(actor kernel.Actor, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		Role: actor.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies signature, expiry and issuer.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrTokenInvalid)
	}
	return claims, nil
}
