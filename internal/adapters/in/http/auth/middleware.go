package auth

import (
	"net/http"
	"slices"
	"strings"

	"empi/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

const (
	actorKey  = "auth.actor"
	claimsKey = "auth.claims"
)

// Middleware rejects requests without a valid, unrevoked bearer token and
// stores the caller's actor on the echo context.
func Middleware(tokens *Tokens, revoked *RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}
			if revoked.IsRevoked(claims.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked").SetInternal(ErrTokenRevoked)
			}

			actor, err := claims.Actor()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.Set(actorKey, actor)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// RequireRole lets only the listed roles through. It must run after
// Middleware.
func RequireRole(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok || !slices.Contains(roles, actor.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "role is not allowed")
			}
			return next(c)
		}
	}
}

func ActorFrom(c echo.Context) (kernel.Actor, bool) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	return actor, ok
}

func ClaimsFrom(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok
}
