package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kannammal-agro/pricing-system/internal/core/domain"
	"github.com/kannammal-agro/pricing-system/internal/core/ports"
)

// ActorContextKey is where the authenticated actor is stored on the echo
// context.
const ActorContextKey = "actor"

// Auth validates the JWT and injects the authenticated domain.Actor into the
// context. When an actor repository is supplied the actor is re-read from
// the store so role, firm and scope changes take effect before token expiry;
// otherwise the actor is rebuilt from the token claims.
func Auth(jwtSecret string, actors ports.ActorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actorID, _ := claims["sub"].(string)
			if actorID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing actor identity")
			}

			if actors != nil {
				if stored, findErr := actors.FindByID(c.Request().Context(), actorID); findErr == nil {
					c.Set(ActorContextKey, *stored)
					return next(c)
				}
			}

			actor := domain.Actor{ID: actorID}
			actor.Username, _ = claims["username"].(string)
			if role, ok := claims["role"].(string); ok {
				actor.Role = domain.Role(role)
			}
			actor.FirmCode, _ = claims["firm_code"].(string)
			actor.IsSuperuser, _ = claims["is_superuser"].(bool)

			c.Set(ActorContextKey, actor)
			return next(c)
		}
	}
}
