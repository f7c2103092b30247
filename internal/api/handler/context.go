package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kannammal-agro/pricing-system/internal/api/middleware"
	"github.com/kannammal-agro/pricing-system/internal/core/domain"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and fast-fails before any service call: presence proves the middleware
// ran, and a non-superuser actor with no role is operationally unusable.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := c.Get(middleware.ActorContextKey).(domain.Actor)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	if actor.Role == "" && !actor.IsSuperuser {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing role")
	}
	return actor, nil
}
