package middleware

import (
	"net/http"
	"strings"

	"loanpap/internal/domain/user"

	"github.com/labstack/echo/v4"
)

const callerKey = "caller"

type TokenParser interface {
	ParseAccess(raw string) (user.Caller, error)
}

func bearer(c echo.Context) (string, bool) {
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// JWT requires a valid bearer access token and stores the caller on the context.
func JWT(p TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed bearer token")
			}
			caller, err := p.ParseAccess(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

// OptionalJWT attaches the caller when a valid token is sent and lets anonymous requests through.
func OptionalJWT(p TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearer(c); ok {
				caller, err := p.ParseAccess(raw)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
				}
				c.Set(callerKey, caller)
			}
			return next(c)
		}
	}
}

// RequireRoles must run after JWT.
func RequireRoles(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := CallerFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, r := range roles {
				if caller.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		}
	}
}

func CallerFrom(c echo.Context) (user.Caller, bool) {
	caller, ok := c.Get(callerKey).(user.Caller)
	return caller, ok
}

// SetCaller is used by handlers' tests to skip token parsing.
func SetCaller(c echo.Context, caller user.Caller) { c.Set(callerKey, caller) }
