package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/memberly/portal/internal/api/session"
)

// Asset namespaces served without authentication.
var publicPrefixes = []string{"/css/", "/js/", "/img/", "/scss/", "/vendor/"}

// Entry points and operational probes reachable anonymously. Everything
// not listed here requires an established session.
var publicPaths = map[string]struct{}{
	"/":             {},
	"/login":        {},
	"/register":     {},
	"/health":       {},
	"/health/ready": {},
	"/metrics":      {},
}

// AccessGate decides, per request and in this order: static-asset paths
// are anonymous, the public entry points are anonymous, and every other
// path requires a session identity. Unauthenticated requests to protected
// paths are redirected to the login entry point before any handler runs;
// authenticated ones proceed with the identity injected into the context.
//
// Role-based path restrictions are deliberately absent: roles are stored
// but not enforced per path.
func AccessGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A present identity is exposed on public paths too, so the
			// landing page can greet the user.
			identity, authenticated := session.Identity(c)
			if authenticated {
				c.Set(session.ContextIdentityKey, identity)
			}

			if isPublic(c.Request().URL.Path) {
				return next(c)
			}
			if !authenticated {
				return c.Redirect(http.StatusFound, "/login")
			}
			return next(c)
		}
	}
}

func isPublic(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	_, ok := publicPaths[path]
	return ok
}
