// Package session adapts cookie-backed HTTP sessions to the typed
// SessionIdentity the core works with. The session carries exactly one
// identity; anything else in the cookie is dropped on logout.
package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/memberly/portal/internal/core/domain"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "portal_session"

	keyUsername = "username"
	keyIssuedAt = "issued_at"
)

// ContextIdentityKey is the echo context key under which the AccessGate
// exposes the authenticated identity to handlers.
const ContextIdentityKey = "session.identity"

// NewCookieStore builds the signed cookie store backing all sessions.
func NewCookieStore(secret string, maxAge time.Duration) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	// MaxAge also propagates the age to the securecookie codecs.
	store.MaxAge(int(maxAge.Seconds()))
	return store
}

// Writer implements the core SessionWriter seam on top of the current
// request's session. Establish and Destroy each write the cookie once, so
// there is no half-authenticated window.
type Writer struct {
	c echo.Context
}

func NewWriter(c echo.Context) *Writer {
	return &Writer{c: c}
}

func (w *Writer) Establish(identity domain.SessionIdentity) error {
	sess, err := echosession.Get(CookieName, w.c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	sess.Values[keyUsername] = identity.Username
	sess.Values[keyIssuedAt] = identity.IssuedAt.Unix()
	return sess.Save(w.c.Request(), w.c.Response())
}

func (w *Writer) Destroy() error {
	sess, err := echosession.Get(CookieName, w.c)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	// MaxAge -1 expires the cookie client-side as well.
	sess.Options.MaxAge = -1
	return sess.Save(w.c.Request(), w.c.Response())
}

// Identity returns the identity stored in the current session, or false
// when the session is anonymous.
func Identity(c echo.Context) (domain.SessionIdentity, bool) {
	sess, err := echosession.Get(CookieName, c)
	if err != nil {
		return domain.SessionIdentity{}, false
	}

	username, ok := sess.Values[keyUsername].(string)
	if !ok || username == "" {
		return domain.SessionIdentity{}, false
	}

	identity := domain.SessionIdentity{Username: username}
	if ts, ok := sess.Values[keyIssuedAt].(int64); ok {
		identity.IssuedAt = time.Unix(ts, 0).UTC()
	}
	return identity, true
}

// FromContext returns the identity the AccessGate injected for this
// request, or false on public paths reached anonymously.
func FromContext(c echo.Context) (domain.SessionIdentity, bool) {
	identity, ok := c.Get(ContextIdentityKey).(domain.SessionIdentity)
	return identity, ok
}
