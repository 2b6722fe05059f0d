package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/ports"
)

// SuccessHandler is invoked exactly once per successful login with the
// established identity and returns the redirect target for the transport
// layer.
type SuccessHandler func(identity domain.SessionIdentity) string

// LoginEntryPoint is where rejected and logged-out sessions are sent.
const LoginEntryPoint = "/login"

// defaultSuccess sends every freshly authenticated session to the landing
// page.
func defaultSuccess(domain.SessionIdentity) string { return "/" }

// SessionAuthenticator orchestrates a login attempt: resolve the
// credential, compare the digest, and on success establish the session
// identity through the transport-provided SessionWriter.
type SessionAuthenticator struct {
	verifier  ports.CredentialVerifier
	hasher    ports.PasswordHasher
	onSuccess SuccessHandler
	log       zerolog.Logger
}

func NewSessionAuthenticator(verifier ports.CredentialVerifier, hasher ports.PasswordHasher, onSuccess SuccessHandler, log zerolog.Logger) *SessionAuthenticator {
	if onSuccess == nil {
		onSuccess = defaultSuccess
	}
	return &SessionAuthenticator{
		verifier:  verifier,
		hasher:    hasher,
		onSuccess: onSuccess,
		log:       log,
	}
}

// Login verifies the submitted credentials and, on success, establishes
// the session identity and returns the redirect target from the success
// handler.
//
// An unknown username and a digest mismatch both return
// domain.ErrInvalidCredentials: the two causes are never distinguishable
// to the caller, so failed logins cannot be used to enumerate usernames.
func (a *SessionAuthenticator) Login(ctx context.Context, sess ports.SessionWriter, username, password string) (string, error) {
	principal, err := a.verifier.Resolve(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPrincipal) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := a.hasher.Verify(password, principal.PasswordHash)
	if err != nil {
		// Corrupt stored digest. Log the real cause; the caller only
		// ever sees a generic failure.
		a.log.Error().Err(err).Str("username", username).Msg("stored digest unverifiable")
		return "", fmt.Errorf("verify credentials: %w", err)
	}
	if !ok {
		return "", domain.ErrInvalidCredentials
	}

	identity := domain.SessionIdentity{
		Username: principal.Username,
		IssuedAt: time.Now().UTC(),
	}
	if err := sess.Establish(identity); err != nil {
		return "", fmt.Errorf("establish session: %w", err)
	}

	a.log.Info().Str("username", identity.Username).Msg("login succeeded")
	return a.onSuccess(identity), nil
}

// Logout destroys the session identity and returns the login entry point
// as the redirect target. Logging out an anonymous session is harmless.
func (a *SessionAuthenticator) Logout(sess ports.SessionWriter) (string, error) {
	if err := sess.Destroy(); err != nil {
		return "", fmt.Errorf("destroy session: %w", err)
	}
	return LoginEntryPoint, nil
}
