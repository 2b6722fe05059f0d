package ports

import (
	"context"

	"github.com/memberly/portal/internal/core/domain"
)

// PasswordHasher produces and verifies salted one-way password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch is a
	// normal false result; an error is returned only when the stored
	// digest itself is malformed (domain.ErrMalformedDigest).
	Verify(plaintext, digest string) (bool, error)
}

// PrincipalInfo is the verifiable credential resolved for a login attempt:
// the stored digest plus the role, without exposing the directory to the
// comparison mechanism.
type PrincipalInfo struct {
	Username     string
	PasswordHash string
	Role         string
}

// CredentialVerifier bridges the member directory to the authentication
// flow. Resolve fails with domain.ErrUnknownPrincipal when no member holds
// the username.
type CredentialVerifier interface {
	Resolve(ctx context.Context, username string) (*PrincipalInfo, error)
}

// Authenticator drives the login state machine for the transport layer.
// Both methods return the redirect target the transport should issue.
type Authenticator interface {
	Login(ctx context.Context, sess SessionWriter, username, password string) (string, error)
	Logout(sess SessionWriter) (string, error)
}

// SessionWriter is the transport-side seam the authenticator uses to
// establish and destroy the session identity. Both operations must be
// atomic from the transport's perspective.
type SessionWriter interface {
	Establish(identity domain.SessionIdentity) error
	Destroy() error
}
