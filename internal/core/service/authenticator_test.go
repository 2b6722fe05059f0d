package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/hash"
)

// fakeSession records identity writes so tests can assert the transport
// seam is driven correctly.
type fakeSession struct {
	identity    *domain.SessionIdentity
	establishes int
	destroys    int
}

func (s *fakeSession) Establish(identity domain.SessionIdentity) error {
	s.establishes++
	s.identity = &identity
	return nil
}

func (s *fakeSession) Destroy() error {
	s.destroys++
	s.identity = nil
	return nil
}

func newTestAuthenticator(t *testing.T, onSuccess SuccessHandler) (*SessionAuthenticator, *MemberService) {
	t.Helper()
	directory, _ := newTestDirectory()
	verifier := NewDirectoryCredentialVerifier(directory)
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	return NewSessionAuthenticator(verifier, hasher, onSuccess, zerolog.Nop()), directory
}

func TestSessionAuthenticator_Login_Success(t *testing.T) {
	auth, directory := newTestAuthenticator(t, nil)
	if _, err := directory.Register(context.Background(), registration("alice")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	sess := &fakeSession{}
	target, err := auth.Login(context.Background(), sess, "alice", "pass-alice")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if target != "/" {
		t.Fatalf("expected redirect to /, got %q", target)
	}
	if sess.establishes != 1 || sess.identity == nil {
		t.Fatalf("expected exactly one established identity")
	}
	if sess.identity.Username != "alice" {
		t.Fatalf("identity username: got %q", sess.identity.Username)
	}
	if sess.identity.IssuedAt.IsZero() {
		t.Fatalf("identity timestamp not set")
	}
}

func TestSessionAuthenticator_Login_SuccessHandlerDecidesTarget(t *testing.T) {
	var seen domain.SessionIdentity
	calls := 0
	auth, directory := newTestAuthenticator(t, func(identity domain.SessionIdentity) string {
		calls++
		seen = identity
		return "/welcome"
	})
	if _, err := directory.Register(context.Background(), registration("bob")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	target, err := auth.Login(context.Background(), &fakeSession{}, "bob", "pass-bob")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if target != "/welcome" {
		t.Fatalf("expected handler target, got %q", target)
	}
	if calls != 1 {
		t.Fatalf("success handler must run exactly once, ran %d times", calls)
	}
	if seen.Username != "bob" {
		t.Fatalf("handler received wrong identity: %+v", seen)
	}
}

func TestSessionAuthenticator_Login_RejectionsAreIndistinguishable(t *testing.T) {
	auth, directory := newTestAuthenticator(t, nil)
	if _, err := directory.Register(context.Background(), registration("carol")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	sess := &fakeSession{}

	// Known username, wrong password.
	_, badPass := auth.Login(context.Background(), sess, "carol", "wrong")
	// Unknown username entirely.
	_, unknown := auth.Login(context.Background(), sess, "ghost", "whatever")

	if !errors.Is(badPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", badPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown username: expected ErrInvalidCredentials, got %v", unknown)
	}
	if badPass.Error() != unknown.Error() {
		t.Fatalf("rejection outcomes must be indistinguishable: %q vs %q", badPass, unknown)
	}
	if sess.establishes != 0 {
		t.Fatalf("no identity may be established on rejection")
	}
}

func TestSessionAuthenticator_Login_MalformedDigestIsNotARejection(t *testing.T) {
	directory, repo := newTestDirectory()
	verifier := NewDirectoryCredentialVerifier(directory)
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	auth := NewSessionAuthenticator(verifier, hasher, nil, zerolog.Nop())

	if _, err := repo.Save(context.Background(), &domain.Member{
		Username:     "corrupt",
		PasswordHash: "garbage",
		Role:         domain.RoleUser,
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := auth.Login(context.Background(), &fakeSession{}, "corrupt", "anything")
	if err == nil {
		t.Fatalf("expected error for corrupt digest")
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("corrupt digest is an internal failure, not a credential rejection")
	}
	if !errors.Is(err, domain.ErrMalformedDigest) {
		t.Fatalf("expected ErrMalformedDigest in chain, got %v", err)
	}
}

func TestSessionAuthenticator_Logout(t *testing.T) {
	auth, directory := newTestAuthenticator(t, nil)
	if _, err := directory.Register(context.Background(), registration("dave")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	sess := &fakeSession{}
	if _, err := auth.Login(context.Background(), sess, "dave", "pass-dave"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	target, err := auth.Logout(sess)
	if err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if target != LoginEntryPoint {
		t.Fatalf("expected redirect to %s, got %q", LoginEntryPoint, target)
	}
	if sess.destroys != 1 || sess.identity != nil {
		t.Fatalf("identity not destroyed")
	}
}

func TestDirectoryCredentialVerifier_Resolve(t *testing.T) {
	directory, _ := newTestDirectory()
	verifier := NewDirectoryCredentialVerifier(directory)

	created, err := directory.Register(context.Background(), registration("erin"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	info, err := verifier.Resolve(context.Background(), "erin")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if info.Username != "erin" || info.Role != created.Role {
		t.Fatalf("unexpected principal: %+v", info)
	}
	if info.PasswordHash != created.PasswordHash {
		t.Fatalf("principal must carry the stored digest")
	}

	if _, err := verifier.Resolve(context.Background(), "nobody"); !errors.Is(err, domain.ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}
