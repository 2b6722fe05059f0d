package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/hash"
	"github.com/memberly/portal/internal/core/ports"
)

// stubMemberRepo is an in-memory MemberRepository that preserves insertion
// order and enforces the unique-username invariant the way the Mongo index
// does.
type stubMemberRepo struct {
	seq     int
	members []*domain.Member
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{}
}

func cloneMember(m *domain.Member) *domain.Member {
	if m == nil {
		return nil
	}
	clone := *m
	return &clone
}

func (r *stubMemberRepo) FindByUsername(_ context.Context, username string) (*domain.Member, error) {
	for _, m := range r.members {
		if m.Username == username {
			return cloneMember(m), nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) FindByID(_ context.Context, id string) (*domain.Member, error) {
	for _, m := range r.members {
		if m.ID == id {
			return cloneMember(m), nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) FindAll(_ context.Context) ([]domain.Member, error) {
	out := make([]domain.Member, len(r.members))
	for i, m := range r.members {
		out[i] = *m
	}
	return out, nil
}

func (r *stubMemberRepo) Save(_ context.Context, member *domain.Member) (*domain.Member, error) {
	if member.ID == "" {
		for _, m := range r.members {
			if m.Username == member.Username {
				return nil, domain.ErrDuplicateUsername
			}
		}
		r.seq++
		saved := cloneMember(member)
		saved.ID = fmt.Sprintf("m%d", r.seq)
		r.members = append(r.members, saved)
		return cloneMember(saved), nil
	}
	for i, m := range r.members {
		if m.ID == member.ID {
			r.members[i] = cloneMember(member)
			return cloneMember(member), nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

func (r *stubMemberRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	for _, m := range r.members {
		if m.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubMemberRepo) DeleteByID(_ context.Context, id string) error {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubMemberRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.members)), nil
}

func newTestDirectory() (*MemberService, *stubMemberRepo) {
	repo := newStubMemberRepo()
	hasher := hash.NewBcryptHasher(bcrypt.MinCost)
	return NewMemberService(repo, hasher, zerolog.Nop()), repo
}

func registration(username string) ports.RegistrationInput {
	return ports.RegistrationInput{
		FirstName: "Test",
		LastName:  "Member",
		Username:  username,
		Password:  "pass-" + username,
	}
}

func TestMemberService_Register_HashesPassword(t *testing.T) {
	svc, _ := newTestDirectory()

	created, err := svc.Register(context.Background(), registration("alice"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if created.PasswordHash == "pass-alice" {
		t.Fatalf("password stored in plaintext")
	}

	found, err := svc.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte("pass-alice")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestMemberService_Register_DuplicateUsername(t *testing.T) {
	svc, repo := newTestDirectory()

	if _, err := svc.Register(context.Background(), registration("bob")); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), registration("bob")); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Fatalf("expected single record after duplicate attempt, got %d", n)
	}
}

func TestMemberService_Register_MissingFields(t *testing.T) {
	svc, _ := newTestDirectory()

	if _, err := svc.Register(context.Background(), ports.RegistrationInput{Username: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty username, got %v", err)
	}
	if _, err := svc.Register(context.Background(), ports.RegistrationInput{Username: "x", Password: ""}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestMemberService_Register_RoleByRegistrationOrder(t *testing.T) {
	svc, _ := newTestDirectory()

	want := []string{domain.RoleAdmin, domain.RoleManager, domain.RoleUser, domain.RoleUser}
	for i, role := range want {
		created, err := svc.Register(context.Background(), registration(fmt.Sprintf("member%d", i)))
		if err != nil {
			t.Fatalf("registration %d failed: %v", i, err)
		}
		if created.Role != role {
			t.Fatalf("registration %d: expected role %s, got %s", i, role, created.Role)
		}
	}
}

func TestMemberService_Register_ManagerSpelling(t *testing.T) {
	svc, _ := newTestDirectory()

	_, _ = svc.Register(context.Background(), registration("first"))
	second, err := svc.Register(context.Background(), registration("second"))
	if err != nil {
		t.Fatalf("second registration failed: %v", err)
	}
	if second.Role != "MANAGER" {
		t.Fatalf("canonical manager role is MANAGER, got %q", second.Role)
	}
}

func TestMemberService_FindByID_Absent(t *testing.T) {
	svc, _ := newTestDirectory()

	if _, err := svc.FindByID(context.Background(), "missing"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestMemberService_FindAll_InsertionOrder(t *testing.T) {
	svc, _ := newTestDirectory()

	for _, name := range []string{"a", "b", "c"} {
		if _, err := svc.Register(context.Background(), registration(name)); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	all, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 members, got %d", len(all))
	}
	for i, name := range []string{"a", "b", "c"} {
		if all[i].Username != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, all[i].Username)
		}
	}
}

func TestMemberService_Update_Absent(t *testing.T) {
	svc, repo := newTestDirectory()

	_, err := svc.Update(context.Background(), "missing", ports.UpdateInput{FirstName: "X", LastName: "Y", Password: "z"})
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	if n, _ := repo.Count(context.Background()); n != 0 {
		t.Fatalf("update on missing id must not write, found %d records", n)
	}
}

func TestMemberService_Update_AlwaysRehashes(t *testing.T) {
	svc, _ := newTestDirectory()

	created, err := svc.Register(context.Background(), registration("carol"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Same password resubmitted: the digest must still change because
	// every update forces a re-hash with a fresh salt.
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateInput{
		FirstName: "Caroline",
		LastName:  "M",
		Password:  "pass-carol",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Caroline" || updated.LastName != "M" {
		t.Fatalf("name fields not overwritten: %+v", updated)
	}
	if updated.PasswordHash == created.PasswordHash {
		t.Fatalf("expected password to be re-hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("pass-carol")); err != nil {
		t.Fatalf("new digest does not verify: %v", err)
	}
	if updated.Username != "carol" {
		t.Fatalf("username must be immutable, got %q", updated.Username)
	}
}

func TestMemberService_Delete(t *testing.T) {
	svc, _ := newTestDirectory()

	created, err := svc.Register(context.Background(), registration("dave"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	ok, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !ok {
		t.Fatalf("expected deletion to occur")
	}
	if _, err := svc.FindByID(context.Background(), created.ID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("member still retrievable after delete")
	}

	// Idempotent no-op on the second call.
	ok, err = svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("second delete errored: %v", err)
	}
	if ok {
		t.Fatalf("second delete must report false")
	}
}
