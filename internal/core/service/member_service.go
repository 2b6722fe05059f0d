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

// MemberService implements member registration, lookup, update and deletion
// on top of a MemberRepository and a PasswordHasher. It holds no state of
// its own; every invariant lives in the repository or the hasher.
type MemberService struct {
	repo   ports.MemberRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewMemberService(repo ports.MemberRepository, hasher ports.PasswordHasher, log zerolog.Logger) *MemberService {
	return &MemberService{repo: repo, hasher: hasher, log: log}
}

// Register creates a new member. The username must be unused; the password
// is hashed before anything is persisted; the role is assigned by
// registration order (first member ADMIN, second MANAGER, then USER).
//
// The duplicate check here is advisory: two concurrent registrations can
// both pass it. The repository's unique index is authoritative and its
// conflict surfaces as domain.ErrDuplicateUsername from Save.
func (s *MemberService) Register(ctx context.Context, in ports.RegistrationInput) (*domain.Member, error) {
	if in.Username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	_, err := s.repo.FindByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, domain.ErrDuplicateUsername
	case !errors.Is(err, domain.ErrMemberNotFound):
		return nil, fmt.Errorf("duplicate check: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role, err := s.assignRole(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.Member{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Username:     in.Username,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Save(ctx, member)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("username", created.Username).
		Str("role", created.Role).
		Msg("member registered")
	return created, nil
}

// assignRole maps the store's current size to the role of the member being
// registered: an empty store mints the ADMIN, a store of one the MANAGER,
// anything larger a plain USER.
func (s *MemberService) assignRole(ctx context.Context) (string, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("member count: %w", err)
	}
	switch count {
	case 0:
		return domain.RoleAdmin, nil
	case 1:
		return domain.RoleManager, nil
	default:
		return domain.RoleUser, nil
	}
}

func (s *MemberService) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MemberService) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	return s.repo.FindByUsername(ctx, username)
}

// FindAll returns every member in store order.
func (s *MemberService) FindAll(ctx context.Context) ([]domain.Member, error) {
	return s.repo.FindAll(ctx)
}

// Update overwrites the name fields and re-hashes the submitted password,
// so every update is a forced password reset. Returns
// domain.ErrMemberNotFound when the id is unknown; nothing is written in
// that case.
func (s *MemberService) Update(ctx context.Context, id string, in ports.UpdateInput) (*domain.Member, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	member.FirstName = in.FirstName
	member.LastName = in.LastName
	member.PasswordHash = digest
	member.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Save(ctx, member)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("id", updated.ID).Msg("member updated")
	return updated, nil
}

// Delete removes the member if it exists and reports whether a deletion
// occurred. An unknown id is an idempotent no-op.
func (s *MemberService) Delete(ctx context.Context, id string) (bool, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return false, err
	}

	s.log.Info().Str("id", id).Msg("member deleted")
	return true, nil
}
