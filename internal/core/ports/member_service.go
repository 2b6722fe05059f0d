package ports

import (
	"context"

	"github.com/memberly/portal/internal/core/domain"
)

// RegistrationInput carries the fields submitted on sign-up. The role is
// never supplied by the caller; it is assigned by registration order.
type RegistrationInput struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// UpdateInput carries the fields of a member update. Name fields are
// overwritten unconditionally and the password is always re-hashed; there
// is no leave-unchanged option.
type UpdateInput struct {
	FirstName string
	LastName  string
	Password  string
}

// MemberDirectory is the business-logic contract for member management.
type MemberDirectory interface {
	Register(ctx context.Context, in RegistrationInput) (*domain.Member, error)
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindByUsername(ctx context.Context, username string) (*domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Member, error)
	// Delete reports whether a member was removed. Deleting an unknown id
	// is a no-op, not an error.
	Delete(ctx context.Context, id string) (bool, error)
}
