package ports

import (
	"context"

	"github.com/memberly/portal/internal/core/domain"
)

// MemberRepository is the persistence contract for member records.
//
// Implementations own the uniqueness invariant on username: Save must
// surface domain.ErrDuplicateUsername when an insert would violate it,
// since the directory's lookup-then-insert check is not atomic.
type MemberRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Member, error)
	FindByID(ctx context.Context, id string) (*domain.Member, error)
	FindAll(ctx context.Context) ([]domain.Member, error)
	// Save inserts when the member has no ID and updates otherwise,
	// returning the persisted record.
	Save(ctx context.Context, member *domain.Member) (*domain.Member, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
