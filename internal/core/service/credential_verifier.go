package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/ports"
)

// DirectoryCredentialVerifier resolves usernames against the member
// directory. It is the seam between storage and the generic login flow:
// callers receive the stored digest and role and perform the comparison
// themselves.
type DirectoryCredentialVerifier struct {
	directory ports.MemberDirectory
}

func NewDirectoryCredentialVerifier(directory ports.MemberDirectory) *DirectoryCredentialVerifier {
	return &DirectoryCredentialVerifier{directory: directory}
}

// Resolve returns the verifiable credential for username, or
// domain.ErrUnknownPrincipal when no member holds it.
func (v *DirectoryCredentialVerifier) Resolve(ctx context.Context, username string) (*ports.PrincipalInfo, error) {
	member, err := v.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrUnknownPrincipal
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}

	return &ports.PrincipalInfo{
		Username:     member.Username,
		PasswordHash: member.PasswordHash,
		Role:         member.Role,
	}, nil
}
