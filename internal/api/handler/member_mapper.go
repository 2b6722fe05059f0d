package handler

import (
	"github.com/memberly/portal/internal/core/domain"
	"github.com/memberly/portal/internal/core/ports"
)

// Hand-written conversions between wire shapes and domain records. Keeping
// these explicit makes the omission of the password hash a visible,
// compile-time decision rather than a mapper configuration detail.

func toUpdateInput(req updateMemberRequest) ports.UpdateInput {
	return ports.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	}
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Username:  m.Username,
		Role:      m.Role,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func toListResponse(members []domain.Member) listMembersResponse {
	items := make([]memberResponse, len(members))
	for i := range members {
		items[i] = toMemberResponse(&members[i])
	}
	return listMembersResponse{Data: items, Total: len(items)}
}
