package handler

import "time"

// --- Request / Response types ---

// updateMemberRequest is the full-overwrite update payload: names are
// replaced and the password is always re-hashed. The username is absent
// because it is immutable after registration.
type updateMemberRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Password  string `json:"password"   validate:"required,min=4"`
}

// memberResponse is the wire shape of a member. There is deliberately no
// password field of any kind; the hash never leaves the service.
type memberResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listMembersResponse struct {
	Data  []memberResponse `json:"data"`
	Total int              `json:"total"`
}
