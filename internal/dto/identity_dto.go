package dto

import "github.com/google/uuid"

// Identity is the authenticated caller of one request. Handlers read it from
// the request context and pass it to usecases explicitly.
type Identity struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
}

func (i Identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
