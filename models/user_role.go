package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege level of a user.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
)

// UserRole represents a row in the user_roles table. Most users have no row
// at all; absence means member.
type UserRole struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ResolveRole maps an optional user_roles row to an effective role. A missing
// row resolves to member, and so does any unrecognized value, so elevated
// privilege is only ever granted by an explicit manager row.
func ResolveRole(row *UserRole) Role {
	if row == nil || row.Role != RoleManager {
		return RoleMember
	}
	return RoleManager
}
