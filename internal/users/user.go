package users

import (
	"time"
)

// Role is the portal role assigned to a backend user account.
type Role string

const (
	RoleOrganizationHead Role = "ORGANIZATION_HEAD"
	RoleICTHead          Role = "ICT_HEAD"
	RoleStaff            Role = "STAFF"
)

// KnownRoles lists every role the portal understands, in display order.
var KnownRoles = []Role{RoleOrganizationHead, RoleICTHead, RoleStaff}

func (r Role) Valid() bool {
	switch r {
	case RoleOrganizationHead, RoleICTHead, RoleStaff:
		return true
	}
	return false
}

// CanManageUsers reports whether the role may see and administer the user
// list. Only the director and the ICT head have the admin surface.
func (r Role) CanManageUsers() bool {
	return r == RoleOrganizationHead || r == RoleICTHead
}

// Status is the account lifecycle state. Accounts are created pending, get
// approved by an admin, then activate by setting their own password.
type Status string

const (
	StatusActive                    Status = "ACTIVE"
	StatusPendingApproval           Status = "PENDING_APPROVAL"
	StatusApprovedPendingActivation Status = "APPROVED_PENDING_ACTIVATION"
)

type User struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Status     Status    `json:"status"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
