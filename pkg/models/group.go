package models

import "time"

type Group struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	OwnerID     int64     `json:"owner_id" db:"owner_id"`
	IsPrivate   bool      `json:"is_private" db:"is_private"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	Owner       *User     `json:"owner,omitempty"`
}

// Membership relates a user to a group with a role. The group owner is
// authorized independently of membership rows and usually has none.
type Membership struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id"`
	GroupID  int64     `json:"group_id" db:"group_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
	User     *User     `json:"user,omitempty"`
	Group    *Group    `json:"group,omitempty"`
}

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPrivate   bool    `json:"is_private"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	IsPrivate   *bool   `json:"is_private,omitempty"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member admin"`
}
