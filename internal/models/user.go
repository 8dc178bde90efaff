package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleNominee              UserRole = "NOMINEE"
	RoleCircleCommittee      UserRole = "CIRCLE_COMMITTEE"
	RoleCorporationCommittee UserRole = "CORPORATION_COMMITTEE"
	RoleStateCommittee       UserRole = "STATE_COMMITTEE"
	RoleAdmin                UserRole = "ADMIN"
)

// User represents an application user stored in the users table.
// The role is fixed at creation and gates which workflow operations
// the user may invoke.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	WUAID        *string    `db:"wua_id" json:"wua_id,omitempty"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Active    *bool
	WUAID     string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Limits returns the page and page size clamped to sane bounds.
func (f UserFilter) Limits() (page, pageSize int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	pageSize = f.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
