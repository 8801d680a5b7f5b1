package models

import "time"

const UserTable = "ce_users"

// Roles. Assigned at registration, immutable afterwards.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
)

func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleStaff
}

type User struct {
	ID           string  `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string  `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        string  `gorm:"size:255;not null" json:"email"`
	PasswordHash string  `gorm:"size:100;not null" json:"-"`
	Role         string  `gorm:"size:10;not null;default:'CUSTOMER'" json:"role"`
	Location     *string `gorm:"size:255" json:"location,omitempty"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

// Principal is the acting caller of an operation, resolved once by the auth
// middleware and passed explicitly into every mutating call.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsStaff() bool    { return p.Role == RoleStaff }
func (p Principal) IsCustomer() bool { return p.Role == RoleCustomer }

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
