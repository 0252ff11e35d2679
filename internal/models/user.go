package models

import (
	"strings"
	"time"
)

// Role is the closed set of permission levels a user can hold.
// Exactly one role per user; it is assigned at registration time
// (via invite redemption) and never edited afterwards.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
	// RoleUser is the default for registrations without an invite:
	// read-only access, no elevated rights.
	RoleUser Role = "user"
)

// ParseRole maps a raw string to a Role, falling back to RoleUser
// for anything outside the closed set.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s)
	default:
		return RoleUser
	}
}

// InvitableRoles are the roles an admin may pre-assign through an
// invitation link. Admin cannot be granted via invite.
var InvitableRoles = []Role{RoleViewer, RoleEditor}

// Invitable reports whether the role may be carried by an invite token.
func (r Role) Invitable() bool {
	return r == RoleViewer || r == RoleEditor
}

// User represents an authenticated user of the cash journal.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:120;not null" json:"email"`
	Name      string    `gorm:"size:80;not null" json:"name"`
	Password  string    `gorm:"size:200;not null" json:"-"` // bcrypt hash, never exposed
	Role      Role      `gorm:"size:20;not null;default:'user'" json:"role"`

	Operations []Operation `gorm:"foreignKey:UserID" json:"-"`
}

// NormalizeEmail lowercases and trims an email address so that the
// unique index is case-insensitive in practice.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
