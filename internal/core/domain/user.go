package domain

import (
	"errors"
	"time"
)

// Role is the moderation tier of a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// Staff reports whether the role grants moderation powers.
func (r Role) Staff() bool {
	return r == RoleModerator || r == RoleAdmin
}

// User models an authenticated actor in the system.
//
// Role and IsBlocked are independent axes: a blocked admin still carries
// the admin role but is denied every write action.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	Role         Role      `json:"role" bson:"role"`
	IsBlocked    bool      `json:"is_blocked" bson:"is_blocked"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsStaff reports whether the user is a moderator or admin.
func (u *User) IsStaff() bool {
	return u.Role.Staff()
}
