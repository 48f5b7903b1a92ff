// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a principal can hold. Stored lowercase.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AllRoles lists the assignable roles in display order.
var AllRoles = []string{RoleAdmin, RoleUser}

// User is a principal that can sign in to the directory.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	UsernameCI   string             `bson:"username_ci" json:"-"` // folded, unique
	PasswordHash string             `bson:"password_hash" json:"-"`
	Enabled      bool               `bson:"enabled" json:"enabled"`
	Role         string             `bson:"role" json:"role"` // admin | user

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsValidRole reports whether role is one of AllRoles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
