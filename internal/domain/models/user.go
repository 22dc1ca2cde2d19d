// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values for User.Role.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

// User represents admins and guild-scoped managers.
//
// NOTE:
//   - An admin's effective guild set is "all guilds"; ManagedGuildIDs is
//     kept empty for admins and never consulted for them.
//   - A manager's effective guild set is exactly ManagedGuildIDs.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"`
	PasswordHash    string             `bson:"password_hash" json:"-"`
	Role            string             `bson:"role" json:"role"` // admin | manager
	ManagedGuildIDs []string           `bson:"managed_guild_ids" json:"managed_guild_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// ManagesGuild reports whether the user may administer the given guild.
func (u *User) ManagesGuild(guildID string) bool {
	if u.IsAdmin() {
		return true
	}
	for _, g := range u.ManagedGuildIDs {
		if g == guildID {
			return true
		}
	}
	return false
}
