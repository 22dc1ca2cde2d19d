// internal/app/system/authz/authz.go
package authz

import (
	"context"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/normalize"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Action is what the caller wants to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionWrite
	ActionDelete
)

// Kind identifies the class of resource being accessed.
type Kind int

const (
	// KindGuild is any guild-scoped resource (config, earnings, metadata).
	KindGuild Kind = iota
	// KindUser is a single user record.
	KindUser
	// KindGlobalUserList is the cross-guild user directory (list/edit/delete
	// arbitrary users).
	KindGlobalUserList
)

// Resource names what is being accessed. GuildID is set for KindGuild,
// UserID for KindUser.
type Resource struct {
	Kind    Kind
	GuildID string
	UserID  string
}

// Guard makes allow/deny decisions. A manager's guild set is re-fetched
// from the user directory on every check, never read from the token, so
// revoking a manager's access takes effect on the next request without
// re-login.
type Guard struct {
	users *userstore.Store
	log   *zap.Logger
}

func NewGuard(users *userstore.Store, logger *zap.Logger) *Guard {
	return &Guard{users: users, log: logger}
}

// Authorize returns nil to allow, or a typed apierr (always client-visible
// as 403) to deny. Deny is never converted into an empty success.
func (g *Guard) Authorize(ctx context.Context, claims *auth.Claims, action Action, res Resource) error {
	if claims == nil {
		return apierr.Unauthorized("authentication required")
	}

	switch res.Kind {
	case KindGlobalUserList:
		if claims.Role == models.RoleAdmin {
			return nil
		}
		return apierr.Forbidden("user management requires the admin role")

	case KindGuild:
		if claims.Role == models.RoleAdmin {
			return nil
		}
		if claims.Role == models.RoleManager {
			ok, err := g.managesGuild(ctx, claims.UserID, res.GuildID)
			if err != nil {
				// Fail closed: an unreadable directory is a deny, not an
				// open door.
				g.log.Warn("authz: managed-guild lookup failed", zap.Error(err))
				return apierr.Forbidden("guild access could not be verified")
			}
			if ok {
				return nil
			}
		}
		return apierr.Forbidden("no access to this guild")

	case KindUser:
		if claims.Role == models.RoleAdmin {
			return nil
		}
		// Owners may touch their own record; the handler restricts which
		// fields a non-admin self-edit may carry.
		if res.UserID != "" && res.UserID == claims.UserID {
			return nil
		}
		return apierr.Forbidden("no access to this user")
	}

	return apierr.Forbidden("forbidden")
}

// managesGuild checks the live managed set for the given user.
func (g *Guard) managesGuild(ctx context.Context, userID, guildID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, err
	}
	u, err := g.users.GetByID(ctx, oid)
	if err != nil {
		return false, err
	}
	if u.Role != models.RoleManager {
		// Role changed since the token was issued; the snapshot no longer
		// grants manager-path access.
		return false, nil
	}
	return u.ManagesGuild(normalize.GuildID(guildID)), nil
}

// RequireGuildAccess is route middleware gating a guild-scoped subtree on
// the {guildID} URL parameter. It must sit inside auth.RequireSignedIn.
func RequireGuildAccess(g *Guard, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.CurrentClaims(r)
			if !ok {
				apierr.Write(w, apierr.Unauthorized("authentication required"))
				return
			}
			guildID := normalize.GuildID(chi.URLParam(r, "guildID"))
			if guildID == "" {
				apierr.Write(w, apierr.Validation("guild id is required"))
				return
			}
			if err := g.Authorize(r.Context(), claims, action, Resource{Kind: KindGuild, GuildID: guildID}); err != nil {
				apierr.Write(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
