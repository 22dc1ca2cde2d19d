// internal/app/features/users/guilds.go
package users

import (
	"context"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServeAvailableGuilds handles GET /api/users/managed-guilds/available.
//
// Admins see the whole universe of guild ids (derived from existing guild
// configs) so they can populate assignment pickers; managers see their own
// live managed set.
func (h *Handler) ServeAvailableGuilds(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersTimeout)
	defer cancel()

	claims, ok := auth.CurrentClaims(r)
	if !ok {
		apierr.Write(w, apierr.Unauthorized("authentication required"))
		return
	}

	if claims.Role == models.RoleAdmin {
		ids, err := h.Users.AvailableGuildIDs(ctx)
		if err != nil {
			h.Log.Error("users: available guilds failed", zap.Error(err))
			apierr.Write(w, apierr.Internal())
			return
		}
		writeJSON(w, http.StatusOK, ids)
		return
	}

	// Managers get their live assignment, not the token snapshot.
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		apierr.Write(w, apierr.Unauthorized("invalid session"))
		return
	}
	user, err := h.Users.GetByID(ctx, oid)
	if err != nil {
		h.Log.Error("users: self lookup failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	ids := user.ManagedGuildIDs
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}
