// internal/app/features/users/users.go
package users

import (
	"context"
	"encoding/json"
	"net/http"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeList handles GET /api/users. Admin-only at the route layer.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersTimeout)
	defer cancel()

	list, err := h.Users.ListAll(ctx)
	if err != nil {
		h.Log.Error("users: list failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// ServeGet handles GET /api/users/{id}. Admins may read anyone; everyone
// may read themselves.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersTimeout)
	defer cancel()

	claims, _ := auth.CurrentClaims(r)
	idHex := chi.URLParam(r, "id")

	if err := h.Guard.Authorize(ctx, claims, authz.ActionRead, authz.Resource{
		Kind:   authz.KindUser,
		UserID: idHex,
	}); err != nil {
		apierr.Write(w, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		apierr.Write(w, apierr.Validation("invalid user id"))
		return
	}

	user, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no such user"))
			return
		}
		h.Log.Error("users: get failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// updatePayload is the PUT /api/users/{id} body. Role and managed guilds
// are admin-only edits; password may also be changed by the owner.
type updatePayload struct {
	Role            *string   `json:"role"`
	ManagedGuildIDs *[]string `json:"managed_guild_ids"`
	Password        *string   `json:"password"`
}

// HandleUpdate handles PUT /api/users/{id}.
//
// Setting role=admin clears the managed set even when the same payload
// carries one; setting role=manager takes the payload set verbatim.
// A non-admin may only touch their own credential.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersTimeout)
	defer cancel()

	claims, _ := auth.CurrentClaims(r)
	idHex := chi.URLParam(r, "id")

	if err := h.Guard.Authorize(ctx, claims, authz.ActionWrite, authz.Resource{
		Kind:   authz.KindUser,
		UserID: idHex,
	}); err != nil {
		apierr.Write(w, err)
		return
	}

	var p updatePayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	// Role and scope edits stay admin-only even when the target is the
	// caller's own record.
	isAdmin := claims != nil && claims.Role == models.RoleAdmin
	if (p.Role != nil || p.ManagedGuildIDs != nil) && !isAdmin {
		apierr.Write(w, apierr.Forbidden("only admins may change roles or guild assignments"))
		return
	}

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		apierr.Write(w, apierr.Validation("invalid user id"))
		return
	}

	user, err := h.Users.UpdateUser(ctx, id, userstore.Update{
		Role:            p.Role,
		ManagedGuildIDs: p.ManagedGuildIDs,
	})
	if err != nil {
		switch err {
		case mongo.ErrNoDocuments:
			apierr.Write(w, apierr.NotFound("no such user"))
		case userstore.ErrLastAdmin:
			apierr.Write(w, apierr.Validation(err.Error()))
		default:
			if ae := apierr.From(err); ae.Status < http.StatusInternalServerError {
				apierr.Write(w, ae)
				return
			}
			h.Log.Error("users: update failed", zap.Error(err))
			apierr.Write(w, apierr.Internal())
		}
		return
	}

	// The credential changes only once every other edit in the payload has
	// landed; a rejected role change must leave the old password intact.
	if p.Password != nil {
		if err := h.Users.SetPassword(ctx, id, *p.Password); err != nil {
			if err == mongo.ErrNoDocuments {
				apierr.Write(w, apierr.NotFound("no such user"))
				return
			}
			apierr.Write(w, apierr.Validation("password could not be set"))
			return
		}
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleDelete handles DELETE /api/users/{id}. Admin-only at the route
// layer; deleting yourself is always rejected.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), usersTimeout)
	defer cancel()

	claims, _ := auth.CurrentClaims(r)

	requesterID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		apierr.Write(w, apierr.Unauthorized("invalid session"))
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, apierr.Validation("invalid user id"))
		return
	}

	if err := h.Users.DeleteUser(ctx, requesterID, id); err != nil {
		switch err {
		case userstore.ErrSelfDeleteForbidden:
			apierr.Write(w, apierr.Forbidden(err.Error()))
		case userstore.ErrLastAdmin:
			apierr.Write(w, apierr.Validation(err.Error()))
		case mongo.ErrNoDocuments:
			apierr.Write(w, apierr.NotFound("no such user"))
		default:
			h.Log.Error("users: delete failed", zap.Error(err))
			apierr.Write(w, apierr.Internal())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "user deleted"})
}
