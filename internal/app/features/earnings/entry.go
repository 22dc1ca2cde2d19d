// internal/app/features/earnings/entry.go
package earnings

import (
	"context"
	"encoding/json"
	"net/http"

	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// authorizeEntry looks up an entry by caller-assigned id and checks the
// caller's access to its guild. Entry routes carry no guild in the path,
// so the guild scope comes from the stored document.
//
// An unknown id answers 404 and a foreign guild's entry answers 403, so an
// authenticated caller can tell the two apart. That is accepted: entry ids
// are caller-assigned and globally unique, and HandleCreate already reports
// a collision with any guild's entry, so their existence is observable to
// every signed-in user regardless of what this path returns.
func (h *Handler) authorizeEntry(ctx context.Context, r *http.Request, action authz.Action, entryID string) error {
	claims, ok := auth.CurrentClaims(r)
	if !ok {
		return apierr.Unauthorized("authentication required")
	}

	entry, err := h.Earnings.GetByEntryID(ctx, entryID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apierr.NotFound("no earning with this id")
		}
		return err
	}

	return h.Guard.Authorize(ctx, claims, action, authz.Resource{
		Kind:    authz.KindGuild,
		GuildID: entry.GuildID,
	})
}

// HandleUpdate handles PUT /api/earnings/entry/{entryID}.
//
// Partial update: only fields present in the payload change, and the
// payload cannot carry id, _id, or guild_id (they have no transport
// representation), so entry identity is immutable.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), earningsTimeout)
	defer cancel()

	entryID := chi.URLParam(r, "entryID")

	if err := h.authorizeEntry(ctx, r, authz.ActionWrite, entryID); err != nil {
		apierr.Write(w, err)
		return
	}

	var p entryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apierr.Write(w, apierr.Validationf("invalid earning payload: %v", err))
		return
	}

	upd := earningstore.Update{
		Period: p.Period,
		Shift:  p.Shift,
		Role:   p.Role,
	}
	if p.Date.set {
		upd.Date = &p.Date.v
	}
	if p.UserMention != "" {
		upd.UserMention = &p.UserMention
	}
	if p.GrossRevenue.set {
		upd.GrossRevenue = &p.GrossRevenue.v
	}
	if p.TotalCut.set {
		upd.TotalCut = &p.TotalCut.v
	}
	if p.Models.set {
		upd.Models = &p.Models.v
	}
	if p.HoursWorked.set {
		upd.HoursWorked = &p.HoursWorked.v
	}

	updated, err := h.Earnings.UpdateEntry(ctx, entryID, upd)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no earning with this id"))
			return
		}
		if ae := apierr.From(err); ae.Status < http.StatusInternalServerError {
			apierr.Write(w, ae)
			return
		}
		h.Log.Error("earnings: update failed", zap.String("entry_id", entryID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/earnings/entry/{entryID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), earningsTimeout)
	defer cancel()

	entryID := chi.URLParam(r, "entryID")

	if err := h.authorizeEntry(ctx, r, authz.ActionDelete, entryID); err != nil {
		apierr.Write(w, err)
		return
	}

	if err := h.Earnings.DeleteEntry(ctx, entryID); err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no earning with this id"))
			return
		}
		h.Log.Error("earnings: delete failed", zap.String("entry_id", entryID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "earning deleted"})
}
