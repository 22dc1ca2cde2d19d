// internal/app/features/earnings/ledger.go
package earnings

import (
	"context"
	"encoding/json"
	"net/http"

	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeList handles GET /api/earnings/{guildID}.
// A guild with no entries yields an empty array, never an error.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), earningsTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")

	list, err := h.Earnings.List(ctx, guildID)
	if err != nil {
		h.Log.Error("earnings: list failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleCreate handles POST /api/earnings/{guildID}.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), earningsTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")

	var p entryPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		apierr.Write(w, apierr.Validationf("invalid earning payload: %v", err))
		return
	}

	e := models.Earning{
		EntryID:      p.EntryID,
		Date:         p.Date.v,
		UserMention:  p.UserMention,
		GrossRevenue: p.GrossRevenue.v,
		TotalCut:     p.TotalCut.v,
		HoursWorked:  p.HoursWorked.v,
		Models:       p.Models.v,
	}
	if p.Period != nil {
		e.Period = *p.Period
	}
	if p.Shift != nil {
		e.Shift = *p.Shift
	}
	if p.Role != nil {
		e.Role = *p.Role
	}

	created, err := h.Earnings.Create(ctx, guildID, e)
	if err != nil {
		if err == earningstore.ErrDuplicateEntryID {
			apierr.Write(w, apierr.Validation(err.Error()))
			return
		}
		if ae := apierr.From(err); ae.Status < http.StatusInternalServerError {
			apierr.Write(w, ae)
			return
		}
		h.Log.Error("earnings: create failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusCreated, created)
}
