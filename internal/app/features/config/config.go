// internal/app/features/config/config.go
package config

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeGet handles GET /api/config/{guildID}.
//
// A guild without a config yields 404; the UI treats that as "use
// defaults", not as a hard failure.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), configTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")

	cfg, err := h.Configs.Get(ctx, guildID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no config for this guild"))
			return
		}
		h.Log.Error("config: get failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

// HandleUpsert handles POST /api/config/{guildID}.
//
// Full-document replace: omitted fields are cleared, and the body's
// guild_id is overwritten with the path's (no spoofing through the body).
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), configTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")

	var cfg models.GuildConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		apierr.Write(w, apierr.Validation("invalid config payload"))
		return
	}

	saved, err := h.Configs.Upsert(ctx, guildID, cfg)
	if err != nil {
		if e := apierr.From(err); e.Status < http.StatusInternalServerError {
			apierr.Write(w, e)
			return
		}
		h.Log.Error("config: upsert failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete handles DELETE /api/config/{guildID}. Admin-only (enforced
// at the route layer); irreversible, and earnings for the guild remain.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), configTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")

	if err := h.Configs.Delete(ctx, guildID); err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no config for this guild"))
			return
		}
		h.Log.Error("config: delete failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "config deleted"})
}
