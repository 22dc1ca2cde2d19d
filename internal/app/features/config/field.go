// internal/app/features/config/field.go
package config

import (
	"context"
	"io"
	"net/http"

	configstore "github.com/dalemusser/guildhub/internal/app/store/guildconfigs"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeGetField handles GET /api/config/{guildID}/{field}.
func (h *Handler) ServeGetField(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), configTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")
	field := chi.URLParam(r, "field")

	value, err := h.Configs.GetField(ctx, guildID, field)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			apierr.Write(w, apierr.NotFound("no config for this guild"))
			return
		}
		if e := apierr.From(err); e.Status < http.StatusInternalServerError {
			apierr.Write(w, e)
			return
		}
		h.Log.Error("config: get field failed",
			zap.String("guild_id", guildID), zap.String("field", field), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, value)
}

// HandleSetField handles PUT /api/config/{guildID}/{field}.
//
// The narrow accessor applies the same invariants as a full upsert; a
// guild with no config yet gets one created implicitly.
func (h *Handler) HandleSetField(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), configTimeout)
	defer cancel()

	guildID := chi.URLParam(r, "guildID")
	field := chi.URLParam(r, "field")

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	value, err := configstore.DecodeField(field, raw)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	saved, err := h.Configs.SetField(ctx, guildID, field, value)
	if err != nil {
		if e := apierr.From(err); e.Status < http.StatusInternalServerError {
			apierr.Write(w, e)
			return
		}
		h.Log.Error("config: set field failed",
			zap.String("guild_id", guildID), zap.String("field", field), zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	writeJSON(w, http.StatusOK, saved)
}
