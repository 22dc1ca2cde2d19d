// internal/app/features/config/routes.go
package config

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the guild configuration endpoints (typically under
// "/api/config"). Guild access is decided per request against the live
// managed set; config deletion is admin-only.
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Route("/{guildID}", func(gr chi.Router) {
		gr.With(authz.RequireGuildAccess(guard, authz.ActionRead)).Get("/", h.ServeGet)
		gr.With(authz.RequireGuildAccess(guard, authz.ActionWrite)).Post("/", h.HandleUpsert)
		gr.With(auth.RequireRole(models.RoleAdmin)).Delete("/", h.HandleDelete)

		gr.With(authz.RequireGuildAccess(guard, authz.ActionRead)).Get("/{field}", h.ServeGetField)
		gr.With(authz.RequireGuildAccess(guard, authz.ActionWrite)).Put("/{field}", h.HandleSetField)
	})

	return r
}
