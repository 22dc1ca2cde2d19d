// internal/app/features/earnings/routes.go
package earnings

import (
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the earnings ledger endpoints (typically under
// "/api/earnings"). Guild-addressed routes are gated by the guard here;
// entry-addressed routes authorize inside the handler, after the entry's
// guild is known.
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	r.Route("/entry/{entryID}", func(er chi.Router) {
		er.Put("/", h.HandleUpdate)
		er.Delete("/", h.HandleDelete)
	})

	r.Route("/{guildID}", func(gr chi.Router) {
		gr.With(authz.RequireGuildAccess(guard, authz.ActionRead)).Get("/", h.ServeList)
		gr.With(authz.RequireGuildAccess(guard, authz.ActionWrite)).Post("/", h.HandleCreate)
	})

	return r
}
