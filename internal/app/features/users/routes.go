// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user directory endpoints (typically under "/api/users").
// Listing and deleting are admin-only; reading and updating a single user
// are authorized per request (admins, or the owning user for a subset of
// fields).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/managed-guilds/available", h.ServeAvailableGuilds)

	r.With(auth.RequireRole(models.RoleAdmin)).Get("/", h.ServeList)

	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.HandleUpdate)
	r.With(auth.RequireRole(models.RoleAdmin)).Delete("/{id}", h.HandleDelete)

	return r
}
