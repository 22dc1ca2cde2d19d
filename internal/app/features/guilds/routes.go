// internal/app/features/guilds/routes.go
package guilds

import (
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the read-only guild metadata endpoints (typically under
// "/api/guilds").
func Routes(h *Handler, guard *authz.Guard) chi.Router {
	r := chi.NewRouter()

	read := authz.RequireGuildAccess(guard, authz.ActionRead)
	r.With(read).Get("/members/{guildID}", h.ServeMembers)
	r.With(read).Get("/roles/{guildID}", h.ServeRoles)

	return r
}
