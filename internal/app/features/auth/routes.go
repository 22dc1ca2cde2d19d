// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the credential endpoints (typically under "/api/auth").
// Both are public: they are how a caller obtains a token.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.HandleLogin)
	r.Post("/register", h.HandleRegister)

	return r
}
