// internal/app/features/users/handler.go
package users

import (
	"encoding/json"
	"net/http"
	"time"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"go.uber.org/zap"
)

const usersTimeout = 10 * time.Second

type Handler struct {
	Users *userstore.Store
	Guard *authz.Guard
	Log   *zap.Logger
}

// NewHandler constructs the user directory feature handler.
func NewHandler(users *userstore.Store, guard *authz.Guard, logger *zap.Logger) *Handler {
	return &Handler{
		Users: users,
		Guard: guard,
		Log:   logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
