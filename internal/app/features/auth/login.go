// internal/app/features/auth/login.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"go.uber.org/zap"
)

const loginTimeout = 10 * time.Second

// HandleLogin handles POST /api/auth/login.
//
// Every failure mode (unknown email, wrong password) yields the same 401
// body so callers cannot probe which accounts exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loginTimeout)
	defer cancel()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	user, err := h.Users.GetByEmail(ctx, creds.Email)
	if err != nil {
		apierr.Write(w, apierr.Unauthorized("invalid email or password"))
		return
	}
	if !userstore.VerifyPassword(user, creds.Password) {
		apierr.Write(w, apierr.Unauthorized("invalid email or password"))
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.Log.Error("login: token issue failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenResponse{Token: token})
}
