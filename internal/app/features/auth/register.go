// internal/app/features/auth/register.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.uber.org/zap"
)

const minPasswordLen = 8

// HandleRegister handles POST /api/auth/register.
//
// Registration always produces a manager with an empty managed set; an
// admin must assign guilds (or the admin role) afterwards.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), loginTimeout)
	defer cancel()

	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apierr.Write(w, apierr.Validation("invalid request body"))
		return
	}

	if _, err := mail.ParseAddress(strings.TrimSpace(creds.Email)); err != nil {
		apierr.Write(w, apierr.Validation("email is not a valid address"))
		return
	}
	if len(creds.Password) < minPasswordLen {
		apierr.Write(w, apierr.Validationf("password must be at least %d characters", minPasswordLen))
		return
	}

	user, err := h.Users.Create(ctx, creds.Email, creds.Password, models.RoleManager)
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			apierr.Write(w, apierr.Validation(err.Error()))
			return
		}
		h.Log.Error("register: create failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	token, err := h.Tokens.Issue(&user)
	if err != nil {
		h.Log.Error("register: token issue failed", zap.Error(err))
		apierr.Write(w, apierr.Internal())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(tokenResponse{Token: token})
}
