// internal/app/features/auth/handler.go
package auth

import (
	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	sysauth "github.com/dalemusser/guildhub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.Manager
	Log    *zap.Logger
}

// NewHandler constructs the auth feature handler bound to the user
// directory and the token manager.
func NewHandler(users *userstore.Store, tokens *sysauth.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		Tokens: tokens,
		Log:    logger,
	}
}

// credentials is the request body for both login and register.
type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the success body for both login and register.
type tokenResponse struct {
	Token string `json:"token"`
}
