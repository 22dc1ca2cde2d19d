// internal/app/features/config/handler.go
package config

import (
	"encoding/json"
	"net/http"
	"time"

	configstore "github.com/dalemusser/guildhub/internal/app/store/guildconfigs"
	"go.uber.org/zap"
)

const configTimeout = 10 * time.Second

type Handler struct {
	Configs *configstore.Store
	Log     *zap.Logger
}

// NewHandler constructs the guild configuration feature handler.
func NewHandler(configs *configstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Configs: configs,
		Log:     logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
