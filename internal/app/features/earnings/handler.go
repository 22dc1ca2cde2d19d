// internal/app/features/earnings/handler.go
package earnings

import (
	"encoding/json"
	"net/http"
	"time"

	earningstore "github.com/dalemusser/guildhub/internal/app/store/earnings"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"go.uber.org/zap"
)

const earningsTimeout = 10 * time.Second

type Handler struct {
	Earnings *earningstore.Store
	Guard    *authz.Guard
	Log      *zap.Logger
}

// NewHandler constructs the earnings ledger feature handler. The guard is
// needed directly (not only as route middleware) because entry-addressed
// operations must authorize against the entry's guild after lookup.
func NewHandler(earnings *earningstore.Store, guard *authz.Guard, logger *zap.Logger) *Handler {
	return &Handler{
		Earnings: earnings,
		Guard:    guard,
		Log:      logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
