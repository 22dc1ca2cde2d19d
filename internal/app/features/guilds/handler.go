// internal/app/features/guilds/handler.go
package guilds

import (
	"encoding/json"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordAPI is the slice of the Discord REST surface this feature needs.
// *discordgo.Session satisfies it; tests substitute a fake.
type DiscordAPI interface {
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
}

type Handler struct {
	Discord DiscordAPI
	Log     *zap.Logger
}

// NewHandler constructs the guild metadata feature handler. Discord may be
// nil when no bot token is configured; the endpoints then answer 503.
func NewHandler(discord DiscordAPI, logger *zap.Logger) *Handler {
	return &Handler{
		Discord: discord,
		Log:     logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
