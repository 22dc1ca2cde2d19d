// internal/app/features/guilds/metadata.go
package guilds

import (
	"net/http"

	"github.com/dalemusser/guildhub/internal/app/system/apierr"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Discord caps GuildMembers pages at 1000.
const memberPageLimit = 1000

// member is the simplified wire shape for a guild member.
type member struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// role is the simplified wire shape for a guild role.
type role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServeMembers handles GET /api/guilds/members/{guildID}, proxying the
// Discord REST API. Read-only; access is gated by the same guild guard as
// config and earnings.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	if h.Discord == nil {
		apierr.Write(w, &apierr.Error{Status: http.StatusServiceUnavailable, Msg: "guild directory not configured"})
		return
	}

	guildID := chi.URLParam(r, "guildID")

	members := []member{}
	after := ""
	for {
		page, err := h.Discord.GuildMembers(guildID, after, memberPageLimit)
		if err != nil {
			h.Log.Error("guilds: member fetch failed", zap.String("guild_id", guildID), zap.Error(err))
			apierr.Write(w, &apierr.Error{Status: http.StatusBadGateway, Msg: "guild members could not be fetched"})
			return
		}
		for _, m := range page {
			if m.User == nil {
				continue
			}
			display := m.Nick
			if display == "" {
				display = m.User.Username
			}
			members = append(members, member{
				ID:          m.User.ID,
				Username:    m.User.Username,
				DisplayName: display,
			})
		}
		if len(page) < memberPageLimit {
			break
		}
		// The cursor must come from a member that actually carries a user;
		// partial gateway data can leave User nil on any entry.
		next := ""
		for i := len(page) - 1; i >= 0; i-- {
			if page[i].User != nil {
				next = page[i].User.ID
				break
			}
		}
		if next == "" || next == after {
			break
		}
		after = next
	}

	writeJSON(w, http.StatusOK, members)
}

// ServeRoles handles GET /api/guilds/roles/{guildID}.
func (h *Handler) ServeRoles(w http.ResponseWriter, r *http.Request) {
	if h.Discord == nil {
		apierr.Write(w, &apierr.Error{Status: http.StatusServiceUnavailable, Msg: "guild directory not configured"})
		return
	}

	guildID := chi.URLParam(r, "guildID")

	discordRoles, err := h.Discord.GuildRoles(guildID)
	if err != nil {
		h.Log.Error("guilds: role fetch failed", zap.String("guild_id", guildID), zap.Error(err))
		apierr.Write(w, &apierr.Error{Status: http.StatusBadGateway, Msg: "guild roles could not be fetched"})
		return
	}

	roles := make([]role, 0, len(discordRoles))
	for _, dr := range discordRoles {
		roles = append(roles, role{ID: dr.ID, Name: dr.Name})
	}

	writeJSON(w, http.StatusOK, roles)
}
