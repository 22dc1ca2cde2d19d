// internal/domain/models/guildconfig.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuildConfig is the per-guild configuration document. There is exactly one
// per guild_id; POSTing a config replaces the whole document (no merge).
type GuildConfig struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	GuildID string             `bson:"guild_id" json:"guild_id"`

	Models  []string `bson:"models" json:"models"`   // earnable categories
	Shifts  []string `bson:"shifts" json:"shifts"`
	Periods []string `bson:"periods" json:"periods"`

	// BonusRules are kept sorted ascending by From on every save.
	// Overlapping ranges and to<from are accepted (legacy data exists).
	BonusRules []BonusRule `bson:"bonus_rules" json:"bonus_rules"`

	DisplaySettings    DisplaySettings    `bson:"display_settings" json:"display_settings"`
	CommissionSettings CommissionSettings `bson:"commission_settings" json:"commission_settings"`

	// Roles is the legacy flat role→percentage map. It coexists with
	// CommissionSettings.Roles and is written verbatim.
	Roles map[string]float64 `bson:"roles" json:"roles"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// BonusRule is one payout tier over a revenue range.
type BonusRule struct {
	From   float64 `bson:"from" json:"from"`
	To     float64 `bson:"to" json:"to"`
	Amount float64 `bson:"amount" json:"amount"`
}

// DisplaySettings controls how the originating bot presents itself.
type DisplaySettings struct {
	EphemeralResponses bool   `bson:"ephemeral_responses" json:"ephemeral_responses"`
	ShowAverage        bool   `bson:"show_average" json:"show_average"`
	AgencyName         string `bson:"agency_name" json:"agency_name"`
	ShowIDs            bool   `bson:"show_ids" json:"show_ids"`
	BotName            string `bson:"bot_name" json:"bot_name"`
}

// CommissionSettings holds per-role and per-user commission overrides.
// Map keys are Discord snowflake ids (roles) and user mention ids (users).
type CommissionSettings struct {
	Roles map[string]RoleCommission `bson:"roles" json:"roles"`
	Users map[string]UserCommission `bson:"users" json:"users"`
}

// RoleCommission is the commission applied to every holder of a role.
type RoleCommission struct {
	CommissionPercentage float64 `bson:"commission_percentage" json:"commission_percentage"`
}

// UserCommission is a per-user override. CommissionPercentage is only
// meaningful when OverrideRole is set, hence the pointer.
type UserCommission struct {
	HourlyRate           float64  `bson:"hourly_rate" json:"hourly_rate"`
	OverrideRole         bool     `bson:"override_role" json:"override_role"`
	CommissionPercentage *float64 `bson:"commission_percentage,omitempty" json:"commission_percentage,omitempty"`
}
